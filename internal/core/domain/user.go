package domain

import "time"

type User struct {
	ID              UserID
	Name            string
	Email           string
	ProfileImageURL string
	PhoneNumber     string
	CreatedAt       time.Time
}

// A Session is the opaque handle returned by the identity provider.
type Session struct {
	Token     string
	UserID    UserID
	Name      string
	Email     string
	ExpiresAt time.Time
}

// A SignInResult reports the primary sign-in outcome together with the
// best-effort profile write.
//
// ProfileErr is non-nil when the session was issued but the profile
// could not be stored or checked.
type SignInResult struct {
	Session    Session
	ProfileErr error
}

type NotificationType string

const (
	NotificationOrder   NotificationType = "order"
	NotificationOffers  NotificationType = "offers"
	NotificationGeneral NotificationType = "general"
)

type Notification struct {
	Type   NotificationType
	Title  string
	Body   string
	UserID UserID
}

// A NotificationChannel is a fixed presentation channel on the device.
type NotificationChannel string

const (
	ChannelOrders NotificationChannel = "orders"
	ChannelOffers NotificationChannel = "offers"
)

// Channel maps a message type to its presentation channel. Everything
// except order updates is shown as an offer.
func (t NotificationType) Channel() NotificationChannel {
	if t == NotificationOrder {
		return ChannelOrders
	}
	return ChannelOffers
}
