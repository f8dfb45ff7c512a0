package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	defaultSessionTTL = 30 * 24 * time.Hour
	resetTokenTTL     = 30 * time.Minute
	resetAudience     = "password-reset"
)

type sqldb interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// A Mailer delivers a plain-text message to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type sessionClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// federatedClaims is the identity token issued by the federation partner.
type federatedClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

type opts struct {
	sessionSecret   []byte
	federatedSecret []byte
	sessionTTL      time.Duration
	resetURL        string
	mailer          Mailer
}

type ProviderOpt func(*opts) error

func SessionSecretOpt(secret string) ProviderOpt {
	return func(o *opts) error {
		if secret == "" {
			return errors.New("empty session secret")
		}
		o.sessionSecret = []byte(secret)
		return nil
	}
}

func FederatedSecretOpt(secret string) ProviderOpt {
	return func(o *opts) error {
		if secret == "" {
			return errors.New("empty federated secret")
		}
		o.federatedSecret = []byte(secret)
		return nil
	}
}

func SessionTTLOpt(ttl time.Duration) ProviderOpt {
	return func(o *opts) error {
		if ttl <= 0 {
			return errors.New("non-positive session ttl")
		}
		o.sessionTTL = ttl
		return nil
	}
}

// PasswordResetOpt enables reset mail. The token is appended to resetURL
// as the "token" query parameter.
func PasswordResetOpt(resetURL string, m Mailer) ProviderOpt {
	return func(o *opts) error {
		if resetURL == "" || m == nil {
			return errors.New("reset url and mailer are required")
		}
		o.resetURL = resetURL
		o.mailer = m
		return nil
	}
}

func hmacKey(secret []byte) jwt.Keyfunc {
	return func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}
}

// parseToken verifies the signature and the registered time claims.
func parseToken(token string, claims jwt.Claims, secret []byte) error {
	t, err := jwt.ParseWithClaims(token, claims, hmacKey(secret))
	if err != nil {
		return err
	}
	if !t.Valid {
		return errors.New("invalid token")
	}
	return nil
}
