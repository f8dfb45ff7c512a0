package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/niksmo/smartmart/internal/core/port"
)

const (
	DefaultAuthTimeout = 15 * time.Second

	defaultProfileName = "User"
)

var _ port.Authenticator = (*Auth)(nil)

// Auth drives the identity provider and keeps user profiles next to the
// catalog. Every provider call is bounded by the configured timeout.
type Auth struct {
	idp     port.IdentityProvider
	users   port.UsersStorage
	timeout time.Duration
}

func NewAuth(
	idp port.IdentityProvider, users port.UsersStorage, timeout time.Duration,
) Auth {
	if timeout <= 0 {
		timeout = DefaultAuthTimeout
	}
	return Auth{idp, users, timeout}
}

func (s Auth) SignIn(
	ctx context.Context, email, password string,
) (domain.Session, error) {
	const op = "Auth.SignIn"

	if err := ctx.Err(); err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if blank(email) || password == "" {
		return domain.Session{}, fmt.Errorf(
			"%s: email and password are required: %w", op, domain.ErrValidation,
		)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	session, err := s.idp.SignIn(ctx, email, password)
	if err != nil {
		return domain.Session{}, timeoutErr(op, err)
	}
	return session, nil
}

// SignUp creates the account and then stores the profile. A failed
// profile write does not fail the sign-up and is reported as ProfileErr.
func (s Auth) SignUp(
	ctx context.Context, email, password, confirm, name string,
) (domain.SignInResult, error) {
	const op = "Auth.SignUp"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.SignInResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if blank(email) || password == "" || blank(name) {
		return domain.SignInResult{}, fmt.Errorf(
			"%s: name, email and password are required: %w", op, domain.ErrValidation,
		)
	}
	if password != confirm {
		return domain.SignInResult{}, fmt.Errorf(
			"%s: passwords do not match: %w", op, domain.ErrValidation,
		)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	session, err := s.idp.SignUp(ctx, email, password, name)
	if err != nil {
		return domain.SignInResult{}, timeoutErr(op, err)
	}

	res := domain.SignInResult{Session: session}
	err = s.users.PutUser(ctx, domain.User{
		ID:        session.UserID,
		Name:      name,
		Email:     session.Email,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		log.Warn("profile write failed", "user", session.UserID, "err", err)
		res.ProfileErr = timeoutErr(op, err)
	}
	return res, nil
}

// SignInFederated creates the profile on first sign-in only.
func (s Auth) SignInFederated(
	ctx context.Context, idToken string,
) (domain.SignInResult, error) {
	const op = "Auth.SignInFederated"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.SignInResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if blank(idToken) {
		return domain.SignInResult{}, fmt.Errorf(
			"%s: id token is required: %w", op, domain.ErrValidation,
		)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	session, err := s.idp.SignInWithCredential(ctx, idToken)
	if err != nil {
		return domain.SignInResult{}, timeoutErr(op, err)
	}

	res := domain.SignInResult{Session: session}
	if err := s.ensureProfile(ctx, session); err != nil {
		log.Warn("profile write failed", "user", session.UserID, "err", err)
		res.ProfileErr = timeoutErr(op, err)
	}
	return res, nil
}

func (s Auth) ensureProfile(ctx context.Context, session domain.Session) error {
	_, err := s.users.GetUser(ctx, session.UserID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	name := session.Name
	if blank(name) {
		name = defaultProfileName
	}
	return s.users.PutUser(ctx, domain.User{
		ID:        session.UserID,
		Name:      name,
		Email:     session.Email,
		CreatedAt: time.Now().UTC(),
	})
}

func (s Auth) SignOut(ctx context.Context, token string) error {
	const op = "Auth.SignOut"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if blank(token) {
		return fmt.Errorf("%s: no session: %w", op, domain.ErrUnauthenticated)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.idp.SignOut(ctx, token); err != nil {
		return timeoutErr(op, err)
	}
	return nil
}

func (s Auth) ResetPassword(ctx context.Context, email string) error {
	const op = "Auth.ResetPassword"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if blank(email) {
		return fmt.Errorf("%s: email is required: %w", op, domain.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.idp.SendPasswordResetEmail(ctx, email); err != nil {
		return timeoutErr(op, err)
	}
	return nil
}

func (s Auth) Session(ctx context.Context, token string) (domain.Session, error) {
	const op = "Auth.Session"

	if err := ctx.Err(); err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if blank(token) {
		return domain.Session{}, fmt.Errorf("%s: no session: %w", op, domain.ErrUnauthenticated)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	session, err := s.idp.CurrentSession(ctx, token)
	if err != nil {
		return domain.Session{}, timeoutErr(op, err)
	}
	return session, nil
}

func (s Auth) Profile(ctx context.Context, id domain.UserID) (domain.User, error) {
	const op = "Auth.Profile"

	if err := ctx.Err(); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, timeoutErr(op, err)
	}
	return u, nil
}

// timeoutErr tags deadline expiry with [domain.ErrTimeout].
func timeoutErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrTimeout) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
