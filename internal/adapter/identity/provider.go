package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/niksmo/smartmart/internal/core/port"
	"golang.org/x/crypto/bcrypt"
)

var _ port.IdentityProvider = (*Provider)(nil)

// Provider authenticates accounts stored next to the catalog and issues
// signed session tokens backed by the sessions table.
type Provider struct {
	sqldb sqldb
	opts  opts
}

func NewProvider(sqldb sqldb, opts ...ProviderOpt) (Provider, error) {
	const op = "identity.NewProvider"

	p := Provider{sqldb: sqldb}
	p.opts.sessionTTL = defaultSessionTTL
	for _, opt := range opts {
		if err := opt(&p.opts); err != nil {
			return Provider{}, fmt.Errorf("%s: %w", op, err)
		}
	}
	if len(p.opts.sessionSecret) == 0 {
		return Provider{}, fmt.Errorf("%s: session secret is required", op)
	}
	return p, nil
}

func (p Provider) SignIn(
	ctx context.Context, email, password string,
) (domain.Session, error) {
	const op = "Provider.SignIn"

	if err := ctx.Err(); err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return domain.Session{}, fmt.Errorf(
			"%s: email and password are required: %w", op, domain.ErrValidation,
		)
	}

	query := `
		SELECT user_id, name, password_hash
		FROM accounts WHERE email = $1;`

	var (
		userID, name string
		hash         sql.NullString
	)
	err := p.sqldb.QueryRowContext(ctx, query, email).Scan(&userID, &name, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, fmt.Errorf(
			"%s: invalid credentials: %w", op, domain.ErrUnauthenticated,
		)
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w: %w", op, domain.ErrNetwork, err)
	}

	if !hash.Valid || bcrypt.CompareHashAndPassword(
		[]byte(hash.String), []byte(password),
	) != nil {
		return domain.Session{}, fmt.Errorf(
			"%s: invalid credentials: %w", op, domain.ErrUnauthenticated,
		)
	}

	return p.issueSession(ctx, op, domain.UserID(userID), name, email)
}

func (p Provider) SignUp(
	ctx context.Context, email, password, name string,
) (domain.Session, error) {
	const op = "Provider.SignUp"

	if err := ctx.Err(); err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return domain.Session{}, fmt.Errorf(
			"%s: email and password are required: %w", op, domain.ErrValidation,
		)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w: %w", op, domain.ErrValidation, err)
	}

	userID := uuid.NewString()
	query := `
		INSERT INTO accounts (user_id, email, password_hash, name, created_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (email) DO NOTHING;`

	res, err := p.sqldb.ExecContext(ctx, query, userID, email, string(hash), name)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w: %w", op, domain.ErrNetwork, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.Session{}, fmt.Errorf(
			"%s: email already registered: %w", op, domain.ErrValidation,
		)
	}

	return p.issueSession(ctx, op, domain.UserID(userID), name, email)
}

// SignInWithCredential exchanges a federated identity token for a session.
// The account is created on first use.
func (p Provider) SignInWithCredential(
	ctx context.Context, idToken string,
) (domain.Session, error) {
	const op = "Provider.SignInWithCredential"

	if err := ctx.Err(); err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(p.opts.federatedSecret) == 0 {
		return domain.Session{}, fmt.Errorf(
			"%s: federated sign-in is disabled: %w", op, domain.ErrUnauthenticated,
		)
	}

	var claims federatedClaims
	if err := parseToken(idToken, &claims, p.opts.federatedSecret); err != nil {
		return domain.Session{}, fmt.Errorf(
			"%s: %w: %w", op, domain.ErrUnauthenticated, err,
		)
	}
	if claims.Subject == "" {
		return domain.Session{}, fmt.Errorf(
			"%s: token has no subject: %w", op, domain.ErrUnauthenticated,
		)
	}

	email := normalizeEmail(claims.Email)
	query := `
		INSERT INTO accounts (user_id, email, password_hash, name, created_at)
		VALUES ($1, $2, NULL, $3, now())
		ON CONFLICT DO NOTHING;`

	_, err := p.sqldb.ExecContext(ctx, query, claims.Subject, email, claims.Name)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w: %w", op, domain.ErrNetwork, err)
	}

	return p.issueSession(
		ctx, op, domain.UserID(claims.Subject), claims.Name, email,
	)
}

// SignOut revokes the session. Unknown sessions are not an error.
func (p Provider) SignOut(ctx context.Context, token string) error {
	const op = "Provider.SignOut"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var claims sessionClaims
	if err := parseToken(token, &claims, p.opts.sessionSecret); err != nil {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrUnauthenticated, err)
	}

	query := `DELETE FROM sessions WHERE id = $1;`
	if _, err := p.sqldb.ExecContext(ctx, query, claims.ID); err != nil {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrNetwork, err)
	}
	return nil
}

func (p Provider) SendPasswordResetEmail(ctx context.Context, email string) error {
	const op = "Provider.SendPasswordResetEmail"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%s: email is required: %w", op, domain.ErrValidation)
	}
	if p.opts.mailer == nil {
		return fmt.Errorf("%s: password reset is not configured", op)
	}

	query := `SELECT user_id FROM accounts WHERE email = $1;`

	var userID string
	err := p.sqldb.QueryRowContext(ctx, query, email).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrNetwork, err)
	}

	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		Audience:  jwt.ClaimStrings{resetAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(resetTokenTTL)),
	}).SignedString(p.opts.sessionSecret)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	link, err := resetLink(p.opts.resetURL, token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	body := "Follow the link to reset your password:\n\n" + link +
		"\n\nThe link expires in 30 minutes."
	if err := p.opts.mailer.Send(ctx, email, "Password reset", body); err != nil {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrNetwork, err)
	}

	log.Info("password reset mail sent", "userID", userID)
	return nil
}

// CurrentSession resolves a token to a live session.
func (p Provider) CurrentSession(
	ctx context.Context, token string,
) (domain.Session, error) {
	const op = "Provider.CurrentSession"

	if err := ctx.Err(); err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	var claims sessionClaims
	if err := parseToken(token, &claims, p.opts.sessionSecret); err != nil {
		return domain.Session{}, fmt.Errorf(
			"%s: %w: %w", op, domain.ErrUnauthenticated, err,
		)
	}

	query := `
		SELECT user_id FROM sessions
		WHERE id = $1 AND expires_at > now();`

	var userID string
	err := p.sqldb.QueryRowContext(ctx, query, claims.ID).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, fmt.Errorf(
			"%s: session revoked or expired: %w", op, domain.ErrUnauthenticated,
		)
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w: %w", op, domain.ErrNetwork, err)
	}

	var expires time.Time
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time.UTC()
	}
	return domain.Session{
		Token:     token,
		UserID:    domain.UserID(userID),
		Name:      claims.Name,
		Email:     claims.Email,
		ExpiresAt: expires,
	}, nil
}

func (p Provider) issueSession(
	ctx context.Context, op string, userID domain.UserID, name, email string,
) (domain.Session, error) {
	now := time.Now()
	expires := now.Add(p.opts.sessionTTL)
	sessionID := uuid.NewString()

	query := `
		INSERT INTO sessions (id, user_id, expires_at)
		VALUES ($1, $2, $3);`

	_, err := p.sqldb.ExecContext(ctx, query, sessionID, userID.String(), expires)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w: %w", op, domain.ErrNetwork, err)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Name:  name,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}).SignedString(p.opts.sessionSecret)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	return domain.Session{
		Token:     token,
		UserID:    userID,
		Name:      name,
		Email:     email,
		ExpiresAt: expires.UTC(),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func resetLink(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid reset url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
