package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/niksmo/smartmart/internal/core/port"
)

var _ port.UsersStorage = (*UsersRepository)(nil)

type UsersRepository struct {
	sqldb sqldb
}

func NewUsersRepository(sqldb sqldb) UsersRepository {
	return UsersRepository{sqldb}
}

// PutUser overwrites the profile keyed by u.ID.
func (r UsersRepository) PutUser(ctx context.Context, u domain.User) error {
	const op = "UsersRepository.PutUser"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if u.ID == "" {
		return fmt.Errorf("%s: empty user id: %w", op, domain.ErrValidation)
	}

	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO users (
			id, name, email, profile_image_url, phone_number, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			profile_image_url = EXCLUDED.profile_image_url,
			phone_number = EXCLUDED.phone_number;`

	_, err := r.sqldb.ExecContext(ctx, query,
		u.ID.String(), u.Name, u.Email, u.ProfileImageURL, u.PhoneNumber, createdAt,
	)
	if err != nil {
		return remoteErr(op, err)
	}
	return nil
}

func (r UsersRepository) GetUser(
	ctx context.Context, id domain.UserID,
) (domain.User, error) {
	const op = "UsersRepository.GetUser"

	if err := ctx.Err(); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT id, name, email, profile_image_url, phone_number, created_at
		FROM users WHERE id = $1;`

	var (
		v   domain.User
		uid string
	)
	err := r.sqldb.QueryRowContext(ctx, query, id.String()).Scan(
		&uid, &v.Name, &v.Email, &v.ProfileImageURL, &v.PhoneNumber, &v.CreatedAt,
	)
	if err != nil {
		return domain.User{}, remoteErr(op, err)
	}
	v.ID = domain.UserID(uid)
	v.CreatedAt = v.CreatedAt.UTC()
	return v, nil
}
