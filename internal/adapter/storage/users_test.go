package storage

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := NewUsersRepository(db)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("u1", "Ann", "ann@example.com", "", "", created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = r.PutUser(t.Context(), domain.User{
		ID: "u1", Name: "Ann", Email: "ann@example.com", CreatedAt: created,
	})
	require.NoError(t, err)

	query := regexp.QuoteMeta(`FROM users WHERE id = $1`)
	mock.ExpectQuery(query).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "profile_image_url", "phone_number", "created_at",
		}).AddRow("u1", "Ann", "ann@example.com", "", "", created))

	u, err := r.GetUser(t.Context(), "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("u1"), u.ID)
	assert.Equal(t, "Ann", u.Name)
	assert.True(t, created.Equal(u.CreatedAt))

	mock.ExpectQuery(query).WithArgs("u2").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = r.GetUser(t.Context(), "u2")
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = r.PutUser(t.Context(), domain.User{})
	require.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, mock.ExpectationsWereMet())
}
