package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskly/tasks-api/internal/domain"
	"github.com/taskly/tasks-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

var userRowColumns = []string{"id", "username", "hashed_password", "created_at", "updated_at"}

func newMockUserStore(t *testing.T) (*PostgresUserStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresUserStore(db, bcrypt.MinCost, nil), mock
}

func TestPostgresUserStore_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password and clears the plaintext", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		user, err := domain.NewUser("alice", "correct horse battery")
		require.NoError(t, err)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs(user.ID, "alice", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(ctx, user))

		assert.Empty(t, user.Password)
		require.NotEmpty(t, user.HashedPassword)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("correct horse battery")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate username", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		user, err := domain.NewUser("alice", "correct horse battery")
		require.NoError(t, err)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_username_key"})

		err = s.Create(ctx, user)

		assert.ErrorIs(t, err, store.ErrUsernameExists)
		assert.True(t, store.IsDuplicateError(err))
		assert.Equal(t, "correct horse battery", user.Password, "plaintext is kept when the insert fails")
	})

	t.Run("short password never reaches the database", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		user := &domain.User{
			ID:        uuid.New(),
			Username:  "alice",
			Password:  "short",
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		}

		err := s.Create(ctx, user)

		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresUserStore_Lookups(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("by username", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE username = $1")).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow(id.String(), "alice", "$2a$04$hash", now, now))

		user, err := s.GetByUsername(ctx, "alice")

		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "$2a$04$hash", user.HashedPassword)
		assert.Empty(t, user.Password)
	})

	t.Run("by id missing", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		user, err := s.GetByID(ctx, id)

		assert.Nil(t, user)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestPostgresUserStore_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	s, mock := newMockUserStore(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.Delete(ctx, id), store.ErrUserNotFound)
}

func TestNewPostgresUserStore_CostFallback(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.Equal(t, bcrypt.DefaultCost, NewPostgresUserStore(db, 0, nil).bcryptCost)
	assert.Equal(t, 12, NewPostgresUserStore(db, 12, nil).bcryptCost)
}
