package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-service/internal/domain/entity"
	"github.com/oksasatya/user-service/internal/domain/repository"
)

var accountColumnNames = []string{
	"id", "username", "email", "password_hash", "password_changed_at", "full_name", "bio", "birthday",
	"github_link", "linkedin_link", "avatar", "is_email_confirmed", "is_active", "role_id", "created_at",
}

func accountRows(created time.Time) *pgxmock.Rows {
	return pgxmock.NewRows(accountColumnNames).
		AddRow(int64(7), "alice", "alice@example.com", "$2a$hash", nil, "Alice Smith", "", nil,
			"", "", "", false, true, int64(2), created)
}

func TestAccountRepository_Find(t *testing.T) {
	created := time.Date(2025, 8, 25, 7, 22, 44, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		call      func(repo *AccountRepository) (*entity.Account, error)
		wantErr   error
		wantID    int64
	}{
		{
			name: "by username or email",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM accounts WHERE username = \$1 OR email = \$1`).
					WithArgs("alice@example.com").
					WillReturnRows(accountRows(created))
			},
			call: func(repo *AccountRepository) (*entity.Account, error) {
				return repo.FindByUsernameOrEmail(context.Background(), "alice@example.com")
			},
			wantID: 7,
		},
		{
			name: "by id not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM accounts WHERE id = \$1`).
					WithArgs(int64(99)).
					WillReturnRows(pgxmock.NewRows(accountColumnNames))
			},
			call: func(repo *AccountRepository) (*entity.Account, error) {
				return repo.FindByID(context.Background(), 99)
			},
			wantErr: repository.ErrNotFound,
		},
		{
			name: "by email driver failure",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM accounts WHERE email = \$1`).
					WithArgs("bob@example.com").
					WillReturnError(errors.New("connection refused"))
			},
			call: func(repo *AccountRepository) (*entity.Account, error) {
				return repo.FindByEmail(context.Background(), "bob@example.com")
			},
			wantErr: errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			got, err := tt.call(NewAccountRepository(mock))

			switch {
			case errors.Is(tt.wantErr, repository.ErrNotFound):
				assert.ErrorIs(t, err, repository.ErrNotFound)
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, got.ID)
				assert.Equal(t, "alice", got.Username)
				assert.Nil(t, got.PasswordChangedAt)
				assert.Equal(t, created, got.CreatedAt)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestAccountRepository_ExistsByUsername(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM accounts WHERE username = \$1 AND id <> \$2\)`).
		WithArgs("alice", int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := NewAccountRepository(mock).ExistsByUsername(context.Background(), "alice", 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Add(t *testing.T) {
	t.Run("assigns generated id", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`INSERT INTO accounts`).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

		a := entity.NewAccount(entity.NewAccountParams{Username: "alice", Email: "alice@example.com", PasswordHash: "h", RoleID: 2}, time.Now())
		require.NoError(t, NewAccountRepository(mock).Add(context.Background(), a))
		assert.Equal(t, int64(42), a.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation becomes conflict", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`INSERT INTO accounts`).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "ux_accounts_username"})

		a := entity.NewAccount(entity.NewAccountParams{Username: "alice", Email: "alice@example.com", PasswordHash: "h", RoleID: 2}, time.Now())
		err = NewAccountRepository(mock).Add(context.Background(), a)
		assert.ErrorIs(t, err, repository.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_Update(t *testing.T) {
	t.Run("no rows affected", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`UPDATE accounts`).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err = NewAccountRepository(mock).Update(context.Background(), &entity.Account{ID: 5, PasswordHash: "h"})
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation on email change", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`UPDATE accounts`).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "ux_accounts_email"})

		err = NewAccountRepository(mock).Update(context.Background(), &entity.Account{ID: 5, PasswordHash: "h"})
		assert.ErrorIs(t, err, repository.ErrConflict)
	})
}

func TestAccountRepository_RoleName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT name FROM roles WHERE id = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("User"))

	name, err := NewAccountRepository(mock).RoleName(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "User", name)
}
