package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/oksasatya/user-service/internal/domain/entity"
	"github.com/oksasatya/user-service/internal/domain/repository"
)

const accountColumns = `id, username, email, password_hash, password_changed_at, full_name, bio, birthday,
	github_link, linkedin_link, avatar, is_email_confirmed, is_active, role_id, created_at`

type AccountRepository struct {
	db DB
}

func NewAccountRepository(db DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	a := &entity.Account{}
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.PasswordChangedAt, &a.FullName,
		&a.Bio, &a.Birthday, &a.GithubLink, &a.LinkedInLink, &a.Avatar, &a.IsEmailConfirmed, &a.IsActive,
		&a.RoleID, &a.CreatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AccountRepository) findOne(ctx context.Context, op, where string, arg any) (*entity.Account, error) {
	a, err := scanAccount(r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, oops.In("account_repository").With("op", op).Wrap(err)
	}
	return a, nil
}

// FindByUsernameOrEmail matches the identifier against both unique columns.
func (r *AccountRepository) FindByUsernameOrEmail(ctx context.Context, identifier string) (*entity.Account, error) {
	return r.findOne(ctx, "find_by_username_or_email", `username = $1 OR email = $1 LIMIT 1`, identifier)
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*entity.Account, error) {
	return r.findOne(ctx, "find_by_id", `id = $1`, id)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.findOne(ctx, "find_by_email", `email = $1`, email)
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	return r.findOne(ctx, "find_by_username", `username = $1`, username)
}

func (r *AccountRepository) exists(ctx context.Context, op, column, value string, excludeID int64) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE `+column+` = $1 AND id <> $2)`, value, excludeID,
	).Scan(&ok)
	if err != nil {
		return false, oops.In("account_repository").With("op", op).Wrap(err)
	}
	return ok, nil
}

func (r *AccountRepository) ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error) {
	return r.exists(ctx, "exists_by_username", "username", username, excludeID)
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.exists(ctx, "exists_by_email", "email", email, excludeID)
}

// Add inserts the account and fills in the generated id.
func (r *AccountRepository) Add(ctx context.Context, a *entity.Account) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO accounts (username, email, password_hash, password_changed_at, full_name, bio, birthday,
			github_link, linkedin_link, avatar, is_email_confirmed, is_active, role_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`, a.Username, a.Email, a.PasswordHash, a.PasswordChangedAt, a.FullName, a.Bio, a.Birthday,
		a.GithubLink, a.LinkedInLink, a.Avatar, a.IsEmailConfirmed, a.IsActive, a.RoleID, a.CreatedAt)

	if err := row.Scan(&a.ID); err != nil {
		return translateWriteError("add", err)
	}
	return nil
}

// Update writes every mutable column. created_at is never rewritten.
func (r *AccountRepository) Update(ctx context.Context, a *entity.Account) error {
	res, err := r.db.Exec(ctx, `
		UPDATE accounts
		SET username = $1, email = $2, password_hash = $3, password_changed_at = $4, full_name = $5, bio = $6,
			birthday = $7, github_link = $8, linkedin_link = $9, avatar = $10, is_email_confirmed = $11,
			is_active = $12, role_id = $13
		WHERE id = $14
	`, a.Username, a.Email, a.PasswordHash, a.PasswordChangedAt, a.FullName, a.Bio, a.Birthday,
		a.GithubLink, a.LinkedInLink, a.Avatar, a.IsEmailConfirmed, a.IsActive, a.RoleID, a.ID)
	if err != nil {
		return translateWriteError("update", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *AccountRepository) RoleName(ctx context.Context, roleID int64) (string, error) {
	var name string
	if err := r.db.QueryRow(ctx, `SELECT name FROM roles WHERE id = $1`, roleID).Scan(&name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", repository.ErrNotFound
		}
		return "", oops.In("account_repository").With("op", "role_name").Wrap(err)
	}
	return name, nil
}

// translateWriteError maps unique violations to repository.ErrConflict so that a
// lost check-then-insert race surfaces as a conflict instead of a server error.
func translateWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return oops.In("account_repository").
			With("op", op, "constraint", pgErr.ConstraintName).
			Wrap(repository.ErrConflict)
	}
	return oops.In("account_repository").With("op", op).Wrap(err)
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
