package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, email, name, hashed_password, first_name, last_name, creation_date`

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByEmail fetches a user by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// FindByName fetches a user by account name.
func (r *PGRepository) FindByName(ctx context.Context, name string) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE name = $1`, name)
}

// FindByID fetches a user by primary key.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *PGRepository) findOne(ctx context.Context, query string, arg any) (*User, error) {
	var user User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.HashedPassword,
		&user.FirstName,
		&user.LastName,
		&user.CreationDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// InsertLocal creates a password-backed account. The unique constraints
// remain authoritative under concurrent registrations.
func (r *PGRepository) InsertLocal(ctx context.Context, email, name, hash string, first, last *string) (*User, error) {
	const query = `
		INSERT INTO users (email, name, hashed_password, first_name, last_name, creation_date)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING ` + userColumns
	var user User
	err := r.pool.QueryRow(ctx, query, email, name, hash, first, last).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.HashedPassword,
		&user.FirstName,
		&user.LastName,
		&user.CreationDate,
	)
	if err != nil {
		return nil, mapConstraintErr(err)
	}
	return &user, nil
}

// UpsertFederated reconciles a federated identity onto a local account
// in a single statement so the conflict handling is atomic. Profile
// fields are overwritten only by non-empty new values; name and email
// of an existing row are left untouched.
func (r *PGRepository) UpsertFederated(ctx context.Context, email, name string, first, last *string) (*User, error) {
	const query = `
		INSERT INTO users (email, name, hashed_password, first_name, last_name, creation_date)
		VALUES ($1, $2, NULL, $3, $4, now())
		ON CONFLICT (email) DO UPDATE SET
			first_name = COALESCE(NULLIF(EXCLUDED.first_name, ''), users.first_name),
			last_name  = COALESCE(NULLIF(EXCLUDED.last_name, ''), users.last_name)
		RETURNING ` + userColumns
	var user User
	err := r.pool.QueryRow(ctx, query, email, name, first, last).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.HashedPassword,
		&user.FirstName,
		&user.LastName,
		&user.CreationDate,
	)
	if err != nil {
		return nil, mapConstraintErr(err)
	}
	return &user, nil
}

func mapConstraintErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "users_email_key":
			return ErrDuplicateEmail
		case "users_name_key":
			return ErrDuplicateName
		}
	}
	return err
}

var _ Repository = (*PGRepository)(nil)
