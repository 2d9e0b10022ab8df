package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Compile-time check that PostgresRepository implements Repository.
var _ Repository = (*PostgresRepository)(nil)

// uniqueViolation is the SQLSTATE raised by a UNIQUE constraint.
const uniqueViolation = "23505"

// DB is the subset of *pgxpool.Pool used by PostgresRepository.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores users in a PostgreSQL "users" table. Email
// uniqueness is enforced by the table's UNIQUE constraint.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository creates a repository on top of a connection pool.
func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the users table if it does not exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS users (
			id       SERIAL PRIMARY KEY,
			email    VARCHAR(255) NOT NULL UNIQUE,
			name     VARCHAR(255) NOT NULL,
			password VARCHAR(255) NOT NULL
		)`
	if _, err := r.db.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

// Save inserts a user. A unique violation on email maps to ErrEmailTaken.
func (r *PostgresRepository) Save(ctx context.Context, u User) (User, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (email, name, password) VALUES ($1, $2, $3) RETURNING id`,
		u.Email, u.Name, u.PasswordHash,
	).Scan(&u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// FindByEmail retrieves a user by email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, bool, error) {
	return r.findOne(ctx, `SELECT id, email, name, password FROM users WHERE email = $1`, email)
}

// FindByID retrieves a user by ID.
func (r *PostgresRepository) FindByID(ctx context.Context, userID int) (User, bool, error) {
	return r.findOne(ctx, `SELECT id, email, name, password FROM users WHERE id = $1`, userID)
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg any) (User, bool, error) {
	var u User
	err := r.db.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, false, nil
		}
		return User{}, false, fmt.Errorf("select user: %w", err)
	}
	return u, true, nil
}
