// Package repository provides PostgreSQL persistence for users, records,
// and the per-user saved-record sets.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"securedata/internal/models"
)

// ErrNotFound is returned when a requested user or record does not exist.
var ErrNotFound = errors.New("not found")

// PostgresUserRepository implements credential-store operations using a
// PostgreSQL database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the
// given database connection. db must be a valid *sql.DB connected to a
// PostgreSQL instance.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// CreateUser inserts a new user. The ON CONFLICT DO NOTHING clause makes
// the duplicate check atomic with the insert: it returns false without an
// error when the username is already taken, so two concurrent
// registrations of the same name can never both succeed.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) (bool, error) {
	res, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO users (id, username, password_hash, clearance_level)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (username) DO NOTHING`,
		user.ID, user.Username, user.PasswordHash, user.Clearance,
	)
	if err != nil {
		return false, fmt.Errorf("create user: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create user: %w", err)
	}
	return rows > 0, nil
}

// UserByUsername fetches a user by their login name.
// Returns ErrNotFound if no such user exists.
func (r *PostgresUserRepository) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT id, username, password_hash, clearance_level FROM users WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Clearance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user by username: %w", err)
	}
	return &user, nil
}

// UserByID fetches a user by their identifier.
// Returns ErrNotFound if no such user exists.
func (r *PostgresUserRepository) UserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT id, username, password_hash, clearance_level FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Clearance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user by id: %w", err)
	}
	return &user, nil
}

// SaveRecord adds a record reference to the user's saved set. The insert is
// an idempotent add-if-absent: saving an already-saved record is a no-op,
// and concurrent saves of the same record cannot produce duplicates.
func (r *PostgresUserRepository) SaveRecord(ctx context.Context, userID, recordID string) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO saved_records (user_id, record_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, recordID,
	)
	if err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	return nil
}

// UnsaveRecord removes a record reference from the user's saved set.
// Removing an absent reference is a no-op, not an error.
func (r *PostgresUserRepository) UnsaveRecord(ctx context.Context, userID, recordID string) error {
	_, err := r.DB.ExecContext(
		ctx,
		`DELETE FROM saved_records WHERE user_id = $1 AND record_id = $2`,
		userID, recordID,
	)
	if err != nil {
		return fmt.Errorf("unsave record: %w", err)
	}
	return nil
}

// SavedRecordIDs returns the identifiers in the user's saved set, oldest
// save first.
func (r *PostgresUserRepository) SavedRecordIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.DB.QueryContext(
		ctx,
		`SELECT record_id FROM saved_records WHERE user_id = $1 ORDER BY saved_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("saved record ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("saved record ids: %w", err)
	}
	return ids, nil
}
