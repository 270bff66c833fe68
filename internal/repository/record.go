package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"securedata/internal/models"

	"github.com/lib/pq"
)

// PostgresRecordRepository implements record-store operations against a
// PostgreSQL database.
type PostgresRecordRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresRecordRepository creates a new PostgresRecordRepository using
// the provided *sql.DB. db must be a valid connection to a PostgreSQL
// instance.
func NewPostgresRecordRepository(db *sql.DB) *PostgresRecordRepository {
	return &PostgresRecordRepository{DB: db}
}

// CreateRecord inserts a new record. The caller is responsible for having
// assigned the id, creation time, and owner reference.
func (r *PostgresRecordRepository) CreateRecord(ctx context.Context, rec *models.Record) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO records (id, clearance_level, description, tags, info, created_at, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Clearance, rec.Description, pq.Array(rec.Tags), rec.Info, rec.CreatedAt, rec.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("create record: %w", err)
	}
	return nil
}

// RecordByID fetches a single record by its identifier.
// Returns ErrNotFound if no such record exists.
func (r *PostgresRecordRepository) RecordByID(ctx context.Context, id string) (*models.Record, error) {
	var rec models.Record
	var info sql.NullString
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT id, clearance_level, description, tags, info, created_at, owner_id
		 FROM records WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.Clearance, &rec.Description, pq.Array(&rec.Tags), &info, &rec.CreatedAt, &rec.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("record by id: %w", err)
	}
	rec.Info = info.String
	return &rec, nil
}

// RecordsUpTo fetches all records whose clearance does not exceed the given
// tier, newest creation time first with insertion order as the tie-break.
func (r *PostgresRecordRepository) RecordsUpTo(ctx context.Context, clearance int) ([]models.Record, error) {
	rows, err := r.DB.QueryContext(
		ctx,
		`SELECT id, clearance_level, description, tags, info, created_at, owner_id
		 FROM records WHERE clearance_level <= $1
		 ORDER BY created_at DESC, seq`,
		clearance,
	)
	if err != nil {
		return nil, fmt.Errorf("records up to: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// SavedRecords fetches the full records referenced by the user's saved set,
// newest creation time first with insertion order as the tie-break.
func (r *PostgresRecordRepository) SavedRecords(ctx context.Context, userID string) ([]models.Record, error) {
	rows, err := r.DB.QueryContext(
		ctx,
		`SELECT r.id, r.clearance_level, r.description, r.tags, r.info, r.created_at, r.owner_id
		 FROM records r
		 JOIN saved_records s ON s.record_id = r.id
		 WHERE s.user_id = $1
		 ORDER BY r.created_at DESC, r.seq`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("saved records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// DeleteRecord permanently removes a record. Saved references to it are
// pruned by the saved_records foreign-key cascade.
// Returns ErrNotFound if the record does not exist.
func (r *PostgresRecordRepository) DeleteRecord(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// scanRecords drains a record result set into a slice.
func scanRecords(rows *sql.Rows) ([]models.Record, error) {
	records := []models.Record{}
	for rows.Next() {
		var rec models.Record
		var info sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Clearance, &rec.Description, pq.Array(&rec.Tags), &info, &rec.CreatedAt, &rec.OwnerID); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rec.Info = info.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return records, nil
}
