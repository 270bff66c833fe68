package service

import (
	"context"
	"errors"
	"time"

	"securedata/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrInsufficientClearance is returned when the caller's tier is below
	// the tier of the record being created, saved, or otherwise acted on.
	ErrInsufficientClearance = errors.New("insufficient clearance")
	// ErrEmptyDescription is returned when a new record has no description.
	ErrEmptyDescription = errors.New("description required")
	// ErrInvalidClearance is returned when a new record's tier is outside
	// the supported range.
	ErrInvalidClearance = errors.New("invalid clearance level")
)

// RecordRepository defines the record-store operations needed by the
// RecordService.
type RecordRepository interface {
	// CreateRecord inserts a new record.
	CreateRecord(ctx context.Context, rec *models.Record) error
	// RecordByID fetches a record, or repository.ErrNotFound.
	RecordByID(ctx context.Context, id string) (*models.Record, error)
	// RecordsUpTo fetches all records at or below the given tier,
	// newest first.
	RecordsUpTo(ctx context.Context, clearance int) ([]models.Record, error)
	// SavedRecords fetches the records in the user's saved set, newest first.
	SavedRecords(ctx context.Context, userID string) ([]models.Record, error)
	// DeleteRecord permanently removes a record, or repository.ErrNotFound.
	DeleteRecord(ctx context.Context, id string) error
}

// SavedSetRepository defines the saved-set operations needed by the
// RecordService. All mutations are idempotent set operations.
type SavedSetRepository interface {
	// SaveRecord adds a record reference if absent.
	SaveRecord(ctx context.Context, userID, recordID string) error
	// UnsaveRecord removes a record reference if present.
	UnsaveRecord(ctx context.Context, userID, recordID string) error
	// SavedRecordIDs lists the user's saved record identifiers.
	SavedRecordIDs(ctx context.Context, userID string) ([]string, error)
}

// RecordInput carries the caller-supplied fields of a new record.
type RecordInput struct {
	Clearance   int      `json:"clearanceLevel"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Info        string   `json:"info"`
}

// RecordService implements the clearance-controlled record operations.
// Every operation re-derives its clearance decision from the acting user
// and the target record; nothing is trusted from the request body.
type RecordService struct {
	records RecordRepository
	saved   SavedSetRepository
	now     func() time.Time
}

// NewRecordService constructs a RecordService over the given repositories.
func NewRecordService(records RecordRepository, saved SavedSetRepository) *RecordService {
	return &RecordService{records: records, saved: saved, now: time.Now}
}

// List returns every record the caller is cleared to see, ordered by
// creation time descending. A record above the caller's tier is never
// returned.
func (s *RecordService) List(ctx context.Context, caller *models.User) ([]models.Record, error) {
	return s.records.RecordsUpTo(ctx, caller.Clearance)
}

// Create validates and stores a new record owned by the caller. The caller
// must hold at least the tier stated on the record itself; the server
// assigns the id and creation time.
func (s *RecordService) Create(ctx context.Context, caller *models.User, input RecordInput) (*models.Record, error) {
	if input.Description == "" {
		return nil, ErrEmptyDescription
	}
	if !models.ValidClearance(input.Clearance) {
		return nil, ErrInvalidClearance
	}
	if caller.Clearance < input.Clearance {
		return nil, ErrInsufficientClearance
	}

	rec := &models.Record{
		ID:          uuid.NewString(),
		Clearance:   input.Clearance,
		Description: input.Description,
		Tags:        input.Tags,
		Info:        input.Info,
		CreatedAt:   s.now(),
		OwnerID:     caller.ID,
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}

	if err := s.records.CreateRecord(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Save adds a record to the caller's saved set and returns the updated set
// of saved identifiers. The record must exist and be within the caller's
// tier. Re-saving an already-saved record is a successful no-op.
func (s *RecordService) Save(ctx context.Context, caller *models.User, recordID string) ([]string, error) {
	rec, err := s.records.RecordByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if caller.Clearance < rec.Clearance {
		return nil, ErrInsufficientClearance
	}

	if err := s.saved.SaveRecord(ctx, caller.ID, rec.ID); err != nil {
		return nil, err
	}
	return s.saved.SavedRecordIDs(ctx, caller.ID)
}

// Unsave removes a record from the caller's saved set and returns the
// updated set of saved identifiers. Removing an absent reference succeeds.
func (s *RecordService) Unsave(ctx context.Context, caller *models.User, recordID string) ([]string, error) {
	if err := s.saved.UnsaveRecord(ctx, caller.ID, recordID); err != nil {
		return nil, err
	}
	return s.saved.SavedRecordIDs(ctx, caller.ID)
}

// ListSaved returns the full records in the caller's own saved set.
func (s *RecordService) ListSaved(ctx context.Context, caller *models.User) ([]models.Record, error) {
	return s.records.SavedRecords(ctx, caller.ID)
}

// Delete permanently removes a record. The route gate restricts this to
// the highest tier; saved references held by any user are pruned by the
// store's cascade.
func (s *RecordService) Delete(ctx context.Context, caller *models.User, recordID string) error {
	return s.records.DeleteRecord(ctx, recordID)
}
