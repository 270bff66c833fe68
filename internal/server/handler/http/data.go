package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"securedata/internal/middleware"
	"securedata/internal/models"
	"securedata/internal/repository"
	"securedata/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Clearance floors per operation. Declared here, next to the routes that
// use them, so the access matrix stays auditable in one place.
const (
	// ClearanceList is the floor for listing records; record-level
	// filtering still applies on top.
	ClearanceList = models.ClearanceMin
	// ClearanceCreate is the floor for creating records; the caller must
	// additionally hold the tier stated on the new record.
	ClearanceCreate = models.ClearanceMin
	// ClearanceSave is the floor for saving a record; the caller must
	// additionally hold the target record's tier.
	ClearanceSave = models.ClearanceMin
	// ClearanceSavedList is the floor for reading one's own saved set.
	ClearanceSavedList = models.ClearanceMin
	// ClearanceUnsave is the floor for removing a saved reference.
	ClearanceUnsave = 2
	// ClearanceDelete is the floor for permanently deleting a record.
	ClearanceDelete = models.ClearanceMax
)

// RecordService defines the record operations required by the HTTP
// handlers. Every operation receives the gate-resolved caller and
// re-derives its own clearance decisions.
type RecordService interface {
	List(ctx context.Context, caller *models.User) ([]models.Record, error)
	Create(ctx context.Context, caller *models.User, input service.RecordInput) (*models.Record, error)
	Save(ctx context.Context, caller *models.User, recordID string) ([]string, error)
	Unsave(ctx context.Context, caller *models.User, recordID string) ([]string, error)
	ListSaved(ctx context.Context, caller *models.User) ([]models.Record, error)
	Delete(ctx context.Context, caller *models.User, recordID string) error
}

// DataHandler handles the clearance-controlled record endpoints.
type DataHandler struct {
	// RecordService performs the underlying record operations.
	RecordService RecordService
	// Log is used for store-failure logging.
	Log *zap.Logger
}

// saveRequest represents the JSON payload for saving a record.
type saveRequest struct {
	RecordID string `json:"recordId"`
}

// List handles GET /data. Responds with every record at or below the
// caller's clearance, newest first.
func (h *DataHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())

	records, err := h.RecordService.List(r.Context(), caller)
	if err != nil {
		h.serviceError(w, "list records", err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Create handles POST /data. The body carries the new record's fields; the
// server assigns id, creation time, and owner.
func (h *DataHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())

	var input service.RecordInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	rec, err := h.RecordService.Create(r.Context(), caller, input)
	if err != nil {
		h.serviceError(w, "create record", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Save handles PUT /data. The body carries the id of the record to add to
// the caller's saved set; re-saving is a successful no-op.
func (h *DataHandler) Save(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RecordID == "" {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	saved, err := h.RecordService.Save(r.Context(), caller, req.RecordID)
	if err != nil {
		h.serviceError(w, "save record", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"savedRecordRefs": saved})
}

// Unsave handles DELETE /data/saved/{userId}/{recordId}. A caller may only
// modify their own saved set; the path user id must match the
// authenticated identity.
func (h *DataHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())

	if chi.URLParam(r, "userId") != caller.ID {
		writeMessage(w, http.StatusForbidden, "cannot modify another user's saved records")
		return
	}

	saved, err := h.RecordService.Unsave(r.Context(), caller, chi.URLParam(r, "recordId"))
	if err != nil {
		h.serviceError(w, "unsave record", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"savedRecordRefs": saved})
}

// ListSaved handles GET /data/saved/{userId}. A caller may only read their
// own saved set.
func (h *DataHandler) ListSaved(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())

	if chi.URLParam(r, "userId") != caller.ID {
		writeMessage(w, http.StatusForbidden, "cannot read another user's saved records")
		return
	}

	records, err := h.RecordService.ListSaved(r.Context(), caller)
	if err != nil {
		h.serviceError(w, "list saved records", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Record{"savedRecordRefs": records})
}

// Delete handles DELETE /data/{recordId}. The route gate restricts this to
// the highest clearance tier.
func (h *DataHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())

	if err := h.RecordService.Delete(r.Context(), caller, chi.URLParam(r, "recordId")); err != nil {
		h.serviceError(w, "delete record", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// serviceError maps service-layer failures onto the HTTP error taxonomy.
// Unrecognized errors are store failures: logged and answered 500, never
// folded into a success response.
func (h *DataHandler) serviceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyDescription):
		writeMessage(w, http.StatusBadRequest, "description required")
	case errors.Is(err, service.ErrInvalidClearance):
		writeMessage(w, http.StatusBadRequest, "invalid clearance level")
	case errors.Is(err, service.ErrInsufficientClearance):
		writeMessage(w, http.StatusForbidden, "insufficient clearance")
	case errors.Is(err, repository.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "record not found")
	default:
		h.Log.Error(op+" failed", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}
