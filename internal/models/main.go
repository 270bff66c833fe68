// Package models defines the core data structures for users and records.
package models

import "time"

// Clearance tiers. Higher means more privileged or more sensitive.
// Both users and records carry a tier; a record is visible to a user
// only when the user's tier is at least the record's tier.
const (
	// ClearanceMin is the lowest tier, assigned to new users at registration.
	ClearanceMin = 0
	// ClearanceMax is the highest tier.
	ClearanceMax = 3
)

// User represents an application user with credentials and clearance.
type User struct {
	// ID is the unique identifier for the user.
	ID string
	// Username is the login name chosen by the user. Unique and immutable.
	Username string
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash []byte
	// Clearance is the user's tier (0–3). Set at creation, never mutated.
	Clearance int
}

// Record holds a piece of shared data together with its sensitivity tier.
// JSON field names mirror the documents served by the legacy API.
type Record struct {
	// ID is the unique identifier for the record.
	ID string `json:"id"`
	// Clearance is the record's tier (0–3). Immutable after creation.
	Clearance int `json:"clearanceLevel"`
	// Description is a short required summary of the record.
	Description string `json:"description"`
	// Tags is an ordered list of free-form labels.
	Tags []string `json:"tags"`
	// Info holds optional free text.
	Info string `json:"info,omitempty"`
	// CreatedAt is assigned by the server when the record is stored.
	CreatedAt time.Time `json:"date"`
	// OwnerID references the user who created the record. Immutable.
	OwnerID string `json:"userOwner"`
}

// ValidClearance reports whether level is within the supported tier range.
func ValidClearance(level int) bool {
	return level >= ClearanceMin && level <= ClearanceMax
}
