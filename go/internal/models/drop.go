package models

import (
	"encoding/json"
	"time"
)

// EntryState defines the lifecycle state of a waitlist entry.
type EntryState string

const (
	EntryStateWaiting EntryState = "waiting"
	EntryStateClaimed EntryState = "claimed"
	EntryStateLeft    EntryState = "left"
)

// legacyJoinedState is the spelling older servers use for the waiting state.
const legacyJoinedState = "joined"

// NormalizeEntryState maps a server-provided state string onto an EntryState.
// Unknown strings pass through untouched; the server owns the vocabulary.
func NormalizeEntryState(raw string) EntryState {
	if raw == legacyJoinedState {
		return EntryStateWaiting
	}
	return EntryState(raw)
}

// UnmarshalJSON normalizes legacy server spellings on decode.
func (s *EntryState) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = NormalizeEntryState(raw)
	return nil
}

// Drop represents a limited-capacity item with a scheduled claim window.
// The claim window bounds stay as wire strings: they are untrusted input and
// the window package degrades unparseable values to the invalid phase instead
// of failing the whole decode.
type Drop struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Description      *string   `json:"description,omitempty"`
	Capacity         int       `json:"capacity"`
	ClaimWindowStart string    `json:"claim_window_start"`
	ClaimWindowEnd   string    `json:"claim_window_end"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// WaitlistEntry represents a user's membership record for a drop.
type WaitlistEntry struct {
	ID            int        `json:"id"`
	UserID        int        `json:"user_id"`
	DropID        int        `json:"drop_id"`
	PriorityScore float64    `json:"priority_score"`
	JoinedAt      time.Time  `json:"joined_at"`
	State         EntryState `json:"state"`
	ClaimCode     *string    `json:"claim_code,omitempty"`
	ClaimedAt     *time.Time `json:"claimed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// WaitlistJoinResponse is the payload returned by POST /drops/{id}/join.
// Created is false when the server resolved the call to an existing entry.
type WaitlistJoinResponse struct {
	Entry   WaitlistEntry `json:"entry"`
	Created bool          `json:"created"`
}

// WaitlistLeaveResponse is the payload returned by POST /drops/{id}/leave.
type WaitlistLeaveResponse struct {
	Success bool       `json:"success"`
	State   EntryState `json:"state"`
}

// ClaimResponse is the payload returned by POST /drops/{id}/claim.
type ClaimResponse struct {
	ClaimCode string    `json:"claim_code"`
	ClaimedAt time.Time `json:"claimed_at"`
	Position  int       `json:"position"`
}

// DropFormValues is the admin create/update payload for a drop.
type DropFormValues struct {
	Name             string  `json:"name" validate:"required"`
	Description      *string `json:"description,omitempty"`
	Capacity         int     `json:"capacity" validate:"required,gt=0"`
	ClaimWindowStart string  `json:"claim_window_start" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	ClaimWindowEnd   string  `json:"claim_window_end" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	IsActive         bool    `json:"is_active"`
}
