package models

import (
	"encoding/json"
	"time"
)

// Status is the moderation state of a comment
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Field limits applied when normalizing submissions
const (
	MaxContentLength = 2000
	MaxNameLength    = 100
	MaxEmailLength   = 254
)

// Comment represents a stored comment with its full moderation record
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	URL       string    `json:"url" db:"url"`
	Name      *string   `json:"name" db:"name"`
	Email     *string   `json:"email" db:"email"`
	Content   string    `json:"content" db:"content"`
	IP        string    `json:"ip" db:"ip"`
	UserAgent *string   `json:"user_agent" db:"user_agent"`
	Status    Status    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PublicComment is the projection served on the public read path.
// Email, IP, user agent and status never leave the moderation surface.
type PublicComment struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Name      *string   `json:"name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmitRequest is the raw JSON body of a public submission
type SubmitRequest struct {
	URL     string `json:"url"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Content string `json:"content"`
}

// Submission is a validated, normalized submission ready for storage.
// Content is trimmed by validation; the service HTML-escapes it before
// handing it to the store.
type Submission struct {
	URL       string
	Name      *string
	Email     *string
	Content   string
	IP        string
	UserAgent *string
}

// EditRequest is the raw JSON body of an admin edit.
// Name distinguishes absent, null (clear) and set values.
type EditRequest struct {
	Content *string        `json:"content"`
	Name    NullableString `json:"name"`
}

// CommentUpdate holds the normalized field overwrites of an edit
type CommentUpdate struct {
	Content *string
	SetName bool
	Name    *string
}

// NullableString is a JSON string that tracks whether the field was
// present in the body at all, so null can clear a value while an
// absent field leaves it untouched.
type NullableString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON implements json.Unmarshaler
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}
