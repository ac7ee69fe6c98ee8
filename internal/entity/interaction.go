package entity

import "time"

type InteractionType string

const (
	InteractionNote    InteractionType = "note"
	InteractionEmail   InteractionType = "email"
	InteractionMeeting InteractionType = "meeting"
	InteractionSystem  InteractionType = "system"
)

// Interaction is one timestamped entry of a lead's activity log.
type Interaction struct {
	ID        string          `json:"id"`
	Type      InteractionType `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Content   string          `json:"content"`
	Meta      map[string]any  `json:"meta,omitempty"`
}

// InteractionStamp builds an interaction at the moment it is appended.
// The lead store owns ids and the clock, so transforms receive it from there.
type InteractionStamp func(kind InteractionType, content string) Interaction
