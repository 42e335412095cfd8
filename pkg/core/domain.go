// Note is the central entity of the domain.
package core

import (
	"fmt"
	"time"
)

// Note is an immutable user-authored record.
// Once created it is never edited, only deleted.
type Note struct {
	ID      string    `json:"id"`
	Date    time.Time `json:"date"`
	Content string    `json:"content"`
}

// EventType represents the type of change in the note list.
type EventType string

const (
	EventCreate  EventType = "CREATE"
	EventDelete  EventType = "DELETE"
	EventRestore EventType = "RESTORE"

	// EventChange reports that a storage key was rewritten outside the store.
	EventChange EventType = "CHANGE"
)

// Event represents a change in the note list.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

// String implements lifecycle.Event.
func (e Event) String() string {
	if e.ID == "" {
		return string(e.Type)
	}
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}
