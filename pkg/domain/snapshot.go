package domain

import "time"

// Snapshot is a serializable copy of every slot of one session.
type Snapshot struct {
	SessionID string    `json:"session_id"`
	Content   any       `json:"content"`
	Section   Section   `json:"section"`
	Locale    string    `json:"locale"`
	Structure Structure `json:"structure"`
	Settings  Settings  `json:"settings"`

	// Route is the last navigation context reported by the host.
	Route Route `json:"route"`

	// Versions counts the writes applied to each slot.
	Versions map[Slot]uint64 `json:"versions,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewSnapshot creates a snapshot holding the documented defaults.
func NewSnapshot(sessionID string) *Snapshot {
	return &Snapshot{
		SessionID: sessionID,
		Section:   HomeSection(),
		Locale:    DefaultLocale,
		Structure: DefaultStructure(),
		Settings:  DefaultSettings(),
		Versions:  make(map[Slot]uint64),
	}
}
