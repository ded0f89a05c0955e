package domain

import (
	"reflect"
)

// SnapshotDiff represents the changes between two snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type SnapshotDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	// Changed lists the slots carried by this diff, in slot order.
	Changed []Slot `json:"changed,omitempty"`

	Content   any        `json:"content,omitempty"`
	Section   *Section   `json:"section,omitempty"`
	Locale    *string    `json:"locale,omitempty"`
	Structure *Structure `json:"structure,omitempty"`
	Settings  *Settings  `json:"settings,omitempty"`
	Route     *Route     `json:"route,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, it returns a diff representing the entire newSnap (initial load).
// Slots replace wholesale, so a changed slot carries its full new value.
func Diff(oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}

	diff := &SnapshotDiff{SessionID: newSnap.SessionID}

	if oldSnap == nil || !reflect.DeepEqual(oldSnap.Content, newSnap.Content) {
		diff.Content = newSnap.Content
		diff.Changed = append(diff.Changed, SlotContent)
	}
	if oldSnap == nil || !reflect.DeepEqual(oldSnap.Section, newSnap.Section) {
		section := newSnap.Section
		diff.Section = &section
		diff.Changed = append(diff.Changed, SlotSection)
	}
	if oldSnap == nil || oldSnap.Locale != newSnap.Locale {
		locale := newSnap.Locale
		diff.Locale = &locale
		diff.Changed = append(diff.Changed, SlotLocale)
	}
	if oldSnap == nil || !reflect.DeepEqual(oldSnap.Structure, newSnap.Structure) {
		structure := newSnap.Structure
		diff.Structure = &structure
		diff.Changed = append(diff.Changed, SlotStructure)
	}
	if oldSnap == nil || !reflect.DeepEqual(oldSnap.Settings, newSnap.Settings) {
		settings := newSnap.Settings
		diff.Settings = &settings
		diff.Changed = append(diff.Changed, SlotSettings)
	}
	if oldSnap == nil || oldSnap.Route != newSnap.Route {
		if oldSnap != nil || newSnap.Route != (Route{}) {
			route := newSnap.Route
			diff.Route = &route
		}
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return len(d.Changed) == 0 && d.Route == nil
}
