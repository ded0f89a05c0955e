package domain

import "strings"

// Slot names one of the five synchronized values held by the store.
type Slot string

const (
	SlotContent   Slot = "content"
	SlotSection   Slot = "section"
	SlotLocale    Slot = "locale"
	SlotStructure Slot = "structure"
	SlotSettings  Slot = "settings"
)

// Slots lists every slot in a stable order.
var Slots = []Slot{SlotContent, SlotSection, SlotLocale, SlotStructure, SlotSettings}

// Section identifies the part of the content the editor is focused on.
type Section struct {
	Key   string   `json:"key" mapstructure:"key"`
	Paths []string `json:"paths" mapstructure:"paths"`
}

// HomeSection returns the default section: "home" with no path segments.
func HomeSection() Section {
	return Section{Key: HomeSectionKey, Paths: []string{}}
}

// Settings is the project configuration pushed by the editor.
type Settings struct {
	// PublicURL is the base URL files are served from.
	PublicURL string `json:"publicUrl" mapstructure:"publicUrl"`

	// Options holds every other setting verbatim.
	Options map[string]any `json:"options" mapstructure:"options"`
}

// DefaultSettings returns an empty settings object.
func DefaultSettings() Settings {
	return Settings{Options: map[string]any{}}
}

// Structure describes the layout of the editable content.
type Structure struct {
	Sections map[string]any    `json:"sections" mapstructure:"sections"`
	Locales  map[string]string `json:"locales" mapstructure:"locales"`
}

// DefaultStructure returns an empty layout.
func DefaultStructure() Structure {
	return Structure{
		Sections: map[string]any{},
		Locales:  map[string]string{},
	}
}

// File references an uploaded asset.
type File struct {
	Path string `json:"path" mapstructure:"path"`
	Type string `json:"type,omitempty" mapstructure:"type"`
	Size int64  `json:"size,omitempty" mapstructure:"size"`
}

// FilePath resolves the public location of a file.
// A nil file resolves to an empty string.
func FilePath(file *File, settings Settings) string {
	if file == nil {
		return ""
	}
	if settings.PublicURL == "" {
		return file.Path
	}
	return strings.TrimSuffix(settings.PublicURL, "/") + "/" + strings.TrimPrefix(file.Path, "/")
}
