package store

import (
	"fmt"
	"time"

	"github.com/aretw0/jsonms/internal/decode"
	"github.com/aretw0/jsonms/pkg/domain"
)

// Snapshot copies every slot into a serializable value.
func (s *Store[D]) Snapshot(sessionID string) *domain.Snapshot {
	return &domain.Snapshot{
		SessionID: sessionID,
		Content:   s.Content(),
		Section:   s.Section(),
		Locale:    s.Locale(),
		Structure: s.Structure(),
		Settings:  s.Settings(),
		Versions: map[domain.Slot]uint64{
			domain.SlotContent:   s.content.Version(),
			domain.SlotSection:   s.section.Version(),
			domain.SlotLocale:    s.locale.Version(),
			domain.SlotStructure: s.structure.Version(),
			domain.SlotSettings:  s.settings.Version(),
		},
		UpdatedAt: time.Now(),
	}
}

// Restore writes every slot of snap through its write entry point.
// Content that went through a generic encoding (e.g. JSON into map[string]any) is decoded back into D.
func (s *Store[D]) Restore(snap *domain.Snapshot) error {
	if snap == nil {
		return nil
	}
	content, err := decode.Into[D](snap.Content)
	if err != nil {
		return fmt.Errorf("failed to restore content: %w", err)
	}

	s.SetStructure(snap.Structure)
	s.SetSettings(snap.Settings)
	s.SetSection(snap.Section)
	s.SetLocale(snap.Locale)
	s.SetContent(content)
	return nil
}
