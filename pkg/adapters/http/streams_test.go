package http

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slogDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStreamManager_OriginFiltering(t *testing.T) {
	sm := NewStreamManager(slogDiscard())
	good, cancelGood := sm.Subscribe("s1", "https://host.example")
	defer cancelGood()
	other, cancelOther := sm.Subscribe("s1", "https://evil.example")
	defer cancelOther()

	err := sm.Parent("s1").PostMessage(context.Background(), domain.NewLocaleMessage("de-DE"), "https://host.example")
	require.NoError(t, err)

	select {
	case ev := <-good:
		assert.Equal(t, "message", ev.Name)
		assert.NotEmpty(t, ev.ID)
		assert.Contains(t, ev.Data, `"data":"de-DE"`)
	default:
		t.Fatal("expected a message for the matching origin")
	}
	assert.Empty(t, other)
}

func TestStreamManager_Unsubscribe(t *testing.T) {
	sm := NewStreamManager(slogDiscard())
	ch, cancel := sm.Subscribe("s1", "")
	assert.Equal(t, 1, sm.Subscribers("s1"))

	cancel()
	cancel()
	assert.Equal(t, 0, sm.Subscribers("s1"))
	_, open := <-ch
	assert.False(t, open)

	// Publishing to a session without receivers is a no-op.
	sm.PublishDiff("s1", &domain.SnapshotDiff{SessionID: "s1", Changed: []domain.Slot{domain.SlotLocale}})
	sm.PublishDiff("s1", nil)
}

func TestWatched(t *testing.T) {
	data := `{"session_id":"s1","changed":["locale"],"locale":"de-DE"}`
	assert.True(t, watched(data, nil))
	assert.True(t, watched(data, []string{"content", "locale"}))
	assert.False(t, watched(data, []string{"content"}))
	assert.True(t, watched(`{"session_id":"s1","route":{"name":"a","path":"/"}}`, []string{"route"}))
}
