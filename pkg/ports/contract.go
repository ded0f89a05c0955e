package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore implementation
// adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := domain.NewSnapshot(sessionID)
		snap.Content = map[string]any{"title": "Hello"}
		snap.Locale = "de-DE"
		snap.Section = domain.Section{Key: "blog", Paths: []string{"posts", "0"}}
		snap.Settings.PublicURL = "https://cdn.example.com"
		snap.Route = domain.Route{Name: "home", Path: "/"}
		snap.Versions[domain.SlotLocale] = 2

		err := store.Save(ctx, sessionID, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sessionID, loaded.SessionID)
		assert.Equal(t, "de-DE", loaded.Locale)
		assert.Equal(t, "blog", loaded.Section.Key)
		assert.Equal(t, []string{"posts", "0"}, loaded.Section.Paths)
		assert.Equal(t, "https://cdn.example.com", loaded.Settings.PublicURL)
		assert.Equal(t, domain.Route{Name: "home", Path: "/"}, loaded.Route)
		assert.Equal(t, uint64(2), loaded.Versions[domain.SlotLocale])
		// Content is opaque; JSON-backed stores hand it back as generic maps.
		require.NotNil(t, loaded.Content)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		first := domain.NewSnapshot(sessionID)
		first.Locale = "fr-FR"
		require.NoError(t, store.Save(ctx, sessionID, first))

		second := domain.NewSnapshot(sessionID)
		second.Locale = "it-IT"
		require.NoError(t, store.Save(ctx, sessionID, second))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "it-IT", loaded.Locale)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewSnapshot(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		// IDs are caller-chosen; none may be mistaken for store bookkeeping.
		id3 := "tmp-" + sessionID
		_ = store.Save(ctx, id1, domain.NewSnapshot(id1))
		_ = store.Save(ctx, id2, domain.NewSnapshot(id2))
		_ = store.Save(ctx, id3, domain.NewSnapshot(id3))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
			_ = store.Delete(ctx, id3)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
		assert.Contains(t, sessions, id3)
	})
}
