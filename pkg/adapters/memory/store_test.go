package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/jsonms/pkg/adapters/memory"
	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/aretw0/jsonms/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSnapshotStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	snap := domain.NewSnapshot("s1")
	snap.Structure.Locales["en-US"] = "English"
	require.NoError(t, store.Save(ctx, "s1", snap))

	snap.Structure.Locales["fr-FR"] = "Français"

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, loaded.Structure.Locales, 1)

	loaded.Structure.Locales["de-DE"] = "Deutsch"
	again, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, again.Structure.Locales, 1)
}
