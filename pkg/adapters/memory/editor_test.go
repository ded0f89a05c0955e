package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/jsonms/pkg/adapters/memory"
	"github.com/aretw0/jsonms/pkg/binding"
	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/aretw0/jsonms/pkg/ports"
	"github.com/aretw0/jsonms/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Title string `json:"title"`
}

func TestEditor_Loopback(t *testing.T) {
	st := store.New(store.Defaults[doc]{})
	editor := memory.NewEditor[doc]()

	assert.ErrorIs(t, editor.Emit(domain.EventLocaleChange, "fr-FR"), domain.ErrEditorUnavailable)

	require.NoError(t, binding.New(st).Bind(context.Background(), editor))
	assert.True(t, editor.Bound())

	err := editor.Init(
		domain.Section{Key: "blog", Paths: []string{}},
		"fr-FR",
		domain.Settings{PublicURL: "https://cdn.example.com"},
		domain.DefaultStructure(),
	)
	require.NoError(t, err)
	assert.Equal(t, "fr-FR", st.Locale())
	assert.Equal(t, "blog", st.Section().Key)

	require.NoError(t, editor.Emit(domain.EventDataChange, map[string]any{"title": "Hi"}))
	assert.Equal(t, "Hi", st.Content().Title)
}

func TestEditor_Reject(t *testing.T) {
	st := store.New(store.Defaults[doc]{})
	editor := memory.NewEditor[doc](memory.WithReject(errors.New("wrong project")))

	err := binding.New(st).Bind(context.Background(), editor)
	assert.ErrorIs(t, err, domain.ErrBindFailed)
	assert.ErrorIs(t, err, domain.ErrHandshakeRejected)
	assert.False(t, editor.Bound())
	assert.Equal(t, domain.DefaultLocale, st.Locale())
}

func TestEditor_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := memory.NewEditor[doc]().Bind(ctx, ports.EditorCallbacks[doc]{})
	assert.ErrorIs(t, err, domain.ErrEditorUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParent_OriginFiltering(t *testing.T) {
	ctx := context.Background()
	parent := memory.NewParent("https://editor.example")

	msg := domain.NewLocaleMessage("de-DE")
	require.NoError(t, parent.PostMessage(ctx, msg, "*"))
	require.NoError(t, parent.PostMessage(ctx, msg, "https://editor.example"))
	require.NoError(t, parent.PostMessage(ctx, msg, "https://other.example"))
	assert.Len(t, parent.Messages(), 2)

	boom := errors.New("gone")
	parent.FailWith(boom)
	assert.ErrorIs(t, parent.PostMessage(ctx, msg, "*"), boom)

	parent.Reset()
	assert.Empty(t, parent.Messages())
}
