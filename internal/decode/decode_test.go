package decode_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/jsonms/internal/decode"
	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInto_Passthrough(t *testing.T) {
	in := domain.Section{Key: "about", Paths: []string{"team"}}
	out, err := decode.Into[domain.Section](in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestInto_JSON(t *testing.T) {
	out, err := decode.Into[domain.Section](json.RawMessage(`{"key":"blog","paths":["posts","1"]}`))
	require.NoError(t, err)
	assert.Equal(t, domain.Section{Key: "blog", Paths: []string{"posts", "1"}}, out)

	_, err = decode.Into[domain.Section]([]byte(`{not json`))
	assert.Error(t, err)
}

func TestInto_Map(t *testing.T) {
	out, err := decode.Into[domain.Settings](map[string]any{
		"publicUrl": "https://cdn.example.com",
		"options":   map[string]any{"theme": "dark"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com", out.PublicURL)
	assert.Equal(t, "dark", out.Options["theme"])
}

func TestInto_Nil(t *testing.T) {
	out, err := decode.Into[string](nil)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestInto_AnyTarget(t *testing.T) {
	payload := map[string]any{"title": "Hi"}
	out, err := decode.Into[any](payload)
	require.NoError(t, err)
	assert.Equal(t, payload, out)
}

func TestInto_RawJSONIntoAny(t *testing.T) {
	out, err := decode.Into[any](json.RawMessage(`{"title":"Hi","n":2}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "Hi", "n": 2.0}, out)
}
