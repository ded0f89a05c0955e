package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventKind_RoundTripNames(t *testing.T) {
	for _, kind := range EventKinds {
		parsed, err := ParseEventKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
		assert.NotEmpty(t, kind.Slot(), "every kind must target a slot")
	}

	_, err := ParseEventKind("onSomethingElse")
	assert.True(t, errors.Is(err, ErrUnknownEvent))
}

func TestEventKind_InitAndChangeShareSlot(t *testing.T) {
	pairs := [][2]EventKind{
		{EventSectionInit, EventSectionChange},
		{EventLocaleInit, EventLocaleChange},
		{EventSettingsInit, EventSettingsChange},
		{EventStructureInit, EventStructureChange},
	}
	for _, p := range pairs {
		assert.Equal(t, p[0].Slot(), p[1].Slot())
		assert.True(t, p[0].IsInit())
		assert.False(t, p[1].IsInit())
	}
	assert.Equal(t, SlotContent, EventDataChange.Slot())
}

func TestMessages(t *testing.T) {
	msg := NewLocaleMessage("de-DE")
	assert.Equal(t, Message{Name: "jsonms", Type: MessageLocale, Data: "de-DE"}, msg)

	route, err := NewRouteMessage(Route{Name: "about", Path: "/about"})
	require.NoError(t, err)
	assert.Equal(t, MessageRoute, route.Type)
	assert.JSONEq(t, `{"name":"about","path":"/about"}`, route.Data)
}

func TestFilePath(t *testing.T) {
	settings := Settings{PublicURL: "https://cdn.example.com/"}

	assert.Equal(t, "", FilePath(nil, settings))
	assert.Equal(t, "https://cdn.example.com/img/a.png", FilePath(&File{Path: "/img/a.png"}, settings))
	assert.Equal(t, "img/a.png", FilePath(&File{Path: "img/a.png"}, Settings{}))
}

func TestDefaults(t *testing.T) {
	snap := NewSnapshot("s")
	assert.Equal(t, "home", snap.Section.Key)
	assert.Empty(t, snap.Section.Paths)
	assert.Equal(t, DefaultLocale, snap.Locale)
	assert.NotNil(t, snap.Settings.Options)
	assert.NotNil(t, snap.Structure.Sections)
}
