package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/jsonms/pkg/adapters/memory"
	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/aretw0/jsonms/pkg/hub"
	"github.com/aretw0/jsonms/pkg/notifier"
	"github.com/aretw0/jsonms/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*Server, *notifier.ManualScheduler) {
	t.Helper()
	sched := notifier.NewManualScheduler()
	h := hub.New(session.NewManager(memory.NewStore()), hub.WithScheduler(sched))
	t.Cleanup(h.Shutdown)
	lib := memory.NewLibrary(map[string]string{"greeting": "Hello {name}!"})
	return NewServer(h, WithLibrary(lib)), sched
}

func TestServer_SessionTools(t *testing.T) {
	s, sched := newServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	opened, err := s.handleOpenSession(ctx, req, SessionArgs{SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "s1", opened.Snapshot.SessionID)

	res, err := s.handleSendEvent(ctx, req, EventArgs{SessionID: "s1", Event: "onDataChange", Data: `{"title":"Hi"}`})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "Hi"}, res.Snapshot.Content)

	_, err = s.handleSendEvent(ctx, req, EventArgs{SessionID: "s1", Event: "onBogus", Data: `1`})
	assert.ErrorIs(t, err, domain.ErrUnknownEvent)

	res, err = s.handleSetLocale(ctx, req, LocaleArgs{SessionID: "s1", Locale: "de-DE"})
	require.NoError(t, err)
	assert.Equal(t, "de-DE", res.Snapshot.Locale)

	res, err = s.handleNavigate(ctx, req, NavigateArgs{SessionID: "s1", Name: "post", Path: "/p/1"})
	require.NoError(t, err)
	assert.Equal(t, domain.Route{Name: "post", Path: "/p/1"}, res.Snapshot.Route)

	sched.Tick()
	msgs, err := s.handleGetMessages(ctx, req, SessionArgs{SessionID: "s1"})
	require.NoError(t, err)
	require.Len(t, msgs.Messages, 2)
	assert.Equal(t, domain.MessageLocale, msgs.Messages[0].Type)
	assert.Equal(t, domain.MessageRoute, msgs.Messages[1].Type)

	_, err = s.handleGetState(ctx, req, SessionArgs{SessionID: "missing"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestServer_Render(t *testing.T) {
	s, _ := newServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	res, err := s.handleRender(ctx, req, RenderArgs{Template: "Hi {who}", Fragments: `{"who":["Ada"]}`})
	require.NoError(t, err)
	assert.Equal(t, "Hi Ada", res.Text)

	res, err = s.handleRender(ctx, req, RenderArgs{Name: "greeting", Fragments: `{"name":["Bob"]}`})
	require.NoError(t, err)
	assert.Equal(t, "Hello Bob!", res.Text)

	_, err = s.handleRender(ctx, req, RenderArgs{Name: "nope"})
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)

	_, err = s.handleRender(ctx, req, RenderArgs{Template: "x", Fragments: `[`})
	assert.Error(t, err)
}

func TestServer_Resources(t *testing.T) {
	s, _ := newServer(t)
	ctx := context.Background()

	_, err := s.hub.Open(ctx, "s1")
	require.NoError(t, err)

	contents, err := s.readSession(ctx, sessionsURI+"s1")
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Contains(t, text.Text, `"session_id":"s1"`)

	names, err := s.templateNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"greeting"}, names)
}
