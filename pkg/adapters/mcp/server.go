package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/jsonms"
	"github.com/aretw0/jsonms/internal/logging"
	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/aretw0/jsonms/pkg/hub"
	"github.com/aretw0/jsonms/pkg/ports"
	"github.com/aretw0/jsonms/pkg/template"
	"github.com/aretw0/lifecycle"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	templatesURI = "jsonms://templates"
	sessionsURI  = "jsonms://sessions/"
)

// SessionResponse aligns with the OpenAPI schema and provides a unified structure across adapters.
type SessionResponse struct {
	Snapshot *domain.Snapshot `json:"snapshot" jsonschema_description:"Current slot values and route of the session"`
}

// MessagesResponse lists the latest outbound notifications of a session.
type MessagesResponse struct {
	SessionID string           `json:"session_id"`
	Messages  []domain.Message `json:"messages" jsonschema_description:"Notifications posted to the host, oldest first"`
}

// Server exposes a Hub and a template library as an MCP Server.
type Server struct {
	hub       *hub.Hub
	library   ports.TemplateSource
	hooks     domain.Hooks
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLibrary serves templates by name from source.
func WithLibrary(source ports.TemplateSource) Option {
	return func(s *Server) {
		s.library = source
	}
}

// WithHooks registers observability hooks on renders.
func WithHooks(hooks domain.Hooks) Option {
	return func(s *Server) {
		s.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(h *hub.Hub, opts ...Option) *Server {
	s := &Server{
		hub:       h,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("jsonms-mcp", strings.TrimSpace(jsonms.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
		return nil
	})

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SessionArgs selects a session.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// EventArgs carries one editor event.
type EventArgs struct {
	SessionID string `json:"session_id"`
	Event     string `json:"event"`
	Data      string `json:"data"`
}

// LocaleArgs carries a host locale change.
type LocaleArgs struct {
	SessionID string `json:"session_id"`
	Locale    string `json:"locale"`
}

// NavigateArgs carries a host route change.
type NavigateArgs struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
}

// RenderArgs describes a one-shot render. Name takes precedence over Template.
type RenderArgs struct {
	Template  string `json:"template"`
	Name      string `json:"name"`
	Fragments string `json:"fragments"`
	Format    string `json:"format"`
	Tag       string `json:"tag"`
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("open_session",
		mcp.WithDescription("Bind an editor session, creating it when it does not exist."),
		mcp.WithString("session_id", mcp.Description("Session to bind (optional, a new ID is generated when omitted)")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleOpenSession))

	s.mcpServer.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Read the five slots and the route of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetState))

	s.mcpServer.AddTool(mcp.NewTool("send_editor_event",
		mcp.WithDescription("Deliver an editor event (onDataChange, onSectionInit, onLocaleChange, ...) to a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("event", mcp.Required(), mcp.Description("Event name")),
		mcp.WithString("data", mcp.Required(), mcp.Description("JSON payload of the event")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleSendEvent))

	s.mcpServer.AddTool(mcp.NewTool("set_locale",
		mcp.WithDescription("Record a locale change made by the host. The host is notified after the debounce delay."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("locale", mcp.Required(), mcp.Description("Locale code, e.g. de-DE")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleSetLocale))

	s.mcpServer.AddTool(mcp.NewTool("navigate",
		mcp.WithDescription("Record a route change made by the host."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Route name")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Route path")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleNavigate))

	s.mcpServer.AddTool(mcp.NewTool("get_messages",
		mcp.WithDescription("List the latest notifications posted to the host by a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[MessagesResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetMessages))

	s.mcpServer.AddTool(mcp.NewTool("render_template",
		mcp.WithDescription("Render a placeholder template such as \"Hello {name}\" with named fragments."),
		mcp.WithString("template", mcp.Description("Template source (ignored when name is set)")),
		mcp.WithString("name", mcp.Description("Template name in the library")),
		mcp.WithString("fragments", mcp.Description("JSON object mapping placeholder names to lists of strings")),
		mcp.WithString("format", mcp.Description("Fragment format: text, markdown or html")),
		mcp.WithString("tag", mcp.Description("Wrapper element, defaults to span")),
		mcp.WithOutputSchema[template.Result](),
	), mcp.NewStructuredToolHandler(s.handleRender))

	s.mcpServer.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List every persisted session ID."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ids, err := s.hub.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(ids)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List the templates of the library."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		names, err := s.templateNames(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(names)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleOpenSession(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (SessionResponse, error) {
	live, err := s.hub.Open(ctx, args.SessionID)
	if err != nil {
		return SessionResponse{}, fmt.Errorf("open failed: %w", err)
	}
	return SessionResponse{Snapshot: live.Snapshot()}, nil
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (SessionResponse, error) {
	snap, err := s.hub.State(ctx, args.SessionID)
	if err != nil {
		return SessionResponse{}, fmt.Errorf("get state failed: %w", err)
	}
	return SessionResponse{Snapshot: snap}, nil
}

func (s *Server) handleSendEvent(ctx context.Context, request mcp.CallToolRequest, args EventArgs) (SessionResponse, error) {
	if err := s.hub.Dispatch(ctx, args.SessionID, args.Event, json.RawMessage(args.Data)); err != nil {
		s.logger.Warn("MCP SendEvent: Event rejected", "session_id", args.SessionID, "event", args.Event, "error", err)
		return SessionResponse{}, fmt.Errorf("event rejected: %w", err)
	}
	return s.handleGetState(ctx, request, SessionArgs{SessionID: args.SessionID})
}

func (s *Server) handleSetLocale(ctx context.Context, request mcp.CallToolRequest, args LocaleArgs) (SessionResponse, error) {
	if args.Locale == "" {
		return SessionResponse{}, errors.New("locale is required")
	}
	if err := s.hub.SetLocale(ctx, args.SessionID, args.Locale); err != nil {
		return SessionResponse{}, fmt.Errorf("set locale failed: %w", err)
	}
	return s.handleGetState(ctx, request, SessionArgs{SessionID: args.SessionID})
}

func (s *Server) handleNavigate(ctx context.Context, request mcp.CallToolRequest, args NavigateArgs) (SessionResponse, error) {
	route := domain.Route{Name: args.Name, Path: args.Path}
	if err := s.hub.Navigate(ctx, args.SessionID, route); err != nil {
		return SessionResponse{}, fmt.Errorf("navigate failed: %w", err)
	}
	return s.handleGetState(ctx, request, SessionArgs{SessionID: args.SessionID})
}

func (s *Server) handleGetMessages(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (MessagesResponse, error) {
	live, err := s.hub.Get(ctx, args.SessionID)
	if err != nil {
		return MessagesResponse{}, fmt.Errorf("get messages failed: %w", err)
	}
	msgs := live.Messages()
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return MessagesResponse{SessionID: live.ID, Messages: msgs}, nil
}

func (s *Server) handleRender(ctx context.Context, request mcp.CallToolRequest, args RenderArgs) (template.Result, error) {
	var fragments map[string][]string
	if args.Fragments != "" {
		if err := json.Unmarshal([]byte(args.Fragments), &fragments); err != nil {
			return template.Result{}, fmt.Errorf("invalid fragments: %w", err)
		}
	}
	format := template.Format(args.Format)

	req := template.Request{Template: args.Template, Fragments: fragments, Format: format, Tag: args.Tag}
	if args.Name != "" {
		if s.library == nil {
			return template.Result{}, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, args.Name)
		}
		doc, err := s.library.Get(ctx, args.Name)
		if err != nil {
			return template.Result{}, err
		}
		req = template.RequestFromDoc(doc, fragments, format)
		if args.Tag != "" {
			req.Tag = args.Tag
		}
	}

	result, err := template.Execute(req, s.hooks)
	if err != nil {
		return template.Result{}, fmt.Errorf("render failed: %w", err)
	}
	return result, nil
}

func (s *Server) templateNames(ctx context.Context) ([]string, error) {
	if s.library == nil {
		return []string{}, nil
	}
	names, err := s.library.List(ctx)
	if names == nil {
		names = []string{}
	}
	return names, err
}

func (s *Server) registerResources() {
	// EXPOSE: jsonms://templates
	s.mcpServer.AddResource(mcp.NewResource(templatesURI, "Template Library",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.templateNames(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list templates: %w", err)
		}
		jsonBytes, _ := json.Marshal(names)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      templatesURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	// EXPOSE: jsonms://sessions/{id}
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(sessionsURI+"{id}", "Session State",
		mcp.WithTemplateMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return s.readSession(ctx, request.Params.URI)
	})
}

func (s *Server) readSession(ctx context.Context, uri string) ([]mcp.ResourceContents, error) {
	id := strings.TrimPrefix(uri, sessionsURI)
	snap, err := s.hub.State(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", id, err)
	}
	jsonBytes, _ := json.Marshal(snap)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
