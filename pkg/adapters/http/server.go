package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/aretw0/jsonms"
	"github.com/aretw0/jsonms/internal/logging"
	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/aretw0/jsonms/pkg/hub"
	"github.com/aretw0/jsonms/pkg/observability"
	"github.com/aretw0/jsonms/pkg/ports"
	"github.com/aretw0/jsonms/pkg/template"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes a Hub over HTTP and server-sent events.
type Server struct {
	Hub     *hub.Hub
	Streams *StreamManager
	Library ports.TemplateSource
	Metrics *observability.Metrics

	hooks  domain.Hooks
	logger *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLibrary serves templates by name from source.
func WithLibrary(source ports.TemplateSource) Option {
	return func(s *Server) {
		s.Library = source
	}
}

// WithMetrics mounts the Prometheus handler on /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// WithHooks registers observability hooks on one-shot renders.
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

// NewServer creates a Server. streams must be the StreamManager the Hub posts to,
// see hub.WithParents and hub.WithDiffListener.
func NewServer(h *hub.Hub, streams *StreamManager, opts ...Option) *Server {
	s := &Server{
		Hub:     h,
		Streams: streams,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
	}
	return s
}

// NewHandler creates the HTTP handler of a Hub.
func NewHandler(h *hub.Hub, streams *StreamManager, opts ...Option) http.Handler {
	return NewServer(h, streams, opts...).Handler()
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawDoc)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics.Handler())
	}

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/events", s.SubscribeLibrary)
	r.Post("/render", s.Render)
	r.Get("/templates", s.ListTemplates)
	r.Get("/templates/{name}", s.GetTemplate)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.OpenSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/events", s.SendEditorEvent)
			r.Put("/locale", s.SetLocale)
			r.Put("/route", s.Navigate)
			r.Get("/messages", s.SubscribeMessages)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>jsonms API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "jsonms-http",
		"version":     strings.TrimSpace(jsonms.Version),
		"api_version": apiVersion,
	})
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Hub.List(r.Context())
	if err != nil {
		s.fail(w, "ListSessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

type openRequest struct {
	SessionID string `json:"session_id"`
}

// OpenSession handles the POST /sessions request.
func (s *Server) OpenSession(w http.ResponseWriter, r *http.Request) {
	var body openRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			s.logger.Warn("OpenSession: Invalid request body", "error", err)
			return
		}
	}

	live, err := s.Hub.Open(r.Context(), body.SessionID)
	if err != nil {
		s.fail(w, "OpenSession", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, live.Snapshot())
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Hub.State(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetSession", err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Hub.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type editorEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// SendEditorEvent handles the POST /sessions/{id}/events request.
func (s *Server) SendEditorEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body editorEvent
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("SendEditorEvent: Invalid request body", "error", err)
		return
	}

	if err := s.Hub.Dispatch(r.Context(), id, body.Event, body.Data); err != nil {
		s.fail(w, "SendEditorEvent", err)
		return
	}

	snap, err := s.Hub.State(r.Context(), id)
	if err != nil {
		s.fail(w, "SendEditorEvent", err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

type localeRequest struct {
	Locale string `json:"locale"`
}

// SetLocale handles the PUT /sessions/{id}/locale request.
func (s *Server) SetLocale(w http.ResponseWriter, r *http.Request) {
	var body localeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Locale == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("SetLocale: Invalid request body", "error", err)
		return
	}
	if err := s.Hub.SetLocale(r.Context(), chi.URLParam(r, "id"), body.Locale); err != nil {
		s.fail(w, "SetLocale", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Navigate handles the PUT /sessions/{id}/route request.
func (s *Server) Navigate(w http.ResponseWriter, r *http.Request) {
	var route domain.Route
	if err := json.NewDecoder(r.Body).Decode(&route); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Navigate: Invalid request body", "error", err)
		return
	}
	if err := s.Hub.Navigate(r.Context(), chi.URLParam(r, "id"), route); err != nil {
		s.fail(w, "Navigate", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubscribeMessages handles the GET /sessions/{id}/messages request (SSE).
// It streams the outbound "message" notifications of the session and a "diff"
// event for every slot write.
func (s *Server) SubscribeMessages(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeMessages: Streaming not supported")
		return
	}

	sessionID := chi.URLParam(r, "id")
	if _, err := s.Hub.Get(r.Context(), sessionID); err != nil {
		s.fail(w, "SubscribeMessages", err)
		return
	}

	var watchList []string
	if watch := r.URL.Query().Get("watch"); watch != "" {
		for _, field := range strings.Split(watch, ",") {
			watchList = append(watchList, strings.TrimSpace(field))
		}
	}

	ch, cancel := s.Streams.Subscribe(sessionID, r.URL.Query().Get("origin"))
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE: Subscribing to Session Messages", "session_id", sessionID)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "session_id", sessionID)
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if ev.Name == "diff" && !watched(ev.Data, watchList) {
				continue
			}
			fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", ev.ID, ev.Name, ev.Data)
			flusher.Flush()
		}
	}
}

// watched reports whether a diff touches one of the fields in watchList.
// An empty list watches everything.
func watched(data string, watchList []string) bool {
	if len(watchList) == 0 {
		return true
	}
	var diff domain.SnapshotDiff
	if err := json.Unmarshal([]byte(data), &diff); err != nil {
		return true
	}
	for _, field := range watchList {
		if field == "route" && diff.Route != nil {
			return true
		}
		if slices.Contains(diff.Changed, domain.Slot(field)) {
			return true
		}
	}
	return false
}

// SubscribeLibrary handles the GET /events request (SSE). It streams the name of
// every template that changes in a watchable library.
func (s *Server) SubscribeLibrary(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeLibrary: Streaming not supported")
		return
	}
	watchable, ok := s.Library.(ports.Watchable)
	if !ok {
		http.Error(w, "Template library does not support watching", http.StatusNotImplemented)
		return
	}

	events, err := watchable.Watch(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Watch error: %v", err), http.StatusInternalServerError)
		s.logger.Error("SubscribeLibrary: Watch failed", "error", err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE: Subscribing to Template Library")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case name, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: reload\ndata: %s\n\n", name)
			flusher.Flush()
		}
	}
}

type renderRequest struct {
	template.Request
	Name string `json:"name,omitempty"`
}

// Render handles the POST /render request.
func (s *Server) Render(w http.ResponseWriter, r *http.Request) {
	var body renderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Render: Invalid request body", "error", err)
		return
	}

	req := body.Request
	if body.Name != "" {
		doc, err := s.template(r, body.Name)
		if err != nil {
			s.fail(w, "Render", err)
			return
		}
		req = template.RequestFromDoc(doc, body.Fragments, body.Format)
		if body.Tag != "" {
			req.Tag = body.Tag
		}
	}

	result, err := template.Execute(req, s.hooks)
	if err != nil {
		s.fail(w, "Render", err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// ListTemplates handles the GET /templates request.
func (s *Server) ListTemplates(w http.ResponseWriter, r *http.Request) {
	names := []string{}
	if s.Library != nil {
		list, err := s.Library.List(r.Context())
		if err != nil {
			s.fail(w, "ListTemplates", err)
			return
		}
		names = append(names, list...)
	}
	s.writeJSON(w, http.StatusOK, names)
}

// GetTemplate handles the GET /templates/{name} request.
func (s *Server) GetTemplate(w http.ResponseWriter, r *http.Request) {
	doc, err := s.template(r, chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, "GetTemplate", err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) template(r *http.Request, name string) (domain.TemplateDoc, error) {
	if s.Library == nil {
		return domain.TemplateDoc{}, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, name)
	}
	return s.Library.Get(r.Context(), name)
}

// -- Helpers --

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "error", err)
	}
}

// fail maps domain errors to HTTP status codes.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrTemplateNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownEvent), errors.Is(err, domain.ErrInvalidPayload),
		errors.Is(err, domain.ErrInvalidSessionID), errors.Is(err, template.ErrInvalidTag):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	} else {
		s.logger.Warn(op+" rejected", "error", err)
	}
	http.Error(w, err.Error(), status)
}
