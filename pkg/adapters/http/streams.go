package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/aretw0/jsonms/pkg/ports"
	"github.com/oklog/ulid/v2"
)

// Event is one server-sent event.
type Event struct {
	ID   string
	Name string
	Data string
}

type subscriber struct {
	ch     chan Event
	origin string
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[*subscriber]struct{} // SessionID -> Set of subscribers
	logger      *slog.Logger
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[*subscriber]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a receiver located at origin. Outbound notifications whose
// target origin does not match are not delivered to it.
func (sm *StreamManager) Subscribe(sessionID, origin string) (<-chan Event, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sub := &subscriber{ch: make(chan Event, 16), origin: origin}
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[*subscriber]struct{})
	}
	sm.subscribers[sessionID][sub] = struct{}{}

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[sessionID]; ok {
				delete(subs, sub)
				close(sub.ch)
				if len(subs) == 0 {
					delete(sm.subscribers, sessionID)
				}
			}
		})
	}
}

// Subscribers returns the number of receivers of a session.
func (sm *StreamManager) Subscribers(sessionID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[sessionID])
}

// Broadcast sends an event to every receiver of the session.
func (sm *StreamManager) Broadcast(sessionID, name, data string) {
	sm.publish(sessionID, name, data, func(*subscriber) bool { return true })
}

// Post sends an event to the receivers of the session allowed by targetOrigin.
func (sm *StreamManager) Post(sessionID, name, data, targetOrigin string) {
	sm.publish(sessionID, name, data, func(s *subscriber) bool {
		return ports.OriginAllowed(targetOrigin, s.origin)
	})
}

func (sm *StreamManager) publish(sessionID, name, data string, allow func(*subscriber) bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ev := Event{ID: ulid.Make().String(), Name: name, Data: data}
	sm.logger.Debug("StreamManager: Broadcasting", "session_id", sessionID, "event", name, "payload_size", len(data))

	for sub := range sm.subscribers[sessionID] {
		if !allow(sub) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "session_id", sessionID)
		}
	}
}

// Parent returns the ports.ParentTarget of one session.
func (sm *StreamManager) Parent(sessionID string) ports.ParentTarget {
	return ports.ParentTargetFunc(func(ctx context.Context, msg domain.Message, targetOrigin string) error {
		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}
		sm.Post(sessionID, "message", string(data), targetOrigin)
		return nil
	})
}

// PublishDiff broadcasts the slots changed by a write as a "diff" event.
func (sm *StreamManager) PublishDiff(sessionID string, diff *domain.SnapshotDiff) {
	if diff == nil {
		return
	}
	data, err := json.Marshal(diff)
	if err != nil {
		sm.logger.Error("StreamManager: Failed to marshal diff", "session_id", sessionID, "error", err)
		return
	}
	sm.Broadcast(sessionID, "diff", string(data))
}
