package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidSessionID is returned when a store cannot address a session by the given ID.
var ErrInvalidSessionID = errors.New("invalid session id")

// ErrBindFailed wraps every failure to establish a session with the editor.
var ErrBindFailed = errors.New("editor binding failed")

// ErrEditorUnavailable is returned by transports when no editor answers the handshake.
var ErrEditorUnavailable = errors.New("editor unavailable")

// ErrHandshakeRejected is returned by transports when the editor refuses the session.
var ErrHandshakeRejected = errors.New("editor handshake rejected")

// ErrUnknownEvent is returned when an event name does not map to any EventKind.
var ErrUnknownEvent = errors.New("unknown editor event")

// ErrInvalidPayload is returned when an event payload cannot be decoded into its slot type.
var ErrInvalidPayload = errors.New("invalid event payload")

// ErrTemplateNotFound is returned when a template name cannot be found in a library.
var ErrTemplateNotFound = errors.New("template not found")

// ErrParentUnavailable is returned when there is no parent context to notify.
var ErrParentUnavailable = errors.New("parent context unavailable")
