/*
Package domain contains the core domain models for the jsonms bridge.

It defines the values that travel between a host application and an external visual
editor: the five synchronized slots, the editor event kinds, and the outbound messages
sent to the parent context. This package is kept pure and free of external dependencies
like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Section, Settings, Structure: typed values held by the shared store slots.
  - EventKind: the fixed set of editor callbacks and the slot each one writes.
  - Message: the envelope posted to the parent context (locale or route).
  - Snapshot: a serializable copy of every slot, used for persistence and diffs.
*/
package domain
