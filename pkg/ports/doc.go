/*
Package ports defines the driven ports (interfaces) for the jsonms bridge.

These interfaces decouple the synchronization core from external implementations,
allowing the same store, binding and notifier to run against an in-process editor,
an HTTP transport or an MCP client, and to persist sessions in memory, Redis or SQLite.

# Key Interfaces

  - Editor: performs the handshake with the external editor and registers callbacks.
  - ParentTarget: receives the outbound notifications (locale, route).
  - SnapshotStore: persists and loads session snapshots.
  - DistributedLocker: coordinates concurrent session access across replicas.
  - TemplateSource: serves named templates (e.g. from a Loam repository).
*/
package ports
