/*
Package session implements session management and persistence orchestration.

Each session is one editor connection with its own five slots. The Manager
serializes access to a session's snapshot within a process (reference-counted
mutexes) and, optionally, across replicas (a ports.DistributedLocker), while a
ports.SnapshotStore keeps the snapshots between restarts.
*/
package session
