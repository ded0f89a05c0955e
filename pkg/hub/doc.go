/*
Package hub hosts live bridge sessions for remote transports.

A transport (HTTP, MCP) cannot hand the editor a Go callback struct, so the hub
plays the editor side of the handshake itself: each session gets a
jsonms.Provider bound to a remote editor whose events arrive by name through
Dispatch. Every slot write is persisted through a session.Manager, so a session
survives restarts and can be rehydrated on any replica.
*/
package hub
