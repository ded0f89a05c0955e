/*
Package binding connects an external editor to a shared state store.

The editor reports nine kinds of events: one content change, and an init and a
change event for each of section, locale, settings and structure. Each event
writes to exactly one store slot; init and change events of the same slot share
the same handler.

	b := binding.New(st, binding.WithLogger(logger))
	if err := b.Bind(ctx, editor); err != nil {
		// slots keep their defaults
	}

Transports that receive untyped payloads (JSON bodies, MCP arguments) route them
through Dispatch, which decodes the payload into the slot type.
*/
package binding
