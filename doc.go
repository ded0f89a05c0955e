/*
Package jsonms binds a host application to an external JSON content editor.

The editor owns the content and pushes it to the host through nine callbacks. The
host keeps the pushed values in a shared store of five slots (content, section,
locale, structure, settings), renders templates whose placeholders are filled by
host-provided fragments, and reports its own locale and route changes back to the
editor as debounced notifications.

# Architecture

The module follows a hexagonal layout:

  - pkg/domain: slot types, events, messages and sentinel errors.
  - pkg/store: the five observable slots of one session.
  - pkg/binding: routes editor callbacks into the store.
  - pkg/notifier: debounced outbound locale and route notifications.
  - pkg/template: placeholder parsing, node assembly and the template reactor.
  - pkg/ports: interfaces for editors, parent targets, snapshot stores and template sources.
  - pkg/adapters: memory, Redis, SQLite, HTTP, MCP and Loam implementations.

# Usage

	type Page struct {
		Title string `json:"title"`
	}

	p := jsonms.New(store.Defaults[Page]{}, jsonms.WithParent(parent))
	defer p.Close()

	if err := p.Bind(ctx, editor); err != nil {
		// The store keeps its defaults; the host keeps running.
	}

	fmt.Println(p.Store().Content().Title)

Every locale written to the store and every route passed to Navigate is posted to
the parent as {"name":"jsonms","type":"locale"|"route","data":...}.
*/
package jsonms
