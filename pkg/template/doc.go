/*
Package template turns placeholder templates into node sequences.

A template is a plain string where each "{name}" marks a placeholder:

	"Hello {name}, welcome to {place}!"

Parse splits it into literal and placeholder segments. Assemble resolves each
placeholder through a Lookup; a resolved placeholder expands to the fragments its
provider returns, an unresolved one expands to nothing. Reactor keeps the node
sequence current as the template or the lookup change, and Renderer writes the
nodes as HTML wrapped in a single tag.

Placeholders cannot nest: the first closing brace ends the placeholder, so
"{a{b}c}" yields the placeholder "a{b" followed by the literal "c}".
*/
package template
