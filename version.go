package jsonms

// Version is the release of the module, reported by the CLI and the HTTP /info endpoint.
const Version = "0.4.0"
