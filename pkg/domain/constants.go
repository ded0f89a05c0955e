package domain

const (
	// MessageName identifies this system in every outbound envelope.
	MessageName = "jsonms"

	// WildcardOrigin lets the parent receive messages regardless of its origin.
	WildcardOrigin = "*"

	// DefaultLocale is the locale slot value when the caller supplies none.
	DefaultLocale = "en-US"

	// HomeSectionKey is the key of the default section.
	HomeSectionKey = "home"

	// ProviderName is the name the provider registers under.
	ProviderName = "JmsProvider"
)
