package output

// Translator looks up user-facing messages.
type Translator interface {
	// T renders the message identified by key. locale may be a single tag
	// ("fr") or a raw Accept-Language header; unknown locales fall back to the
	// default language. data fills template placeholders and may be nil.
	T(locale, key string, data map[string]any) string
}
