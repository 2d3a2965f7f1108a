package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslator(t *testing.T) {
	tr := NewTranslator("en")

	t.Run("DefaultLocale", func(t *testing.T) {
		assert.Equal(t, "Missing required fields", tr.T("", "errors.missing_required_fields", nil))
		assert.Equal(t, "Server error", tr.T("de", "errors.server", nil))
	})

	t.Run("AcceptLanguageHeader", func(t *testing.T) {
		assert.Equal(t, "Date invalide", tr.T("fr-FR,fr;q=0.9,en;q=0.8", "errors.invalid_date", nil))
		assert.Equal(t, "Invalid date", tr.T("en-US,en;q=0.9", "errors.invalid_date", nil))
	})

	t.Run("TemplateData", func(t *testing.T) {
		assert.Equal(t, "New event: Cleanup Drive", tr.T("en", "announce.title", map[string]any{"Title": "Cleanup Drive"}))
	})

	t.Run("UnknownKey", func(t *testing.T) {
		assert.Equal(t, "nope.missing", tr.T("en", "nope.missing", nil))
		assert.Empty(t, tr.T("en", "", nil))
	})

	t.Run("BadDefaultLocale", func(t *testing.T) {
		assert.Equal(t, "Joined event successfully", NewTranslator("???").T("", "join.success", nil))
	})
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	tr := NewTranslator("en")
	for _, key := range []string{
		"http.root",
		"errors.missing_required_fields",
		"errors.invalid_date",
		"errors.invalid_event_id",
		"errors.user_email_required",
		"errors.invalid_payload",
		"errors.server",
		"join.success",
		"join.already_joined",
		"announce.date",
		"announce.type",
		"announce.creator",
	} {
		assert.NotEqual(t, key, tr.T("fr", key, nil), key)
		assert.NotEqual(t, key, tr.T("en", key, nil), key)
	}
}
