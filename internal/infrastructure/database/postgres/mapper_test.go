package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"socialevents/internal/domain/entities"
)

func TestBuildUpdate(t *testing.T) {
	title := "Beach Cleanup"
	kind := "Social"
	date := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("SingleField", func(t *testing.T) {
		sql, args := buildUpdate("abc", entities.EventPatch{Title: &title})
		assert.Equal(t, "UPDATE events SET title = $2 WHERE id = $1 AND (title IS DISTINCT FROM $2)", sql)
		assert.Equal(t, []any{"abc", title}, args)
	})

	t.Run("FieldsKeepColumnOrder", func(t *testing.T) {
		sql, args := buildUpdate("abc", entities.EventPatch{Type: &kind, Date: &date})
		assert.Equal(t,
			"UPDATE events SET date = $2, type = $3 WHERE id = $1 AND (date IS DISTINCT FROM $2 OR type IS DISTINCT FROM $3)",
			sql)
		assert.Equal(t, []any{"abc", date, kind}, args)
	})
}
