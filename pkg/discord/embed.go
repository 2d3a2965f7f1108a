package discord

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"socialevents/internal/domain/entities"
	"socialevents/pkg/datetime"
)

const (
	embedColor = 0x5865F2
	// Discord rejects embeds with more than 25 fields.
	maxFields = 25
	// Discord caps field values at 1024 characters.
	maxFieldValue = 1024
)

// EmbedLabels holds the already localized texts of an announcement.
type EmbedLabels struct {
	Title   string
	Date    string
	Type    string
	Creator string
	Footer  string
}

// BuildEventEmbed renders a newly created event. Client-defined string
// fields are appended after the fixed ones in key order.
func BuildEventEmbed(e entities.Event, labels EmbedLabels, loc *time.Location) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: labels.Date, Value: datetime.Format(e.Date, loc), Inline: true},
	}
	if e.Type != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: labels.Type, Value: e.Type, Inline: true})
	}
	fields = append(fields, &discordgo.MessageEmbedField{Name: labels.Creator, Value: e.CreatorEmail})
	fields = append(fields, extraFields(e.Extra, maxFields-len(fields))...)

	embed := &discordgo.MessageEmbed{
		Title:  labels.Title,
		Color:  embedColor,
		Fields: fields,
	}
	if !e.Date.IsZero() {
		embed.Timestamp = e.Date.UTC().Format(time.RFC3339)
	}
	if labels.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: labels.Footer}
	}
	return embed
}

func extraFields(extra map[string]any, limit int) []*discordgo.MessageEmbedField {
	keys := make([]string, 0, len(extra))
	for k, v := range extra {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if len(keys) > limit {
		keys = keys[:limit]
	}

	fields := make([]*discordgo.MessageEmbedField, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  fieldName(k),
			Value: truncate(extra[k].(string), maxFieldValue),
		})
	}
	return fields
}

// fieldName turns "meetingPoint" into "Meeting point".
func fieldName(key string) string {
	var b strings.Builder
	for i, r := range key {
		switch {
		case i == 0:
			b.WriteString(strings.ToUpper(string(r)))
		case r >= 'A' && r <= 'Z':
			b.WriteString(" " + strings.ToLower(string(r)))
		case r == '_' || r == '-':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return fmt.Sprintf("%s…", string(r[:n-1]))
}
