// Package discord posts an embed to a channel whenever an event is created.
package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"

	"socialevents/internal/domain/entities"
	"socialevents/internal/ports/output"
	pkgdiscord "socialevents/pkg/discord"
)

const sendTimeout = 5 * time.Second

var _ output.EventAnnouncer = (*Announcer)(nil)

// embedSender is the part of *discordgo.Session the announcer uses.
type embedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Announcer is the Discord adapter of output.EventAnnouncer.
type Announcer struct {
	session    embedSender
	channelID  string
	translator output.Translator
	locale     string
	location   *time.Location
}

// NewAnnouncer creates a bot session for token. Only REST calls are made, so
// the gateway is never opened.
func NewAnnouncer(token, channelID string, translator output.Translator, locale string, location *time.Location) (*Announcer, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, errors.Wrap(err, "creating discord session")
	}
	return newAnnouncer(s, channelID, translator, locale, location), nil
}

func newAnnouncer(s embedSender, channelID string, translator output.Translator, locale string, location *time.Location) *Announcer {
	return &Announcer{
		session:    s,
		channelID:  channelID,
		translator: translator,
		locale:     locale,
		location:   location,
	}
}

func (a *Announcer) AnnounceEvent(ctx context.Context, event entities.Event) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	embed := pkgdiscord.BuildEventEmbed(event, a.labels(event), a.location)
	if _, err := a.session.ChannelMessageSendEmbed(a.channelID, embed, discordgo.WithContext(ctx)); err != nil {
		return errors.Wrapf(err, "announcing event '%s'", event.ID.Hex())
	}
	return nil
}

func (a *Announcer) labels(event entities.Event) pkgdiscord.EmbedLabels {
	t := func(key string, data map[string]any) string {
		return a.translator.T(a.locale, key, data)
	}
	return pkgdiscord.EmbedLabels{
		Title:   t("announce.title", map[string]any{"Title": event.Title}),
		Date:    t("announce.date", nil),
		Type:    t("announce.type", nil),
		Creator: t("announce.creator", nil),
		Footer:  t("announce.footer", map[string]any{"ID": event.ID.Hex()}),
	}
}
