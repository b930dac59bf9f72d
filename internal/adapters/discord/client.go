package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hiscore-tracker/internal/adapters/discord/formatting"
	"hiscore-tracker/internal/adapters/metrics"
	"hiscore-tracker/internal/config"
	"hiscore-tracker/internal/core/domain"

	"github.com/bwmarrin/discordgo"
)

type DiscordSession interface {
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type Adapter struct {
	session DiscordSession
	config  *config.Config
	cache   *channelCache
	now     func() time.Time
}

func NewAdapter(session DiscordSession, cfg *config.Config) *Adapter {
	return &Adapter{
		session: session,
		config:  cfg,
		cache:   newChannelCache(),
		now:     time.Now,
	}
}

// PublishDigest posts the digest to the configured guild channel, split into
// as many messages as Discord's length limit requires.
func (a *Adapter) PublishDigest(ctx context.Context, digest *domain.Digest) error {
	lines := formatting.DigestLines(digest, a.now())
	for _, msg := range formatting.Chunk(lines, formatting.MaxMessageLength) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.SendGenericMessage(a.config.DiscordGuildID, a.config.DiscordChannelDigest, msg); err != nil {
			return fmt.Errorf("publish digest: %w", err)
		}
	}
	return nil
}

func (a *Adapter) SendGenericMessage(guildID, channelName, message string) error {
	channelID, err := a.resolveChannelID(guildID, channelName)
	if err != nil {
		slog.Error("Failed to get channel ID", "guild_id", guildID, "channel_name", channelName, "error", err)
		return err
	}

	if _, err := a.session.ChannelMessageSend(channelID, message); err != nil {
		slog.Error("Failed to send message", "channel_id", channelID, "error", err)
		a.cache.Invalidate(guildID, channelName)
		metrics.DiscordMessagesSent.WithLabelValues(a.channelType(channelName), "failure").Inc()
		return err
	}

	metrics.DiscordMessagesSent.WithLabelValues(a.channelType(channelName), "success").Inc()
	return nil
}

func (a *Adapter) resolveChannelID(guildID, channelName string) (string, error) {
	if id, ok := a.cache.Get(guildID, channelName); ok {
		return id, nil
	}

	id, err := a.fetchChannelID(guildID, channelName)
	if err != nil {
		return "", err
	}

	a.cache.Set(guildID, channelName, id)
	return id, nil
}

func (a *Adapter) fetchChannelID(guildID, channelName string) (string, error) {
	channels, err := a.session.GuildChannels(guildID)
	if err != nil {
		slog.Error("Failed to fetch guild channels", "guild_id", guildID, "error", err)
		return "", err
	}

	for _, ch := range channels {
		if ch.Name == channelName && ch.Type == discordgo.ChannelTypeGuildText {
			return ch.ID, nil
		}
	}

	return "", fmt.Errorf("channel %s not found", channelName)
}

func (a *Adapter) channelType(name string) string {
	if name == a.config.DiscordChannelDigest {
		return "digest"
	}
	return "other"
}
