package discord

import (
	"errors"
	"log/slog"

	"hiscore-tracker/internal/config"

	"github.com/bwmarrin/discordgo"
)

// NewSession creates a REST-only bot session. Posting digests needs no
// gateway connection, so the session is never opened.
func NewSession(cfg *config.Config) (*discordgo.Session, error) {
	if cfg.Token == "" {
		return nil, errors.New("discord token is empty")
	}

	discord, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		slog.Error("Failed to create discord session", "error", err)
		return nil, err
	}

	discord.Identify.Intents = discordgo.IntentsGuilds

	return discord, nil
}
