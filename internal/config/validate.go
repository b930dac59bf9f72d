package config

import (
	"errors"
	"fmt"
	"time"
)

// Validation constants define acceptable bounds for configuration values
const (
	minTokenLength = 50 // Discord tokens are typically 50+ characters

	minWorkerPoolSize = 1
	maxWorkerPoolSize = 100

	minTopN = 1
	maxTopN = 25 // Discord embeds and messages get unreadable past this

	minHiscoresRate = 100 * time.Millisecond

	maxChannelNameLength = 100 // Discord limit
)

// Validate checks if the configuration values are valid and within acceptable ranges.
// It returns all validation errors at once using errors.Join.
//
//   - StorageBackend: file or postgres; postgres needs DATABASE_URL
//   - Token: optional, but at least 50 characters and paired with a guild when set
//   - RefreshHour: 0..23
//   - TopN: 1..25, WorkerPoolSize: 1..100
//   - KeepDays at least 1, MinKeep not negative
func (c *Config) Validate() error {
	var errs []error

	if err := c.validateStorage(); err != nil {
		errs = append(errs, err)
	}

	if err := c.validateDiscord(); err != nil {
		errs = append(errs, err)
	}

	if err := c.validateSchedule(); err != nil {
		errs = append(errs, err)
	}

	if err := c.validateLimits(); err != nil {
		errs = append(errs, err)
	}

	if c.HiscoresRate < minHiscoresRate {
		errs = append(errs, fmt.Errorf(
			"HISCORES_RATE must be at least %v to respect the hiscores service, got %v",
			minHiscoresRate, c.HiscoresRate,
		))
	}

	if c.WOMGroupID < 0 {
		errs = append(errs, fmt.Errorf("WOM_GROUP_ID must not be negative, got %d", c.WOMGroupID))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %w", errors.Join(errs...))
	}

	return nil
}

func (c *Config) validateStorage() error {
	switch c.StorageBackend {
	case BackendFile:
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR cannot be empty for the %s backend", BackendFile)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is not set (via secret or env var), required for the %s backend", BackendPostgres)
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", BackendFile, BackendPostgres, c.StorageBackend)
	}
	return nil
}

// validateDiscord checks the token only when posting is enabled
func (c *Config) validateDiscord() error {
	if c.Token == "" {
		return nil
	}

	var errs []error
	if len(c.Token) < minTokenLength {
		errs = append(errs, fmt.Errorf(
			"DISCORD_TOKEN appears invalid (too short: %d chars, expected %d+)",
			len(c.Token), minTokenLength,
		))
	}
	if c.DiscordGuildID == "" {
		errs = append(errs, fmt.Errorf("DISCORD_GUILD_ID is required when DISCORD_TOKEN is set"))
	}
	if c.DiscordChannelDigest == "" {
		errs = append(errs, fmt.Errorf("DISCORD_CHANNEL_DIGEST cannot be empty"))
	} else if len(c.DiscordChannelDigest) > maxChannelNameLength {
		errs = append(errs, fmt.Errorf(
			"DISCORD_CHANNEL_DIGEST must be at most %d characters (Discord limit), got %d",
			maxChannelNameLength, len(c.DiscordChannelDigest),
		))
	}
	return errors.Join(errs...)
}

func (c *Config) validateSchedule() error {
	var errs []error
	if c.RefreshHour < 0 || c.RefreshHour > 23 {
		errs = append(errs, fmt.Errorf("REFRESH_HOUR must be between 0 and 23, got %d", c.RefreshHour))
	}
	if c.KeepDays < 1 {
		errs = append(errs, fmt.Errorf("KEEP_DAYS must be at least 1, got %d", c.KeepDays))
	}
	if c.MinKeep < 0 {
		errs = append(errs, fmt.Errorf("MIN_KEEP must not be negative, got %d", c.MinKeep))
	}
	return errors.Join(errs...)
}

func (c *Config) validateLimits() error {
	var errs []error
	if c.TopN < minTopN || c.TopN > maxTopN {
		errs = append(errs, fmt.Errorf("TOP_N must be between %d and %d, got %d", minTopN, maxTopN, c.TopN))
	}

	if c.WorkerPoolSize < minWorkerPoolSize {
		errs = append(errs, fmt.Errorf(
			"WORKER_POOL_SIZE must be at least %d, got %d",
			minWorkerPoolSize, c.WorkerPoolSize,
		))
	}
	if c.WorkerPoolSize > maxWorkerPoolSize {
		errs = append(errs, fmt.Errorf(
			"WORKER_POOL_SIZE must be at most %d to prevent resource exhaustion, got %d (hint: recommended range is 5-25)",
			maxWorkerPoolSize, c.WorkerPoolSize,
		))
	}
	return errors.Join(errs...)
}
