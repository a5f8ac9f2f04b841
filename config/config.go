package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string

	// Database configuration
	DatabaseURL string

	// Economy configuration, amounts in cents
	GrantAmount  int64
	TicketPrice  int64
	DrawInterval time.Duration

	// Environment: "development", "production" or "test"
	Environment string
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		// Economy defaults: $100.00 daily grant, $1.00 tickets, daily draw
		GrantAmount:  10000,
		TicketPrice:  100,
		DrawInterval: 24 * time.Hour,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if amount := os.Getenv("GRANT_AMOUNT"); amount != "" {
		parsed, err := strconv.ParseInt(amount, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid GRANT_AMOUNT: %q", amount)
		}
		config.GrantAmount = parsed
	}
	if price := os.Getenv("TICKET_PRICE"); price != "" {
		parsed, err := strconv.ParseInt(price, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid TICKET_PRICE: %q", price)
		}
		config.TicketPrice = parsed
	}
	if interval := os.Getenv("DRAW_INTERVAL"); interval != "" {
		parsed, err := time.ParseDuration(interval)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid DRAW_INTERVAL: %q", interval)
		}
		config.DrawInterval = parsed
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
