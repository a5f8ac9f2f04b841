package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/ben-j-c/bros-server-bot/bot/command"
	"github.com/ben-j-c/bros-server-bot/bot/features/economy"
	"github.com/ben-j-c/bros-server-bot/bot/features/lottery"
	"github.com/ben-j-c/bros-server-bot/events"
	"github.com/ben-j-c/bros-server-bot/service"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string
}

type Bot struct {
	config   Config
	session  *discordgo.Session
	registry *command.Registry
	eventBus *events.Bus
}

func New(config Config, ledger service.LedgerService, lotto service.LottoService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsAll

	bot := &Bot{
		config:   config,
		session:  dg,
		registry: command.NewRegistry(dg, config.GuildID),
		eventBus: eventBus,
	}

	if err := economy.New(ledger).Register(bot.registry); err != nil {
		return nil, fmt.Errorf("error registering economy commands: %w", err)
	}
	if err := lottery.New(lotto).Register(bot.registry); err != nil {
		return nil, fmt.Errorf("error registering lottery commands: %w", err)
	}

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registry.Install(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error installing commands: %w", err)
	}

	// Announce draw results after they are committed
	eventBus.Subscribe(events.EventTypeDrawCompleted, bot.handleDrawCompleted)

	return bot, nil
}

func (b *Bot) Close() error {
	b.registry.Close()
	return b.session.Close()
}
