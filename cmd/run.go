package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ben-j-c/bros-server-bot/bot"
	"github.com/ben-j-c/bros-server-bot/config"
	"github.com/ben-j-c/bros-server-bot/database"
	"github.com/ben-j-c/bros-server-bot/events"
	"github.com/ben-j-c/bros-server-bot/repository"
	"github.com/ben-j-c/bros-server-bot/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting bros server bot...")

	// Load configuration
	cfg := config.Get()

	// Apply pending migrations before serving anything
	log.Println("Running database migrations...")
	if err := database.RunMigrationsWithURL(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	log.Println("Initializing services...")
	ledgerService := service.NewLedgerService(uowFactory, cfg.GrantAmount)
	lottoService := service.NewLottoService(uowFactory, ledgerService, cfg.TicketPrice, cfg.DrawInterval)
	log.Println("Services initialized successfully")

	// Start the lottery draw worker
	drawWorker := service.NewDrawWorker(uowFactory, lottoService, cfg.DrawInterval)
	stopWorker := drawWorker.Start(ctx)
	defer stopWorker()

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:   cfg.DiscordToken,
		GuildID: cfg.DiscordGuildID,
	}
	discordBot, err := bot.New(botConfig, ledgerService, lottoService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
