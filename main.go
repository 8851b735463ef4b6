package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dexscreener-analysis-bot/config"
	"dexscreener-analysis-bot/internal/analysis"
	"dexscreener-analysis-bot/internal/api"
	"dexscreener-analysis-bot/internal/cache"
	"dexscreener-analysis-bot/internal/database"
	"dexscreener-analysis-bot/internal/dexscreener"
	"dexscreener-analysis-bot/internal/events"
	"dexscreener-analysis-bot/internal/notification"
	"dexscreener-analysis-bot/internal/papertrade"
	"dexscreener-analysis-bot/internal/rugcheck"
	"dexscreener-analysis-bot/internal/scanner"

	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog := setupLogger(cfg.LoggingConfig)

	// Event bus connects the scanner, paper trading, persistence and
	// the WebSocket feed.
	eventBus := events.NewEventBus()

	// Database (optional)
	var repo *database.Repository
	var db *database.DB
	if cfg.DatabaseConfig.Enabled {
		db, err = database.NewDB(cfg.DatabaseConfig)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.RunMigrations(ctx); err != nil {
			cancel()
			log.Fatalf("Failed to run migrations: %v", err)
		}
		cancel()

		repo = database.NewRepository(db)
	}

	// Redis report cache (optional)
	var reportCache scanner.ReportCache
	var cacheService *cache.CacheService
	if cfg.RedisConfig.Enabled {
		cacheService, err = cache.NewCacheService(cfg.RedisConfig, cfg.RugcheckConfig.CacheTTL)
		if err != nil {
			log.Printf("Redis cache unavailable, continuing without report cache: %v", err)
		} else {
			reportCache = cacheService
		}
	}

	// Notification providers
	notifier := notification.NewManager()
	if cfg.NotificationConfig.Enabled {
		notifier.AddNotifier(notification.NewTelegramNotifier(notification.TelegramConfig{
			BotToken: cfg.NotificationConfig.Telegram.BotToken,
			ChatID:   cfg.NotificationConfig.Telegram.ChatID,
			Enabled:  cfg.NotificationConfig.Telegram.Enabled,
		}))
		notifier.AddNotifier(notification.NewDiscordNotifier(notification.DiscordConfig{
			WebhookURL: cfg.NotificationConfig.Discord.WebhookURL,
			Enabled:    cfg.NotificationConfig.Discord.Enabled,
		}))
	}

	// API clients
	dexClient := dexscreener.NewClient(cfg.DexScreenerConfig.BaseURL)
	var rugClient scanner.ReportSource
	if cfg.RugcheckConfig.Enabled {
		rugClient = rugcheck.NewClient(cfg.RugcheckConfig.BaseURL)
	}

	blacklist := analysis.NewBlacklist(cfg.FilterConfig.Blacklist)

	// Paper trading
	trades := papertrade.NewManager(cfg.PaperTradingConfig, notifier, eventBus, zlog)

	sc := scanner.NewScanner(
		dexClient, rugClient, reportCache, repo,
		notifier, trades, blacklist, eventBus, cfg,
	)

	// Persist completed paper trades off the event bus.
	if cfg.DatabaseConfig.Enabled {
		subscribeTradePersistence(eventBus, repo, cfg.PaperTradingConfig.BuyAmountSol)
	}

	server := api.NewServer(cfg.ServerConfig, repo, sc, trades, blacklist, eventBus)

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	sc.Start()

	if cfg.PaperTradingConfig.Enabled {
		go trades.Monitor(rootCtx, dexClient.TokenPriceUSD, cfg.MonitorIntervalDuration())
	}

	if cfg.ServerConfig.Enabled {
		go func() {
			if err := server.Start(); err != nil {
				log.Fatalf("Failed to start web server: %v", err)
			}
		}()
		log.Printf("Web interface available at http://%s:%d", cfg.ServerConfig.Host, cfg.ServerConfig.Port)
	}

	eventBus.Publish(events.Event{Type: events.EventBotStarted, Data: map[string]interface{}{
		"queries":          cfg.ScannerConfig.Queries,
		"momentum_profile": cfg.FilterConfig.MomentumProfile,
		"paper_trading":    cfg.PaperTradingConfig.Enabled,
	}})

	log.Println("DexScreener analysis bot started")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")

	eventBus.Publish(events.Event{Type: events.EventBotStopped})

	sc.Stop()
	rootCancel()

	shutdownTimeout := time.Duration(cfg.ServerConfig.ShutdownTimeout) * time.Second
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if cfg.ServerConfig.Enabled {
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down web server: %v", err)
		}
	}

	if cacheService != nil {
		cacheService.Close()
	}
	db.Close()

	log.Println("Shutdown complete")
}

// setupLogger configures the global zerolog level and returns the root logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var logger zerolog.Logger
	if cfg.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.With().Timestamp().Logger()
}

// subscribeTradePersistence writes closed paper trades to the database
// as they come off the event bus.
func subscribeTradePersistence(bus *events.EventBus, repo *database.Repository, sizeSol float64) {
	bus.Subscribe(events.EventTradeClosed, func(event events.Event) {
		trade := &database.PaperTrade{SizeSol: sizeSol, ClosedAt: event.Timestamp}

		if v, ok := event.Data["token_address"].(string); ok {
			trade.TokenAddress = v
		}
		if v, ok := event.Data["symbol"].(string); ok {
			trade.Symbol = v
		}
		if v, ok := event.Data["entry_price"].(float64); ok {
			trade.EntryPrice = v
		}
		if v, ok := event.Data["exit_price"].(float64); ok {
			trade.ExitPrice = v
		}
		if v, ok := event.Data["pnl_percent"].(float64); ok {
			trade.PnLPercent = v
		}
		if v, ok := event.Data["opened_at"].(time.Time); ok {
			trade.OpenedAt = v
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := repo.SaveClosedTrade(ctx, trade); err != nil {
			log.Printf("Failed to persist closed trade for %s: %v", trade.TokenAddress, err)
		}
	})
}
