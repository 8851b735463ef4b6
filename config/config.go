package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Momentum profiles for the classification engine. The growth-band profile
// flags a moderate 5-minute rise as a tradable GoodCandidate; the pump
// profile flags any sharp rise as a PumpCandidate instead.
const (
	MomentumProfileGrowthBand = "growth_band"
	MomentumProfilePump       = "pump"
)

type Config struct {
	DexScreenerConfig  DexScreenerConfig  `json:"dexscreener"`
	RugcheckConfig     RugcheckConfig     `json:"rugcheck"`
	FilterConfig       FilterConfig       `json:"filters"`
	ScannerConfig      ScannerConfig      `json:"scanner"`
	PaperTradingConfig PaperTradingConfig `json:"paper_trading"`
	NotificationConfig NotificationConfig `json:"notification"`
	DatabaseConfig     DatabaseConfig     `json:"database"`
	RedisConfig        RedisConfig        `json:"redis"`
	ServerConfig       ServerConfig       `json:"server"`
	LoggingConfig      LoggingConfig      `json:"logging"`
}

// DexScreenerConfig holds DexScreener API settings
type DexScreenerConfig struct {
	BaseURL string `json:"base_url"`
}

// RugcheckConfig holds rugcheck API settings
type RugcheckConfig struct {
	Enabled  bool   `json:"enabled"`
	BaseURL  string `json:"base_url"`
	CacheTTL int    `json:"cache_ttl"` // Report cache TTL in seconds
}

// FilterConfig holds classification thresholds
type FilterConfig struct {
	MinLiquidityUSD         float64  `json:"min_liquidity_usd"`
	MinVolumeH24USD         float64  `json:"min_volume_h24_usd"`
	MinMarketCapUSD         float64  `json:"min_mcap_usd"`
	MaxVolumeLiquidityRatio float64  `json:"max_vlr"`                    // Wash-trading cutoff
	MaxBundledSupplyPercent float64  `json:"max_bundled_supply_percent"` // Flag if bundled wallets hold more
	MomentumProfile         string   `json:"momentum_profile"`           // "growth_band" or "pump"
	Blacklist               []string `json:"blacklist"`                  // Seed pair addresses
}

// ScannerConfig holds scan loop settings
type ScannerConfig struct {
	Enabled       bool     `json:"enabled"`
	Queries       []string `json:"queries"`        // Search terms per cycle
	ScanInterval  int      `json:"scan_interval"`  // Seconds between cycles
	QueryDelay    int      `json:"query_delay"`    // Seconds between queries inside a cycle
	AutoBlacklist bool     `json:"auto_blacklist"` // Blacklist pairs flagged by security rules
}

// PaperTradingConfig holds simulated trading settings
type PaperTradingConfig struct {
	Enabled           bool    `json:"enabled"`
	BuyAmountSol      float64 `json:"buy_amount_sol"`      // Simulated position size
	TakeProfitPercent float64 `json:"take_profit_percent"` // Close at PnL >= this
	StopLossPercent   float64 `json:"stop_loss_percent"`   // Close at PnL <= -this
	MonitorInterval   int     `json:"monitor_interval"`    // Seconds between position reviews
}

type NotificationConfig struct {
	Enabled  bool           `json:"enabled"`
	Telegram TelegramConfig `json:"telegram"`
	Discord  DiscordConfig  `json:"discord"`
}

type TelegramConfig struct {
	Enabled    bool   `json:"enabled"`
	BotToken   string `json:"bot_token"`
	ChatID     string `json:"chat_id"`
	BonkbotRef string `json:"bonkbot_ref"` // Referral code for the trade deep link
}

type DiscordConfig struct {
	Enabled    bool   `json:"enabled"`
	WebhookURL string `json:"webhook_url"`
}

// DatabaseConfig holds PostgreSQL settings
type DatabaseConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"ssl_mode"`
}

// RedisConfig holds Redis settings for report caching
type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Address  string `json:"address"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	PoolSize int    `json:"pool_size"`
}

// ServerConfig holds HTTP API server settings
type ServerConfig struct {
	Enabled         bool   `json:"enabled"`
	Port            int    `json:"port"`
	Host            string `json:"host"`
	AllowedOrigins  string `json:"allowed_origins"`
	ShutdownTimeout int    `json:"shutdown_timeout"` // Seconds
}

type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Pretty bool   `json:"pretty"` // Console writer instead of JSON
}

// Load reads config.json if present and applies environment overrides on top.
func Load() (*Config, error) {
	cfg, err := loadFromFile("config.json")
	if err != nil {
		cfg = &Config{}
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// applyDefaults fills zero values with the thresholds the bot shipped with.
func applyDefaults(cfg *Config) {
	if cfg.FilterConfig.MinLiquidityUSD == 0 {
		cfg.FilterConfig.MinLiquidityUSD = 1000.0
	}
	if cfg.FilterConfig.MinVolumeH24USD == 0 {
		cfg.FilterConfig.MinVolumeH24USD = 5000.0
	}
	if cfg.FilterConfig.MinMarketCapUSD == 0 {
		cfg.FilterConfig.MinMarketCapUSD = 10000.0
	}
	if cfg.FilterConfig.MaxVolumeLiquidityRatio == 0 {
		cfg.FilterConfig.MaxVolumeLiquidityRatio = 50.0
	}
	if cfg.FilterConfig.MaxBundledSupplyPercent == 0 {
		cfg.FilterConfig.MaxBundledSupplyPercent = 25.0
	}
	if cfg.FilterConfig.MomentumProfile == "" {
		cfg.FilterConfig.MomentumProfile = MomentumProfileGrowthBand
	}
	if len(cfg.ScannerConfig.Queries) == 0 {
		cfg.ScannerConfig.Queries = []string{"pump", "pepe", "solana", "moon"}
	}
	if cfg.ScannerConfig.ScanInterval == 0 {
		cfg.ScannerConfig.ScanInterval = 60
	}
	if cfg.ScannerConfig.QueryDelay == 0 {
		cfg.ScannerConfig.QueryDelay = 5
	}
	if cfg.PaperTradingConfig.BuyAmountSol == 0 {
		cfg.PaperTradingConfig.BuyAmountSol = 0.1
	}
	if cfg.PaperTradingConfig.TakeProfitPercent == 0 {
		cfg.PaperTradingConfig.TakeProfitPercent = 50.0
	}
	if cfg.PaperTradingConfig.StopLossPercent == 0 {
		cfg.PaperTradingConfig.StopLossPercent = 25.0
	}
	if cfg.PaperTradingConfig.MonitorInterval == 0 {
		cfg.PaperTradingConfig.MonitorInterval = 30
	}
	if cfg.RugcheckConfig.CacheTTL == 0 {
		cfg.RugcheckConfig.CacheTTL = 3600
	}
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(cfg *Config) {
	cfg.DexScreenerConfig.BaseURL = getEnvOrDefault("DEXSCREENER_BASE_URL", cfg.DexScreenerConfig.BaseURL)

	cfg.RugcheckConfig.Enabled = getEnvBoolOrDefault("RUGCHECK_ENABLED", true)
	cfg.RugcheckConfig.BaseURL = getEnvOrDefault("RUGCHECK_BASE_URL", cfg.RugcheckConfig.BaseURL)

	if queries := os.Getenv("SCAN_QUERIES"); queries != "" {
		parts := strings.Split(queries, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if q := strings.TrimSpace(p); q != "" {
				trimmed = append(trimmed, q)
			}
		}
		cfg.ScannerConfig.Queries = trimmed
	}
	cfg.ScannerConfig.Enabled = getEnvBoolOrDefault("SCANNER_ENABLED", true)
	cfg.ScannerConfig.ScanInterval = getEnvIntOrDefault("SCAN_INTERVAL", cfg.ScannerConfig.ScanInterval)
	cfg.ScannerConfig.AutoBlacklist = getEnvBoolOrDefault("AUTO_BLACKLIST", true)

	cfg.FilterConfig.MomentumProfile = getEnvOrDefault("MOMENTUM_PROFILE", cfg.FilterConfig.MomentumProfile)

	cfg.PaperTradingConfig.Enabled = getEnvBoolOrDefault("PAPER_TRADING_ENABLED", true)
	cfg.PaperTradingConfig.BuyAmountSol = getEnvFloatOrDefault("PAPER_BUY_AMOUNT_SOL", cfg.PaperTradingConfig.BuyAmountSol)
	cfg.PaperTradingConfig.TakeProfitPercent = getEnvFloatOrDefault("PAPER_TAKE_PROFIT", cfg.PaperTradingConfig.TakeProfitPercent)
	cfg.PaperTradingConfig.StopLossPercent = getEnvFloatOrDefault("PAPER_STOP_LOSS", cfg.PaperTradingConfig.StopLossPercent)

	cfg.NotificationConfig.Enabled = getEnvBoolOrDefault("NOTIFICATIONS_ENABLED", false)
	cfg.NotificationConfig.Telegram.Enabled = getEnvBoolOrDefault("TELEGRAM_ENABLED", false)
	cfg.NotificationConfig.Telegram.BotToken = getEnvOrDefault("TELEGRAM_BOT_TOKEN", cfg.NotificationConfig.Telegram.BotToken)
	cfg.NotificationConfig.Telegram.ChatID = getEnvOrDefault("TELEGRAM_CHAT_ID", cfg.NotificationConfig.Telegram.ChatID)
	cfg.NotificationConfig.Telegram.BonkbotRef = getEnvOrDefault("BONKBOT_REF", cfg.NotificationConfig.Telegram.BonkbotRef)
	cfg.NotificationConfig.Discord.Enabled = getEnvBoolOrDefault("DISCORD_ENABLED", false)
	cfg.NotificationConfig.Discord.WebhookURL = getEnvOrDefault("DISCORD_WEBHOOK_URL", cfg.NotificationConfig.Discord.WebhookURL)

	cfg.DatabaseConfig.Enabled = getEnvBoolOrDefault("DB_ENABLED", cfg.DatabaseConfig.Enabled)
	cfg.DatabaseConfig.Host = getEnvOrDefault("DB_HOST", defaultString(cfg.DatabaseConfig.Host, "localhost"))
	cfg.DatabaseConfig.Port = getEnvIntOrDefault("DB_PORT", defaultInt(cfg.DatabaseConfig.Port, 5432))
	cfg.DatabaseConfig.User = getEnvOrDefault("DB_USER", defaultString(cfg.DatabaseConfig.User, "dexbot"))
	cfg.DatabaseConfig.Password = getEnvOrDefault("DB_PASSWORD", cfg.DatabaseConfig.Password)
	cfg.DatabaseConfig.Database = getEnvOrDefault("DB_NAME", defaultString(cfg.DatabaseConfig.Database, "dexbot"))
	cfg.DatabaseConfig.SSLMode = getEnvOrDefault("DB_SSLMODE", defaultString(cfg.DatabaseConfig.SSLMode, "disable"))

	cfg.RedisConfig.Enabled = getEnvBoolOrDefault("REDIS_ENABLED", cfg.RedisConfig.Enabled)
	cfg.RedisConfig.Address = getEnvOrDefault("REDIS_ADDRESS", defaultString(cfg.RedisConfig.Address, "localhost:6379"))
	cfg.RedisConfig.Password = getEnvOrDefault("REDIS_PASSWORD", cfg.RedisConfig.Password)
	cfg.RedisConfig.DB = getEnvIntOrDefault("REDIS_DB", cfg.RedisConfig.DB)
	cfg.RedisConfig.PoolSize = getEnvIntOrDefault("REDIS_POOL_SIZE", defaultInt(cfg.RedisConfig.PoolSize, 10))

	cfg.ServerConfig.Enabled = getEnvBoolOrDefault("WEB_ENABLED", true)
	cfg.ServerConfig.Port = getEnvIntOrDefault("WEB_PORT", defaultInt(cfg.ServerConfig.Port, 8080))
	cfg.ServerConfig.Host = getEnvOrDefault("WEB_HOST", defaultString(cfg.ServerConfig.Host, "0.0.0.0"))
	cfg.ServerConfig.AllowedOrigins = getEnvOrDefault("WEB_ALLOWED_ORIGINS", defaultString(cfg.ServerConfig.AllowedOrigins, "*"))
	cfg.ServerConfig.ShutdownTimeout = getEnvIntOrDefault("WEB_SHUTDOWN_TIMEOUT", defaultInt(cfg.ServerConfig.ShutdownTimeout, 10))

	cfg.LoggingConfig.Level = getEnvOrDefault("LOG_LEVEL", defaultString(cfg.LoggingConfig.Level, "info"))
	cfg.LoggingConfig.Pretty = getEnvBoolOrDefault("LOG_PRETTY", cfg.LoggingConfig.Pretty)
}

// Validate checks threshold invariants.
func (c *Config) Validate() error {
	f := c.FilterConfig
	if f.MinLiquidityUSD < 0 || f.MinVolumeH24USD < 0 || f.MinMarketCapUSD < 0 ||
		f.MaxVolumeLiquidityRatio < 0 || f.MaxBundledSupplyPercent < 0 {
		return fmt.Errorf("filter thresholds must be non-negative")
	}
	switch f.MomentumProfile {
	case MomentumProfileGrowthBand, MomentumProfilePump:
	default:
		return fmt.Errorf("unknown momentum profile %q", f.MomentumProfile)
	}

	pt := c.PaperTradingConfig
	if pt.TakeProfitPercent <= 0 {
		return fmt.Errorf("take_profit_percent must be positive")
	}
	if pt.StopLossPercent <= 0 {
		return fmt.Errorf("stop_loss_percent must be positive")
	}
	return nil
}

// MonitorIntervalDuration returns the position review cadence.
func (c *Config) MonitorIntervalDuration() time.Duration {
	return time.Duration(c.PaperTradingConfig.MonitorInterval) * time.Second
}

// ScanIntervalDuration returns the scan cycle cadence.
func (c *Config) ScanIntervalDuration() time.Duration {
	return time.Duration(c.ScannerConfig.ScanInterval) * time.Second
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true"
	}
	return defaultValue
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func defaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}
