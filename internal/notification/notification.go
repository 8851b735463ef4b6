package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	NotifySignal     NotificationType = "signal"
	NotifyTradeOpen  NotificationType = "trade_open"
	NotifyTradeClose NotificationType = "trade_close"
	NotifyError      NotificationType = "error"
)

// Notification represents a notification message
type Notification struct {
	Type         NotificationType
	Title        string
	Message      string
	Symbol       string
	TokenAddress string
	Price        float64
	PnLPercent   float64
	Timestamp    time.Time
}

// Notifier interface for different notification providers
type Notifier interface {
	Send(notification *Notification) error
	Name() string
	IsEnabled() bool
}

// Manager fans notifications out to all enabled providers
type Manager struct {
	notifiers []Notifier
}

// NewManager creates a new notification manager
func NewManager() *Manager {
	return &Manager{notifiers: make([]Notifier, 0)}
}

// AddNotifier adds a notification provider
func (m *Manager) AddNotifier(n Notifier) {
	m.notifiers = append(m.notifiers, n)
}

// Send sends a notification to all enabled providers. Provider errors do
// not stop delivery to the remaining providers; the last error is
// returned.
func (m *Manager) Send(notification *Notification) error {
	var lastErr error
	for _, n := range m.notifiers {
		if n.IsEnabled() {
			if err := n.Send(notification); err != nil {
				lastErr = err
			}
		}
	}
	return lastErr
}

// SendSignal sends a market signal with the pair's key numbers and a
// trade deep link when a referral code is configured.
func (m *Manager) SendSignal(symbol, tokenAddress, pattern string, price, marketCap, liquidity, volumeH24 float64, bonkbotRef string) error {
	message := fmt.Sprintf("Pattern: %s\n💰 Mcap: $%.0f\n💧 Liq: $%.0f\n📈 Vol 24h: $%.2f",
		pattern, marketCap, liquidity, volumeH24)
	if bonkbotRef != "" {
		message += fmt.Sprintf("\n\n[🚀 OPEN IN BONKBOT](https://t.me/bonkbot_bot?start=%s_%s)", bonkbotRef, tokenAddress)
	}

	return m.Send(&Notification{
		Type:         NotifySignal,
		Title:        fmt.Sprintf("💎 GOOD SIGNAL: %s", symbol),
		Message:      message,
		Symbol:       symbol,
		TokenAddress: tokenAddress,
		Price:        price,
		Timestamp:    time.Now(),
	})
}

// SendTradeOpen sends a paper trade opened notification
func (m *Manager) SendTradeOpen(symbol, tokenAddress string, price float64) error {
	return m.Send(&Notification{
		Type:         NotifyTradeOpen,
		Title:        fmt.Sprintf("📈 PAPER TRADE ENTER: %s", symbol),
		Message:      fmt.Sprintf("Entry price: $%.8f", price),
		Symbol:       symbol,
		TokenAddress: tokenAddress,
		Price:        price,
		Timestamp:    time.Now(),
	})
}

// SendTradeClose sends a paper trade closed notification
func (m *Manager) SendTradeClose(symbol, tokenAddress string, entryPrice, exitPrice, pnlPercent float64) error {
	emoji := "✅"
	if pnlPercent < 0 {
		emoji = "❌"
	}

	return m.Send(&Notification{
		Type:         NotifyTradeClose,
		Title:        fmt.Sprintf("%s PAPER TRADE CLOSED: %s", emoji, symbol),
		Message:      fmt.Sprintf("Entry: $%.8f → Exit: $%.8f\nResult: %.2f%%", entryPrice, exitPrice, pnlPercent),
		Symbol:       symbol,
		TokenAddress: tokenAddress,
		Price:        exitPrice,
		PnLPercent:   pnlPercent,
		Timestamp:    time.Now(),
	})
}

// SendError sends an error notification
func (m *Manager) SendError(title, message string) error {
	return m.Send(&Notification{
		Type:      NotifyError,
		Title:     fmt.Sprintf("⚠️ %s", title),
		Message:   message,
		Timestamp: time.Now(),
	})
}

// =============================================================================
// TELEGRAM NOTIFIER
// =============================================================================

// TelegramNotifier sends notifications via Telegram
type TelegramNotifier struct {
	botToken string
	chatID   string
	enabled  bool
	apiURL   string
	client   *http.Client
}

// TelegramConfig holds Telegram configuration
type TelegramConfig struct {
	BotToken string
	ChatID   string
	Enabled  bool
}

// NewTelegramNotifier creates a new Telegram notifier
func NewTelegramNotifier(config TelegramConfig) *TelegramNotifier {
	return &TelegramNotifier{
		botToken: config.BotToken,
		chatID:   config.ChatID,
		enabled:  config.Enabled && config.BotToken != "" && config.ChatID != "",
		apiURL:   "https://api.telegram.org",
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *TelegramNotifier) Name() string {
	return "telegram"
}

func (t *TelegramNotifier) IsEnabled() bool {
	return t.enabled
}

func (t *TelegramNotifier) Send(notification *Notification) error {
	if !t.enabled {
		return nil
	}

	message := fmt.Sprintf("*%s*\n\n%s", notification.Title, notification.Message)

	payload := map[string]interface{}{
		"chat_id":    t.chatID,
		"text":       message,
		"parse_mode": "Markdown",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiURL, t.botToken)
	resp, err := t.client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}

	return nil
}

// =============================================================================
// DISCORD NOTIFIER
// =============================================================================

// DiscordNotifier sends notifications via Discord webhook
type DiscordNotifier struct {
	webhookURL string
	enabled    bool
	client     *http.Client
}

// DiscordConfig holds Discord configuration
type DiscordConfig struct {
	WebhookURL string
	Enabled    bool
}

// NewDiscordNotifier creates a new Discord notifier
func NewDiscordNotifier(config DiscordConfig) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: config.WebhookURL,
		enabled:    config.Enabled && config.WebhookURL != "",
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *DiscordNotifier) Name() string {
	return "discord"
}

func (d *DiscordNotifier) IsEnabled() bool {
	return d.enabled
}

func (d *DiscordNotifier) Send(notification *Notification) error {
	if !d.enabled {
		return nil
	}

	color := 0x00FF00
	if notification.Type == NotifyError {
		color = 0xFF0000
	} else if notification.Type == NotifyTradeClose && notification.PnLPercent < 0 {
		color = 0xFF0000
	}

	embed := map[string]interface{}{
		"title":       notification.Title,
		"description": notification.Message,
		"color":       color,
		"timestamp":   notification.Timestamp.Format(time.RFC3339),
	}

	if notification.Symbol != "" {
		fields := []map[string]interface{}{
			{"name": "Symbol", "value": notification.Symbol, "inline": true},
		}
		if notification.Price > 0 {
			fields = append(fields, map[string]interface{}{
				"name": "Price", "value": fmt.Sprintf("%.8f", notification.Price), "inline": true,
			})
		}
		if notification.PnLPercent != 0 {
			fields = append(fields, map[string]interface{}{
				"name": "PnL", "value": fmt.Sprintf("%.2f%%", notification.PnLPercent), "inline": true,
			})
		}
		embed["fields"] = fields
	}

	payload := map[string]interface{}{
		"embeds": []map[string]interface{}{embed},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal discord payload: %w", err)
	}

	resp, err := d.client.Post(d.webhookURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send discord message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("discord API returned status %d", resp.StatusCode)
	}

	return nil
}
