package notification

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type recordingNotifier struct {
	enabled bool
	sent    []*Notification
	err     error
}

func (r *recordingNotifier) Send(n *Notification) error {
	r.sent = append(r.sent, n)
	return r.err
}

func (r *recordingNotifier) Name() string    { return "recording" }
func (r *recordingNotifier) IsEnabled() bool { return r.enabled }

func TestManagerSkipsDisabledProviders(t *testing.T) {
	enabled := &recordingNotifier{enabled: true}
	disabled := &recordingNotifier{enabled: false}

	m := NewManager()
	m.AddNotifier(enabled)
	m.AddNotifier(disabled)

	if err := m.SendTradeOpen("TKN", "TOKEN1", 0.5); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(enabled.sent) != 1 {
		t.Errorf("enabled provider should receive the notification, got %d", len(enabled.sent))
	}
	if len(disabled.sent) != 0 {
		t.Errorf("disabled provider should be skipped, got %d", len(disabled.sent))
	}
}

func TestManagerDeliversPastFailingProvider(t *testing.T) {
	failing := &recordingNotifier{enabled: true, err: errors.New("boom")}
	working := &recordingNotifier{enabled: true}

	m := NewManager()
	m.AddNotifier(failing)
	m.AddNotifier(working)

	if err := m.SendError("title", "message"); err == nil {
		t.Error("expected the provider error to surface")
	}
	if len(working.sent) != 1 {
		t.Error("second provider should still receive the notification")
	}
}

func TestSendTradeCloseFields(t *testing.T) {
	rec := &recordingNotifier{enabled: true}
	m := NewManager()
	m.AddNotifier(rec)

	if err := m.SendTradeClose("TKN", "TOKEN1", 1.0, 1.5, 50.0); err != nil {
		t.Fatalf("SendTradeClose failed: %v", err)
	}

	n := rec.sent[0]
	if n.Type != NotifyTradeClose {
		t.Errorf("unexpected type %s", n.Type)
	}
	if n.PnLPercent != 50.0 || n.Price != 1.5 {
		t.Errorf("unexpected numbers: pnl=%v price=%v", n.PnLPercent, n.Price)
	}
	if !strings.Contains(n.Message, "50.00%") {
		t.Errorf("message should carry the PnL percent: %q", n.Message)
	}
}

func TestSendSignalIncludesDeepLink(t *testing.T) {
	rec := &recordingNotifier{enabled: true}
	m := NewManager()
	m.AddNotifier(rec)

	m.SendSignal("TKN", "TOKEN1", "GoodCandidate", 0.5, 50000, 2000, 6000, "ref123")

	msg := rec.sent[0].Message
	if !strings.Contains(msg, "bonkbot_bot?start=ref123_TOKEN1") {
		t.Errorf("expected deep link in message: %q", msg)
	}
}

func TestTelegramNotifierPost(t *testing.T) {
	var captured map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/bottoken123/sendMessage") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &captured)
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	tg := NewTelegramNotifier(TelegramConfig{BotToken: "token123", ChatID: "chat1", Enabled: true})
	tg.apiURL = srv.URL

	err := tg.Send(&Notification{Title: "title", Message: "message"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if captured["chat_id"] != "chat1" {
		t.Errorf("unexpected chat_id %v", captured["chat_id"])
	}
	if !strings.Contains(captured["text"].(string), "title") {
		t.Errorf("unexpected text %v", captured["text"])
	}
}

func TestTelegramNotifierDisabledWithoutCredentials(t *testing.T) {
	tg := NewTelegramNotifier(TelegramConfig{Enabled: true})
	if tg.IsEnabled() {
		t.Error("notifier without token/chat must be disabled")
	}
	if err := tg.Send(&Notification{}); err != nil {
		t.Errorf("disabled notifier Send must be a no-op, got %v", err)
	}
}
