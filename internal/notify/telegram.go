package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	telegramBaseURL = "https://api.telegram.org"

	// Delivery is best effort; a hung Telegram API must not stall the
	// caller longer than this.
	telegramTimeout = 10 * time.Second
)

// Telegram delivers events via the Bot API's sendMessage call.
type Telegram struct {
	baseURL string
	token   string
	chatID  string
	http    *http.Client
}

// TelegramOption configures a Telegram notifier.
type TelegramOption func(*Telegram)

// WithTelegramBaseURL overrides the Bot API base URL. Intended for testing.
func WithTelegramBaseURL(base string) TelegramOption {
	return func(t *Telegram) { t.baseURL = strings.TrimRight(base, "/") }
}

// NewTelegram creates a notifier for one bot token and chat.
func NewTelegram(token, chatID string, opts ...TelegramOption) (*Telegram, error) {
	if token == "" || chatID == "" {
		return nil, fmt.Errorf("notify: telegram bot token and chat id are required")
	}
	t := &Telegram{
		baseURL: telegramBaseURL,
		token:   token,
		chatID:  chatID,
		http:    &http.Client{Timeout: telegramTimeout},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *Telegram) Notify(ctx context.Context, event Event) error {
	text := event.Title
	if event.Body != "" {
		text += "\n" + event.Body
	}

	payload, err := json.Marshal(map[string]string{
		"chat_id": t.chatID,
		"text":    text,
	})
	if err != nil {
		return fmt.Errorf("notify: failed to encode message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return fmt.Errorf("notify: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("notify: telegram send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notify: telegram returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
