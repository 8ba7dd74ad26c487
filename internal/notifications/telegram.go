package notifications

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hqnguyen-dev/poly-mirror-bot/pkg/types"
)

const sendTimeout = 10 * time.Second

// TelegramNotifier pushes operator alerts to a Telegram chat. It is fire
// and forget: a failed delivery is reported to the caller but never blocks
// or halts the pipeline.
type TelegramNotifier struct {
	token      string
	chatID     string
	httpClient *http.Client
}

func NewTelegramNotifier(token, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		token:      token,
		chatID:     chatID,
		httpClient: &http.Client{Timeout: sendTimeout},
	}
}

func (t *TelegramNotifier) SendAlert(level, message string) error {
	emoji := "ℹ️"
	switch level {
	case "warning":
		emoji = "⚠️"
	case "error":
		emoji = "🚨"
	case "success":
		emoji = "✅"
	}
	return t.send(fmt.Sprintf("%s *Mirror Bot*\n\n%s", emoji, message))
}

// NotifyMirroredTrade reports one executed mirror trade
func (t *TelegramNotifier) NotifyMirroredTrade(side types.TradeSide, sizeUSD float64, question string) error {
	emoji := "🟢"
	if side == types.SideSell {
		emoji = "🔴"
	}
	return t.send(fmt.Sprintf("%s *Mirror Bot*\n\nMirrored %s $%.2f\n%s",
		emoji, side, sizeUSD, question))
}

func (t *TelegramNotifier) send(text string) error {
	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.token)

	form := url.Values{}
	form.Set("chat_id", t.chatID)
	form.Set("text", text)
	form.Set("parse_mode", "Markdown")

	resp, err := t.httpClient.Post(endpoint, "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("telegram send failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}
	return nil
}
