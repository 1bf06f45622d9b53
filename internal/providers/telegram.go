package providers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"golang.org/x/time/rate"

	"alarm-service/internal/alarm"
	"alarm-service/internal/logging"
	"alarm-service/internal/utils"
)

// telegramRatePerSecond bounds outgoing messages to stay under the bot API
// limits.
const telegramRatePerSecond = 1

// TelegramNotifier delivers visual notifications to a Telegram chat. It
// implements the permission model of the visual channel: an unconfigured
// notifier is denied, a configured one starts at default and is promoted to
// granted by a successful probe message.
type TelegramNotifier struct {
	logger  *logging.Logger
	token   string
	chatID  int64
	limiter *rate.Limiter

	mu         sync.Mutex
	permission alarm.Permission
	requested  bool
	sentTags   map[string]time.Time
	tagTTL     time.Duration
}

// NewTelegramNotifier builds a notifier. Empty token or chat id yields a
// permanently denied channel.
func NewTelegramNotifier(logger *logging.Logger, token string, chatID int64, tagTTL time.Duration) *TelegramNotifier {
	permission := alarm.PermissionDefault
	if token == "" || chatID == 0 {
		permission = alarm.PermissionDenied
	}
	if tagTTL == 0 {
		tagTTL = 10 * time.Minute
	}
	return &TelegramNotifier{
		logger:     logger,
		token:      token,
		chatID:     chatID,
		limiter:    rate.NewLimiter(rate.Limit(telegramRatePerSecond), telegramRatePerSecond),
		permission: permission,
		sentTags:   make(map[string]time.Time),
		tagTTL:     tagTTL,
	}
}

// Permission reports the current permission state.
func (t *TelegramNotifier) Permission() alarm.Permission {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.permission
}

// RequestPermission probes the configured chat once, in the background.
// Permission stays at default until the probe resolves, so the requesting
// scan pass skips the visual dispatch and later passes go through.
func (t *TelegramNotifier) RequestPermission() {
	t.mu.Lock()
	if t.permission != alarm.PermissionDefault || t.requested {
		t.mu.Unlock()
		return
	}
	t.requested = true
	t.mu.Unlock()

	go func() {
		err := t.send("Alarm notifications are now enabled for this chat.")
		t.mu.Lock()
		defer t.mu.Unlock()
		if err != nil {
			t.logger.Warnf("Telegram permission probe failed, visual channel disabled: %v", err)
			t.permission = alarm.PermissionDenied
			return
		}
		t.logger.Infof("Telegram permission granted for chat %d", t.chatID)
		t.permission = alarm.PermissionGranted
	}()
}

// ShowNotification sends title and body to the chat. Repeated calls with the
// same tag inside the tag TTL are dropped.
func (t *TelegramNotifier) ShowNotification(title, body, tag string) {
	t.mu.Lock()
	if t.permission != alarm.PermissionGranted {
		t.mu.Unlock()
		return
	}
	now := time.Now()
	if sentAt, ok := t.sentTags[tag]; ok && now.Sub(sentAt) < t.tagTTL {
		t.mu.Unlock()
		return
	}
	t.sentTags[tag] = now
	for k, at := range t.sentTags {
		if now.Sub(at) >= t.tagTTL {
			delete(t.sentTags, k)
		}
	}
	t.mu.Unlock()

	go func() {
		text := fmt.Sprintf("*%s*\n%s", title, body)
		if err := t.send(text); err != nil {
			t.logger.Errorf("Telegram dispatch failed for tag %s: %v", tag, err)
		}
	}()
}

func (t *TelegramNotifier) send(text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram rate limit wait failed: %w", err)
	}

	return utils.Retry(t.logger, 3, time.Second, func() error {
		b, err := bot.New(t.token)
		if err != nil {
			return fmt.Errorf("failed to initialize Telegram bot: %w", err)
		}
		params := &bot.SendMessageParams{
			ChatID:    t.chatID,
			Text:      text,
			ParseMode: "Markdown",
		}
		if _, err := b.SendMessage(ctx, params); err != nil {
			return fmt.Errorf("failed to send Telegram message to chat_id %d: %w", t.chatID, err)
		}
		return nil
	})
}
