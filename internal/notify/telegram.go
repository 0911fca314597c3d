package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	model "work-tracker.com/work-tracker/internal/models"
)

const telegramSinkName = "telegram"

// TelegramBot is the part of tgbotapi.BotAPI the sink needs.
type TelegramBot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// UserDirectory resolves users to their Telegram chat ids.
type UserDirectory interface {
	FindUsers(ctx context.Context, ids []string) ([]model.User, error)
}

type TelegramSink struct {
	bot   TelegramBot
	users UserDirectory
}

// NewTelegramBot authorizes a bot, optionally routing through an HTTP proxy.
// Send takes no context, so sendTimeout bounds every request at the client.
func NewTelegramBot(token, proxy string, sendTimeout time.Duration) (TelegramBot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	client, err := telegramClient(proxy, sendTimeout)
	if err != nil {
		return nil, err
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	log.Printf("[telegram] authorized as @%s", bot.Self.UserName)
	return bot, nil
}

func telegramClient(proxy string, timeout time.Duration) (*http.Client, error) {
	client := &http.Client{Timeout: timeout}
	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		client.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}
	return client, nil
}

func NewTelegramSink(bot TelegramBot, users UserDirectory) *TelegramSink {
	return &TelegramSink{bot: bot, users: users}
}

func (t *TelegramSink) Name() string {
	return telegramSinkName
}

// Deliver sends one message per recipient with a linked chat. Users without a
// chat id are skipped.
func (t *TelegramSink) Deliver(ctx context.Context, intent Intent) error {
	users, err := t.users.FindUsers(ctx, intent.UserIDs)
	if err != nil {
		return fmt.Errorf("resolve recipients: %w", err)
	}

	text := Message(intent)
	var errs []error
	for _, u := range users {
		if u.TelegramChatID == 0 {
			continue
		}
		if _, err := t.bot.Send(tgbotapi.NewMessage(u.TelegramChatID, text)); err != nil {
			errs = append(errs, fmt.Errorf("send to %s: %w", u.ID, err))
		}
	}
	return errors.Join(errs...)
}
