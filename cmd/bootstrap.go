package cmd

import (
	"log"
	"time"

	"github.com/joho/godotenv"

	config "work-tracker.com/work-tracker/internal/configs"
	"work-tracker.com/work-tracker/internal/notify"
	"work-tracker.com/work-tracker/internal/queue"
)

func loadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}
}

// newIntentGuard picks the dedupe backend. The returned func releases it.
func newIntentGuard(cfg config.Config) (queue.IntentGuard, func()) {
	ttl := time.Duration(cfg.NotifyDedupeTTLSeconds) * time.Second

	if cfg.NotifyDedupe != config.DedupeRedis {
		return queue.NewMemoryIntentGuard(ttl), func() {}
	}

	client := config.NewRedisClient(cfg.RedisAddr)
	log.Printf("notification dedupe backed by redis at %s", cfg.RedisAddr)
	return queue.NewRedisIntentGuard(client, cfg.RedisKeyPrefix, ttl), client.Close
}

func newSinks(cfg config.Config, users notify.UserDirectory) []notify.Sink {
	sinks := []notify.Sink{notify.LogSink{}}

	if cfg.TelegramBotToken != "" {
		bot, err := notify.NewTelegramBot(cfg.TelegramBotToken, cfg.TelegramProxy, cfg.NotifySendTimeout)
		if err != nil {
			log.Printf("telegram notifications disabled: %v", err)
		} else {
			sinks = append(sinks, notify.NewTelegramSink(bot, users))
		}
	}

	if cfg.WebhookURL != "" {
		sinks = append(sinks, notify.NewWebhookSink(cfg.WebhookURL, nil))
	}

	return sinks
}
