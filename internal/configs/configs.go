package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"
)

const (
	DedupeMemory = "memory"
	DedupeRedis  = "redis"
)

type Config struct {
	AppURL                 string
	DatabaseDSN            string
	RateLimit              int
	ShutdownTimeoutSeconds int
	Location               *time.Location

	NotifyWorkers          int
	NotifyQueueSize        int
	NotifySendTimeout      time.Duration
	NotifyDedupe           string
	NotifyDedupeTTLSeconds int

	RedisAddr      string
	RedisKeyPrefix string

	TelegramBotToken string
	TelegramProxy    string
	WebhookURL       string
}

func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")
	redisHost := getEnv("REDIS_HOST", "127.0.0.1")
	redisPort := getEnv("REDIS_PORT", "6379")

	tz := getEnv("TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Fatalf("invalid TIMEZONE %q: %v", tz, err)
	}

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		DatabaseDSN:            getEnv("DATABASE_DSN", "work-tracker.db"),
		RateLimit:              getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
		Location:               loc,

		NotifyWorkers:          getEnvAsInt("NOTIFY_WORKERS", 2),
		NotifyQueueSize:        getEnvAsInt("NOTIFY_QUEUE_SIZE", 100),
		NotifySendTimeout:      time.Duration(getEnvAsInt("NOTIFY_SEND_TIMEOUT_SECONDS", 10)) * time.Second,
		NotifyDedupe:           getEnv("NOTIFY_DEDUPE", DedupeMemory),
		NotifyDedupeTTLSeconds: getEnvAsInt("NOTIFY_DEDUPE_TTL_SECONDS", 300),

		RedisAddr:      fmt.Sprintf("%s:%s", redisHost, redisPort),
		RedisKeyPrefix: getEnv("REDIS_KEY_PREFIX", "work_tracker:notify:"),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramProxy:    os.Getenv("TELEGRAM_PROXY"),
		WebhookURL:       os.Getenv("NOTIFY_WEBHOOK_URL"),
	}

	validate(cfg)
	return cfg
}

func validate(cfg Config) {
	if cfg.AppURL == "" {
		log.Fatal("APP_URL must not be empty (e.g. 127.0.0.1:8080)")
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal("DATABASE_DSN must not be empty")
	}
	if cfg.RateLimit <= 0 {
		log.Fatal("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.NotifyWorkers <= 0 {
		log.Fatal("NOTIFY_WORKERS must be greater than 0")
	}
	if cfg.NotifyQueueSize <= 0 {
		log.Fatal("NOTIFY_QUEUE_SIZE must be greater than 0")
	}
	if cfg.NotifySendTimeout <= 0 {
		log.Fatal("NOTIFY_SEND_TIMEOUT_SECONDS must be greater than 0")
	}
	if cfg.NotifyDedupeTTLSeconds <= 0 {
		log.Fatal("NOTIFY_DEDUPE_TTL_SECONDS must be greater than 0")
	}
	if cfg.NotifyDedupe != DedupeMemory && cfg.NotifyDedupe != DedupeRedis {
		log.Fatalf("NOTIFY_DEDUPE must be %q or %q", DedupeMemory, DedupeRedis)
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}
