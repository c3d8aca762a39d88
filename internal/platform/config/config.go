package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/joho/godotenv"
)

// Server is the full process configuration. FromEnv builds it from the
// environment (plus an optional .env file) so main stays lean.
type Server struct {
	Addr        string
	MetricsAddr string

	DatabaseURL    string
	MigrateOnStart bool

	Redis RedisConfig

	KafkaBrokers []string
	AuditTopic   string

	Embedding EmbeddingConfig
	Chat      ChatConfig

	// PricingStrategy selects the customization pricing mode for this
	// deployment: "full" or "ink_only". The two are never merged.
	PricingStrategy string

	AdminToken        string
	AdminEmails       []string
	AdminPasswordHash string
	JWTSigningKey     string

	PaymentLinkURL   string
	PaymentLinkToken string

	// MailReceiveOnly logs outbound mail instead of transmitting it.
	MailReceiveOnly bool
	SMTPAddr        string
	MailFrom        string
}

// RedisConfig mirrors the go-redis options we care about.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// EmbeddingConfig points at the embedding provider.
type EmbeddingConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// ChatConfig points at the completion provider and bounds retrieval.
type ChatConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	Threshold  float64
	MaxResults int
}

// FromEnv loads configuration. A missing .env file is not an error.
func FromEnv() (Server, error) {
	_ = godotenv.Load()

	cfg := Server{
		Addr:            envDefault("SELLARTE_ADDR", ":8080"),
		MetricsAddr:     envDefault("SELLARTE_METRICS_ADDR", ":9090"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		MigrateOnStart:  os.Getenv("MIGRATE_ON_START") == "true",
		AuditTopic:      envDefault("AUDIT_TOPIC", "sellarte.audit"),
		PricingStrategy: envDefault("PRICING_STRATEGY", "full"),
		AdminToken:      os.Getenv("ADMIN_TOKEN"),
		JWTSigningKey:   envDefault("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),

		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		PaymentLinkURL:    os.Getenv("PAYMENT_LINK_URL"),
		PaymentLinkToken:  os.Getenv("PAYMENT_LINK_TOKEN"),
		MailReceiveOnly:   envDefault("MAIL_MODE", "receive-only") == "receive-only",
		SMTPAddr:          os.Getenv("SMTP_ADDR"),
		MailFrom:          envDefault("MAIL_FROM", "ventas@sellarte.co"),

		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Embedding: EmbeddingConfig{
			BaseURL: envDefault("EMBEDDING_API_URL", "https://api.openai.com/v1/embeddings"),
			APIKey:  os.Getenv("EMBEDDING_API_KEY"),
			Model:   envDefault("EMBEDDING_MODEL", "text-embedding-3-small"),
		},
		Chat: ChatConfig{
			BaseURL:    envDefault("CHAT_API_URL", "https://api.openai.com/v1/chat/completions"),
			APIKey:     os.Getenv("CHAT_API_KEY"),
			Model:      envDefault("CHAT_MODEL", "gpt-4o-mini"),
			Threshold:  envFloat("CHAT_RETRIEVAL_THRESHOLD", 0.3),
			MaxResults: envInt("CHAT_RETRIEVAL_MAX_RESULTS", 4),
		},
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if emails := os.Getenv("ADMIN_EMAILS"); emails != "" {
		for _, email := range strings.Split(emails, ",") {
			email = strings.TrimSpace(email)
			if email == "" {
				continue
			}
			if !govalidator.IsEmail(email) {
				return Server{}, fmt.Errorf("ADMIN_EMAILS contains invalid email %q", email)
			}
			cfg.AdminEmails = append(cfg.AdminEmails, email)
		}
	}

	if cfg.PricingStrategy != "full" && cfg.PricingStrategy != "ink_only" {
		return Server{}, fmt.Errorf("PRICING_STRATEGY must be \"full\" or \"ink_only\", got %q", cfg.PricingStrategy)
	}

	return cfg, nil
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
