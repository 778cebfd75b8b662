package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App           AppConfig
	Database      DatabaseConfig
	SMTP          SMTPConfig
	Keys          APIKeys
	Ai            AIConfig
	Guest         GuestConfig
	Collaboration CollaborationConfig
	Storage       StorageConfig
	Payment       PaymentConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	NotificationLog    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	EventsTopic        string
	TrustedProxies     []string
}

type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type APIKeys struct {
	OpenAI string
}

type AIConfig struct {
	LLMProvider      string // "openai" or "ollama"
	LLMModel         string
	LLMBaseURL       string
	OllamaBaseURL    string
	MaxRetries       int
	RetryBackoff     time.Duration
	RequestTimeout   time.Duration
	TitleModel       string
	SpeechBaseURL    string
	SpeechModel      string
	FreeAudioMinutes float64
}

type GuestConfig struct {
	Backend    string // "database", "redis" or "memory"
	Limit      int64
	CounterTTL time.Duration
}

type CollaborationConfig struct {
	CollaboratorsMayInvite bool
	DeletedChatPolicy      string // "hidden", "read_only" or "addressable"
}

type StorageConfig struct {
	Backend       string // "local" or "gcs"
	LocalDir      string
	PublicBaseURL string
	GCSBucket     string
	GCSCredential string // base64 encoded service account JSON
}

type PaymentConfig struct {
	MidtransServerKey    string
	MidtransIsProduction bool
	PremiumPrice         int64
	PremiumDays          int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			NotificationLog:    getEnv("NOTIFICATION_LOG_FILE_PATH", "logs/notification.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			EventsTopic:        getEnv("COLLABORATION_EVENTS_TOPIC", "collaboration.events"),
			TrustedProxies:     getEnvAsList("TRUSTED_PROXIES"),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "ChatShare"),
		},
		Keys: APIKeys{
			OpenAI: getEnv("OPENAI_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:      getEnv("LLM_PROVIDER", "openai"),
			LLMModel:         getEnv("LLM_MODEL", "gpt-3.5-turbo"),
			LLMBaseURL:       getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
			OllamaBaseURL:    getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			MaxRetries:       getEnvAsInt("LLM_MAX_RETRIES", 2),
			RetryBackoff:     getEnvAsDuration("LLM_RETRY_BACKOFF", 400*time.Millisecond),
			RequestTimeout:   getEnvAsDuration("LLM_REQUEST_TIMEOUT", 60*time.Second),
			TitleModel:       getEnv("TITLE_MODEL", "gpt-3.5-turbo"),
			SpeechBaseURL:    getEnv("SPEECH_BASE_URL", "https://api.openai.com/v1"),
			SpeechModel:      getEnv("SPEECH_MODEL", "tts-1"),
			FreeAudioMinutes: getEnvAsFloat("FREE_AUDIO_MINUTES", 10),
		},
		Guest: GuestConfig{
			Backend:    getEnv("GUEST_LIMITER_BACKEND", "database"),
			Limit:      int64(getEnvAsInt("GUEST_CHAT_LIMIT", 10)),
			CounterTTL: getEnvAsDuration("GUEST_COUNTER_TTL", 0),
		},
		Collaboration: CollaborationConfig{
			CollaboratorsMayInvite: getEnvAsBool("COLLABORATORS_MAY_INVITE", false),
			DeletedChatPolicy:      getEnv("DELETED_CHAT_POLICY", "hidden"),
		},
		Storage: StorageConfig{
			Backend:       getEnv("FILE_STORE_BACKEND", "local"),
			LocalDir:      getEnv("FILE_STORE_DIR", "./uploads"),
			PublicBaseURL: getEnv("FILE_STORE_PUBLIC_URL", "http://localhost:3000/uploads"),
			GCSBucket:     getEnv("GCS_BUCKET", ""),
			GCSCredential: getEnv("GCP_SERVICE_ACCOUNT_CREDENTIALS", ""),
		},
		Payment: PaymentConfig{
			MidtransServerKey:    getEnv("MIDTRANS_SERVER_KEY", ""),
			MidtransIsProduction: getEnvAsBool("MIDTRANS_IS_PRODUCTION", false),
			PremiumPrice:         int64(getEnvAsInt("PREMIUM_PRICE", 25000)),
			PremiumDays:          getEnvAsInt("PREMIUM_DAYS", 30),
		},
	}
}

// Validate rejects enum settings the container cannot wire.
func (c *Config) Validate() error {
	checks := []struct {
		name    string
		value   string
		allowed []string
	}{
		{"DB_DRIVER", c.Database.Driver, []string{"postgres", "sqlite"}},
		{"GUEST_LIMITER_BACKEND", c.Guest.Backend, []string{"database", "redis", "memory"}},
		{"DELETED_CHAT_POLICY", c.Collaboration.DeletedChatPolicy, []string{"hidden", "read_only", "addressable"}},
		{"FILE_STORE_BACKEND", c.Storage.Backend, []string{"local", "gcs"}},
		{"LLM_PROVIDER", c.Ai.LLMProvider, []string{"openai", "ollama"}},
	}

	for _, check := range checks {
		if !contains(check.allowed, check.value) {
			return fmt.Errorf("invalid %s %q (allowed: %s)", check.name, check.value, strings.Join(check.allowed, ", "))
		}
	}

	if c.Guest.Limit <= 0 {
		return fmt.Errorf("GUEST_CHAT_LIMIT must be positive")
	}
	if c.Guest.CounterTTL < 0 || (c.Guest.CounterTTL > 0 && c.Guest.CounterTTL < time.Second) {
		return fmt.Errorf("GUEST_COUNTER_TTL must be 0 or at least 1s")
	}
	if c.Storage.Backend == "gcs" && c.Storage.GCSBucket == "" {
		return fmt.Errorf("GCS_BUCKET is required when FILE_STORE_BACKEND=gcs")
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvAsList splits a comma separated value, dropping blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
