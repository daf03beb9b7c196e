package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Telegram  TelegramConfig
	Speech    SpeechConfig
	Vision    VisionConfig
	Currency  CurrencyConfig
	Scheduler SchedulerConfig
	Logger    LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MigrationsDir string
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
	RefreshExp time.Duration
}

type TelegramConfig struct {
	BotToken   string
	UseWebhook bool
	WebhookURL string
}

// SpeechConfig points at a Whisper-compatible transcription endpoint,
// either the OpenAI API or a locally hosted model behind the same contract.
type SpeechConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// VisionConfig points at a DeepSeek-compatible chat completions endpoint
// used for receipt photo extraction.
type VisionConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type CurrencyConfig struct {
	CBUEndpoint string
	CacheTTL    time.Duration
}

type SchedulerConfig struct {
	ReminderInterval time.Duration
	OverdueInterval  time.Duration
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// No .env is fine, plain environment variables work for Docker/K8s.

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	refreshExp, _ := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168"))
	speechTimeout, _ := strconv.Atoi(getEnv("SPEECH_TIMEOUT_SECONDS", "30"))
	visionTimeout, _ := strconv.Atoi(getEnv("VISION_TIMEOUT_SECONDS", "30"))
	currencyTTL, _ := strconv.Atoi(getEnv("CURRENCY_CACHE_TTL_SECONDS", "3600"))
	reminderEvery, _ := strconv.Atoi(getEnv("REMINDER_INTERVAL_SECONDS", "300"))
	overdueEvery, _ := strconv.Atoi(getEnv("OVERDUE_INTERVAL_SECONDS", "3600"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnv("DB_PORT", "5432"),
			User:          getEnv("DB_USER", "postgres"),
			Password:      getEnv("DB_PASSWORD", "postgres"),
			DBName:        getEnv("DB_NAME", "ovozpay"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			MigrationsDir: getEnv("DB_MIGRATIONS_DIR", "migrations"),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			Expiration: time.Duration(jwtExp) * time.Hour,
			RefreshExp: time.Duration(refreshExp) * time.Hour,
		},
		Telegram: TelegramConfig{
			BotToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
			UseWebhook: getEnv("TELEGRAM_USE_WEBHOOK", "false") == "true",
			WebhookURL: getEnv("TELEGRAM_WEBHOOK_URL", ""),
		},
		Speech: SpeechConfig{
			BaseURL: getEnv("SPEECH_BASE_URL", "https://api.openai.com/v1"),
			APIKey:  getEnv("SPEECH_API_KEY", ""),
			Model:   getEnv("SPEECH_MODEL", "whisper-1"),
			Timeout: time.Duration(speechTimeout) * time.Second,
		},
		Vision: VisionConfig{
			BaseURL: getEnv("VISION_BASE_URL", "https://api.deepseek.com/v1"),
			APIKey:  getEnv("VISION_API_KEY", ""),
			Model:   getEnv("VISION_MODEL", "deepseek-chat"),
			Timeout: time.Duration(visionTimeout) * time.Second,
		},
		Currency: CurrencyConfig{
			CBUEndpoint: getEnv("CBU_API_URL", "https://cbu.uz/uz/arkhiv-kursov-valyut/json/"),
			CacheTTL:    time.Duration(currencyTTL) * time.Second,
		},
		Scheduler: SchedulerConfig{
			ReminderInterval: time.Duration(reminderEvery) * time.Second,
			OverdueInterval:  time.Duration(overdueEvery) * time.Second,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
