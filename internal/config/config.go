package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Lifecycle LifecycleConfig
	Scheduler SchedulerConfig
	Nats      NatsConfig
	Redis     RedisConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	JobLogFilePath     string
	CorsAllowedOrigins string
	Timezone           string
}

type DatabaseConfig struct {
	Connection   string
	MaxOpenConns int
	MaxIdleConns int
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AuthConfig struct {
	JwtSecret string
	TokenTTL  time.Duration
}

type StorageConfig struct {
	UploadDir      string
	MaxUploadBytes int64
}

type LifecycleConfig struct {
	DefaultDeadlineDays int
	WarningLeadDays     []int
}

type SchedulerConfig struct {
	Enabled             bool
	AutoCancelSpec      string
	WarningSpec         string
	UrgentWarningSpec   string
	DispatchSpec        string
	LockTTL             time.Duration
	DispatchBatchSize   int
	DispatchMaxAttempts int
}

type NatsConfig struct {
	URL     string
	Enabled bool
}

type RedisConfig struct {
	URL     string
	Enabled bool
}

type TelemetryConfig struct {
	Enabled     bool
	ServiceName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			JobLogFilePath:     getEnv("JOB_LOG_FILE_PATH", "logs/jobs.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			Timezone:           getEnv("APP_TIMEZONE", "Asia/Manila"),
		},
		Database: DatabaseConfig{
			Connection:   getEnv("DB_CONNECTION_STRING", ""),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "NCIP Portal"),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getEnvAsDuration("JWT_TTL", 24*time.Hour),
		},
		Storage: StorageConfig{
			UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
			MaxUploadBytes: int64(getEnvAsInt("MAX_UPLOAD_MB", 5)) << 20,
		},
		Lifecycle: LifecycleConfig{
			DefaultDeadlineDays: getEnvAsInt("DEFAULT_DEADLINE_DAYS", 30),
			WarningLeadDays:     getEnvAsIntSlice("WARNING_LEAD_DAYS", []int{7, 3, 1}),
		},
		Scheduler: SchedulerConfig{
			Enabled:             getEnvAsBool("SCHEDULER_ENABLED", true),
			AutoCancelSpec:      getEnv("CRON_AUTO_CANCEL", "0 0 * * *"),
			WarningSpec:         getEnv("CRON_DEADLINE_WARNINGS", "0 9 * * *"),
			UrgentWarningSpec:   getEnv("CRON_URGENT_WARNINGS", "0 * * * *"),
			DispatchSpec:        getEnv("CRON_DISPATCH_NOTIFICATIONS", "*/1 * * * *"),
			LockTTL:             getEnvAsDuration("SCHEDULER_LOCK_TTL", 10*time.Minute),
			DispatchBatchSize:   getEnvAsInt("DISPATCH_BATCH_SIZE", 100),
			DispatchMaxAttempts: getEnvAsInt("DISPATCH_MAX_ATTEMPTS", 5),
		},
		Nats: NatsConfig{
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
			Enabled: getEnvAsBool("NATS_ENABLED", true),
		},
		Redis: RedisConfig{
			URL:     getEnv("REDIS_URL", "redis://localhost:6379"),
			Enabled: getEnvAsBool("REDIS_ENABLED", true),
		},
		Telemetry: TelemetryConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "ncip-portal"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsIntSlice reads a comma separated list such as "7,3,1".
func getEnvAsIntSlice(key string, fallback []int) []int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	var out []int
	for _, part := range strings.Split(strValue, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return fallback
		}
		out = append(out, v)
	}
	return out
}
