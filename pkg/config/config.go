package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Storage   StorageConfig
	JWT       JWTConfig
	App       AppConfig
	Scheduler SchedulerConfig

	// Outbound collaborators are populated by envconfig.
	NATS     NATSConfig
	Groq     GroqConfig
	Assembly AssemblyConfig
	Twilio   TwilioConfig
	HubSpot  HubSpotConfig
	AuxBot   AuxBotConfig
	Survey   SurveyConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
}

// JWTConfig holds the admin token configuration
type JWTConfig struct {
	AdminSecret string
	AdminExpiry time.Duration
}

// AppConfig holds business defaults
type AppConfig struct {
	Timezone string
	BotEmail string
}

// SchedulerConfig holds the polling loop configuration
type SchedulerConfig struct {
	Enabled              bool
	Interval             time.Duration
	ReminderGrace        time.Duration
	DefaultMeetingLength time.Duration
	BotStaleAfter        time.Duration
	BotLookahead         time.Duration
	BotPollBatch         int
	SurveyWindow         time.Duration
	SurveyRetention      time.Duration
	NudgeAfter           time.Duration
	ItemTimeout          time.Duration
}

// NATSConfig holds the lifecycle event bus configuration
type NATSConfig struct {
	URL           string `envconfig:"NATS_URL"`
	SubjectPrefix string `envconfig:"NATS_SUBJECT_PREFIX" default:"coachlink"`
}

// GroqConfig holds the LLM configuration
type GroqConfig struct {
	APIKey string `envconfig:"GROQ_API_KEY"`
	APIURL string `envconfig:"GROQ_API_URL" default:"https://api.groq.com"`
	Model  string `envconfig:"GROQ_MODEL" default:"llama-3.3-70b-versatile"`
}

// AssemblyConfig holds the speech-to-text configuration
type AssemblyConfig struct {
	APIKey string `envconfig:"ASSEMBLYAI_API_KEY"`
}

// TwilioConfig holds the WhatsApp messaging configuration
type TwilioConfig struct {
	AccountSID        string `envconfig:"TWILIO_ACCOUNT_SID"`
	AuthToken         string `envconfig:"TWILIO_AUTH_TOKEN"`
	WhatsAppFrom      string `envconfig:"TWILIO_WHATSAPP_FROM"`
	TemplateSID       string `envconfig:"TWILIO_TEMPLATE_SID"`
	ValidateSignature bool   `envconfig:"TWILIO_VALIDATE_SIGNATURE" default:"false"`
	APIURL            string `envconfig:"TWILIO_API_URL" default:"https://api.twilio.com"`
	// WebhookURL is the public inbound URL Twilio signs; empty uses the request URL
	WebhookURL string `envconfig:"TWILIO_WEBHOOK_URL"`
}

// HubSpotConfig holds the CRM configuration
type HubSpotConfig struct {
	AccessToken string `envconfig:"HUBSPOT_ACCESS_TOKEN"`
	APIURL      string `envconfig:"HUBSPOT_API_URL" default:"https://api.hubapi.com"`
}

// AuxBotConfig holds the transcription bot configuration
type AuxBotConfig struct {
	BaseURL string `envconfig:"AUX_BASE_URL" default:"https://coachlink360.aux-rolplay.com/api"`
}

// SurveyConfig holds the survey service configuration
type SurveyConfig struct {
	APIURL string `envconfig:"SURVEY_API_URL" default:"https://projects.aux-rolplay.com/coachlink360/api/webhook"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  getEnvAsSlice("ALLOWED_ORIGINS", "*"),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "coachlink"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Enabled:         getEnvAsBool("STORAGE_ENABLED", false),
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "coachlink-transcripts"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
		},
		JWT: JWTConfig{
			AdminSecret: getEnv("JWT_ADMIN_SECRET", "change-me-admin-secret"),
			AdminExpiry: getEnvAsDuration("JWT_ADMIN_EXPIRY", "24h"),
		},
		App: AppConfig{
			Timezone: getEnv("APP_TIMEZONE", "Asia/Kolkata"),
			BotEmail: getEnv("BOT_EMAIL", ""),
		},
		Scheduler: SchedulerConfig{
			Enabled:              getEnvAsBool("SCHEDULER_ENABLED", true),
			Interval:             getEnvAsDuration("SCHEDULER_INTERVAL", "60s"),
			ReminderGrace:        getEnvAsDuration("REMINDER_GRACE", "1m"),
			DefaultMeetingLength: getEnvAsDuration("DEFAULT_MEETING_LENGTH", "30m"),
			BotStaleAfter:        getEnvAsDuration("BOT_STALE_AFTER", "24h"),
			BotLookahead:         getEnvAsDuration("BOT_LOOKAHEAD", "1h"),
			BotPollBatch:         getEnvAsInt("BOT_POLL_BATCH", 50),
			SurveyWindow:         getEnvAsDuration("SURVEY_WINDOW", "24h"),
			SurveyRetention:      getEnvAsDuration("SURVEY_RETENTION", "720h"),
			NudgeAfter:           getEnvAsDuration("NUDGE_AFTER", "10m"),
			ItemTimeout:          getEnvAsDuration("SCHEDULER_ITEM_TIMEOUT", "45s"),
		},
	}

	for _, section := range []interface{}{
		&config.NATS, &config.Groq, &config.Assembly, &config.Twilio,
		&config.HubSpot, &config.AuxBot, &config.Survey,
	} {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE %q is invalid: %w", c.App.Timezone, err)
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("SCHEDULER_INTERVAL must be positive")
	}
	if c.Scheduler.BotPollBatch <= 0 {
		return fmt.Errorf("BOT_POLL_BATCH must be positive")
	}
	if c.IsProduction() && c.JWT.AdminSecret == "change-me-admin-secret" {
		return fmt.Errorf("JWT_ADMIN_SECRET is required in production")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// Location returns the default zone for naive timestamps
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

func getEnvAsSlice(key string, defaultValue string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultValue), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
