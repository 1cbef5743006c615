package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds process settings read from the environment
type Config struct {
	Port           string
	Environment    string
	UseMemoryStore bool

	DB     DBConfig
	Redis  RedisConfig
	Twilio TwilioConfig

	// PolicyFile is an optional YAML/JSON scoring policy
	PolicyFile string
}

type DBConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     string

	// InstanceConnectionName selects the Cloud SQL unix socket
	InstanceConnectionName string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// Enabled reports whether a Redis host was configured
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

type TwilioConfig struct {
	AccountSID   string
	AuthToken    string
	WhatsAppFrom string
}

// Configured reports whether all Twilio credentials are present
func (t TwilioConfig) Configured() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.WhatsAppFrom != ""
}

// LoadEnv reads .env files for local development. On Cloud Run the
// environment is set by the platform and no file is read.
func LoadEnv() {
	if os.Getenv("INSTANCE_CONNECTION_NAME") != "" {
		return
	}
	if err := godotenv.Load(".env"); err != nil {
		if err := godotenv.Load("environments/.env.development"); err != nil {
			log.Println("⚠️  No .env file found - checking environment variables")
		}
	}
}

// FromEnv builds a Config from the current environment
func FromEnv() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		UseMemoryStore: strings.EqualFold(os.Getenv("USE_MEMORY_STORE"), "true"),
		DB: DBConfig{
			User:                   getEnv("DB_USER", "postgres"),
			Password:               os.Getenv("DB_PASS"),
			Name:                   getEnv("DB_NAME", "carrier_engine"),
			Host:                   getEnv("DB_HOST", "localhost"),
			Port:                   getEnv("DB_PORT", "5432"),
			InstanceConnectionName: os.Getenv("INSTANCE_CONNECTION_NAME"),
		},
		Redis: RedisConfig{
			Host:     strings.TrimSpace(os.Getenv("REDIS_HOST")),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		},
		Twilio: TwilioConfig{
			AccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
			WhatsAppFrom: os.Getenv("TWILIO_WHATSAPP_FROM"),
		},
		PolicyFile: os.Getenv("SCORING_POLICY_FILE"),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
