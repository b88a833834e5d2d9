package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends for completed submissions
const (
	BackendSheets = "sheets"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
)

// Config holds the process configuration, read from the environment
type Config struct {
	Port       string
	LogLevel   string
	SurveysDir string

	StoreBackend string
	MongoURI     string
	MongoDB      string
	SQLitePath   string

	// Google Sheets service account
	SheetID      string
	ServiceEmail string
	PrivateKey   string

	RedisAddr   string
	SnapshotTTL time.Duration

	SessionSecret string
	SubmitTimeout time.Duration
	SessionIdle   time.Duration

	CORSOrigins string
	CORSMethods string
	CORSHeaders string
}

// Load reads the environment, after loading a .env file when one exists
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Port:       getEnv("PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		SurveysDir: getEnv("SURVEYS_DIR", "surveys"),

		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendSheets)),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnv("MONGO_DB", "exhibitsurvey"),
		SQLitePath:   getEnv("SQLITE_PATH", "submissions.db"),

		SheetID:      os.Getenv("GOOGLE_SHEET_ID"),
		ServiceEmail: os.Getenv("GOOGLE_SERVICE_EMAIL"),
		// Keys pasted into env files carry literal "\n" sequences
		PrivateKey: strings.ReplaceAll(os.Getenv("GOOGLE_PRIVATE_KEY"), `\n`, "\n"),

		RedisAddr: strings.TrimPrefix(getEnv("REDIS_URI", "localhost:6379"), "redis://"),

		SessionSecret: getEnv("SESSION_SECRET", "change-me-in-production"),

		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		CORSMethods: getEnv("CORS_ALLOWED_METHODS", "GET, POST, PUT, OPTIONS"),
		CORSHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type, Authorization, Accept-Language"),
	}

	var err error
	if cfg.SnapshotTTL, err = getDuration("SNAPSHOT_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SubmitTimeout, err = getDuration("SUBMIT_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionIdle, err = getDuration("SESSION_IDLE", 30*time.Minute); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendSheets:
		if c.SheetID == "" || c.ServiceEmail == "" || c.PrivateKey == "" {
			return errors.New("sheets backend needs GOOGLE_SHEET_ID, GOOGLE_SERVICE_EMAIL and GOOGLE_PRIVATE_KEY")
		}
	case BackendMongo, BackendSQLite:
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.StoreBackend)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
