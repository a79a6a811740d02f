package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

type Identity struct {
	ClientID     string `mapstructure:"IDP_CLIENT_ID"`
	ClientSecret string `mapstructure:"IDP_CLIENT_SECRET"`
	AuthURL      string `mapstructure:"IDP_AUTH_URL"`
	TokenURL     string `mapstructure:"IDP_TOKEN_URL"`
	RedirectURI  string `mapstructure:"IDP_REDIRECT_URI"`
}

type Storage struct {
	UploadURL string `mapstructure:"STORAGE_UPLOAD_URL"`
	Folder    string `mapstructure:"STORAGE_FOLDER"`
}

type Config struct {
	Port              string        `mapstructure:"PORT"`
	Env               string        `mapstructure:"APP_ENV"`
	APIBaseURL        string        `mapstructure:"API_BASE_URL"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	FrontendURL       string        `mapstructure:"FRONTEND_URL"`
	RedisURI          string        `mapstructure:"REDIS_URI"`
	SecretKey         string        `mapstructure:"SECRET_KEY"`
	CookieName        string        `mapstructure:"COOKIE_NAME"`
	SessionTTL        time.Duration `mapstructure:"SESSION_TTL"`
	DefaultTimeZone   string        `mapstructure:"DEFAULT_TIMEZONE"`
	UploadConcurrency int           `mapstructure:"UPLOAD_CONCURRENCY"`
	ConfirmTTL        time.Duration `mapstructure:"CONFIRM_TTL"`
	DraftIdleTTL      time.Duration `mapstructure:"DRAFT_IDLE_TTL"`
	SweepSchedule     string        `mapstructure:"SWEEP_SCHEDULE"`
	Identity          Identity      `mapstructure:",squash"`
	Storage           Storage       `mapstructure:",squash"`
}

var keys = []string{
	"PORT", "APP_ENV", "API_BASE_URL", "REQUEST_TIMEOUT", "FRONTEND_URL", "REDIS_URI",
	"SECRET_KEY", "COOKIE_NAME", "SESSION_TTL", "DEFAULT_TIMEZONE", "UPLOAD_CONCURRENCY",
	"CONFIRM_TTL", "DRAFT_IDLE_TTL", "SWEEP_SCHEDULE",
	"IDP_CLIENT_ID", "IDP_CLIENT_SECRET", "IDP_AUTH_URL", "IDP_TOKEN_URL", "IDP_REDIRECT_URI",
	"STORAGE_UPLOAD_URL", "STORAGE_FOLDER",
}

// LoadConfig reads the environment (a .env file is loaded by main beforehand).
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("API_BASE_URL", "http://localhost:8080/api")
	v.SetDefault("REQUEST_TIMEOUT", 30*time.Second)
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("REDIS_URI", "")
	v.SetDefault("SECRET_KEY", "")
	v.SetDefault("COOKIE_NAME", "postflow_session")
	v.SetDefault("SESSION_TTL", 24*time.Hour)
	v.SetDefault("DEFAULT_TIMEZONE", "UTC")
	v.SetDefault("UPLOAD_CONCURRENCY", 4)
	v.SetDefault("CONFIRM_TTL", 5*time.Minute)
	v.SetDefault("DRAFT_IDLE_TTL", 6*time.Hour)
	v.SetDefault("SWEEP_SCHEDULE", "@every 5m")
	v.SetDefault("STORAGE_UPLOAD_URL", "https://api.cloudinary.com/v1_1")
	v.SetDefault("STORAGE_FOLDER", "postflow")

	// AutomaticEnv only resolves keys viper already knows about.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	switch len(c.SecretKey) {
	case 16, 24, 32:
	default:
		return errors.New("SECRET_KEY must be 16, 24 or 32 bytes long")
	}
	if _, err := time.LoadLocation(c.DefaultTimeZone); err != nil {
		return fmt.Errorf("DEFAULT_TIMEZONE: %w", err)
	}
	if c.UploadConcurrency <= 0 {
		return errors.New("UPLOAD_CONCURRENCY must be positive")
	}
	if c.Env == "production" && c.RedisURI == "" {
		log.Println("WARNING: REDIS_URI is empty in production, notifications are kept in memory")
	}
	return nil
}
