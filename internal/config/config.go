package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Database          DatabaseConfig   `json:"database"`
	Port              int              `json:"port"`
	PublicBaseURL     string           `json:"public_base_url"`
	JWTSecret         string           `json:"jwt_secret"`
	AccessTokenSecret string           `json:"access_token_secret"`
	Share             ShareConfig      `json:"share"`
	Mail              MailConfig       `json:"mail"`
	CORSAllowlist     []string         `json:"cors_allowlist"`
	LogConfig         logger.LogConfig `json:"log_config"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

type ShareConfig struct {
	SessionTTLMinutes      int    `json:"session_ttl_minutes"`
	OTPTTLMinutes          int    `json:"otp_ttl_minutes"`
	OTPAttempts            int    `json:"otp_attempts"`
	RateLimitWindowSeconds int    `json:"rate_limit_window_seconds"`
	RateLimitBurst         int    `json:"rate_limit_burst"`
	MaxPageSize            int    `json:"max_page_size"`
	CleanupCron            string `json:"cleanup_cron"`
}

type MailConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() error {
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if cfg.Port == 0 {
		return fmt.Errorf("port is required")
	}
	if cfg.AccessTokenSecret == "" {
		return fmt.Errorf("access_token_secret is required")
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}
	if cfg.Share.SessionTTLMinutes == 0 {
		cfg.Share.SessionTTLMinutes = 60
	}
	if cfg.Share.OTPTTLMinutes == 0 {
		cfg.Share.OTPTTLMinutes = 10
	}
	if cfg.Share.OTPAttempts == 0 {
		cfg.Share.OTPAttempts = 5
	}
	if cfg.Share.RateLimitWindowSeconds == 0 {
		cfg.Share.RateLimitWindowSeconds = 60
	}
	if cfg.Share.RateLimitBurst == 0 {
		cfg.Share.RateLimitBurst = 3
	}
	if cfg.Share.MaxPageSize == 0 {
		cfg.Share.MaxPageSize = 100
	}
	if cfg.Share.CleanupCron == "" {
		cfg.Share.CleanupCron = "*/10 * * * *"
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	return nil
}
