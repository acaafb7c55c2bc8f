package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Token
	JWTSecret    string
	JWTAlgorithm string
	JWTAudience  string
	JWTLeeway    time.Duration

	// Admin gate
	AdminEmails         []string
	SessionCheckTimeout time.Duration
	PendingRefresh      time.Duration
	LoginPath           string
	HomePath            string

	// Rate Limit
	RateLimitGeneral    int
	RateLimitFundSubmit int

	// Logging
	LogLevel string

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
// JWT_SECRETにはデフォルト値を持たせない。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	cfg.AdminEmails = splitList(os.Getenv("ADMIN_EMAILS"))
	if len(cfg.AdminEmails) == 0 {
		missing = append(missing, "ADMIN_EMAILS")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.JWTAlgorithm = getEnvString("JWT_ALGORITHM", "HS256")
	cfg.JWTAudience = getEnvString("JWT_AUDIENCE", "")
	cfg.JWTLeeway = getEnvDuration("JWT_LEEWAY", 0)
	cfg.SessionCheckTimeout = getEnvDuration("SESSION_CHECK_TIMEOUT", 5*time.Second)
	cfg.PendingRefresh = getEnvDuration("PENDING_REFRESH_INTERVAL", 2*time.Second)
	cfg.LoginPath = getEnvString("LOGIN_PATH", "/login")
	cfg.HomePath = getEnvString("HOME_PATH", "/")
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitFundSubmit = getEnvInt("RATE_LIMIT_FUND_SUBMIT", 10)
	cfg.LogLevel = strings.ToLower(getEnvString("LOG_LEVEL", "info"))
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	if cfg.SessionCheckTimeout <= 0 {
		return nil, fmt.Errorf("SESSION_CHECK_TIMEOUT must be positive: %s", cfg.SessionCheckTimeout)
	}

	return cfg, nil
}

// splitList はカンマ区切りの値を分割する。前後の空白は除去するが大文字小文字は変えない。
func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
