package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ストレージバックエンドの選択肢。
const (
	StorageBackendFile     = "file"
	StorageBackendPostgres = "postgres"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Storage
	StorageBackend string
	DatabaseURL    string
	StorePath      string

	// OAuth
	KakaoClientID     string
	KakaoClientSecret string
	KakaoTokenURL     string
	KakaoUserInfoURL  string
	ProviderTimeout   time.Duration

	// Rate Limit
	RateLimitGeneral int
	RateLimitAuth    int

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.KakaoClientID = os.Getenv("KAKAO_CLIENT_ID")
	if cfg.KakaoClientID == "" {
		missing = append(missing, "KAKAO_CLIENT_ID")
	}

	cfg.KakaoClientSecret = os.Getenv("KAKAO_CLIENT_SECRET")
	if cfg.KakaoClientSecret == "" {
		missing = append(missing, "KAKAO_CLIENT_SECRET")
	}

	cfg.StorageBackend = getEnvString("STORAGE_BACKEND", StorageBackendFile)
	if cfg.StorageBackend != StorageBackendFile && cfg.StorageBackend != StorageBackendPostgres {
		return nil, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q",
			StorageBackendFile, StorageBackendPostgres, cfg.StorageBackend)
	}

	// DATABASE_URLはpostgresバックエンドのときだけ必須
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.StorageBackend == StorageBackendPostgres && cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.StorePath = getEnvString("STORE_PATH", "./todoman.json")
	cfg.KakaoTokenURL = getEnvString("KAKAO_TOKEN_URL", "")
	cfg.KakaoUserInfoURL = getEnvString("KAKAO_USERINFO_URL", "")
	cfg.ProviderTimeout = getEnvDuration("PROVIDER_TIMEOUT", 10*time.Second)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitAuth = getEnvInt("RATE_LIMIT_AUTH", 10)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
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
