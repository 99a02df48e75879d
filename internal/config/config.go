// Package config は環境変数ベースのアプリケーション設定を提供する。
package config

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// maxTokenBytes はセッショントークンの乱数バイト長の上限。
// トークンはhexエンコードで2倍の長さになり、users.tokenはVARCHAR(100)のため、
// 50バイトを超えるとカラムに収まらない。
const maxTokenBytes = 50

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Server
	ServerPort string

	// Auth
	BcryptCost int // パスワードハッシュのコスト係数
	TokenBytes int // セッショントークンの乱数バイト長

	// Validation
	// PhoneMaxLen は電話番号の最大文字数。超過は切り詰めず検証エラーとする。
	PhoneMaxLen int

	// Search
	PageSize int // 連絡先一覧の1ページあたり件数（固定）

	// Rate Limit（req/min）
	RateLimitGeneral int
	RateLimitLogin   int

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.BcryptCost = getEnvInt("BCRYPT_COST", bcrypt.DefaultCost)
	cfg.TokenBytes = getEnvInt("TOKEN_BYTES", 32)
	if cfg.TokenBytes > maxTokenBytes {
		cfg.TokenBytes = maxTokenBytes
	}
	cfg.PhoneMaxLen = getEnvInt("PHONE_MAX_LEN", 20)
	cfg.PageSize = getEnvInt("PAGE_SIZE", 10)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitLogin = getEnvInt("RATE_LIMIT_LOGIN", 10)
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
