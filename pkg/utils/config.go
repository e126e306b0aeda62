package utils

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	OTP      OTPConfig
	Notifier NotifierConfig
	Redis    RedisConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Debug       bool
	LogPath     string
	BcryptCost  int
	CORSOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type SessionConfig struct {
	ExpiryHours int
}

type OTPConfig struct {
	ExpiryMinutes  int
	JanitorMinutes int
}

type NotifierConfig struct {
	Driver     string
	Workers    int
	MaxRetries uint64
}

type RedisConfig struct {
	Addr     string
	Password string
	Queue    string
}

// SessionTTL returns how long an issued bearer token stays valid.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.ExpiryHours) * time.Hour
}

// OTPTTL returns the lifetime of a freshly minted one-time code.
func (c *Config) OTPTTL() time.Duration {
	return time.Duration(c.OTP.ExpiryMinutes) * time.Minute
}

// LoadConfig reads .env (optional) and then the process environment.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "first-aid-backend")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("SESSION_EXPIRY_HOURS", 24)
	v.SetDefault("OTP_EXPIRY_MINUTES", 5)
	v.SetDefault("OTP_JANITOR_MINUTES", 0)
	v.SetDefault("NOTIFIER_DRIVER", "log")
	v.SetDefault("NOTIFIER_WORKERS", 16)
	v.SetDefault("NOTIFIER_MAX_RETRIES", 3)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_QUEUE", "sms:otp")

	if err := v.ReadInConfig(); err != nil {
		// running from plain environment variables is fine
		var pathErr *fs.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Port:        v.GetString("PORT"),
			Debug:       v.GetBool("DEBUG"),
			LogPath:     v.GetString("LOG_PATH"),
			BcryptCost:  v.GetInt("BCRYPT_COST"),
			CORSOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Session: SessionConfig{
			ExpiryHours: v.GetInt("SESSION_EXPIRY_HOURS"),
		},
		OTP: OTPConfig{
			ExpiryMinutes:  v.GetInt("OTP_EXPIRY_MINUTES"),
			JanitorMinutes: v.GetInt("OTP_JANITOR_MINUTES"),
		},
		Notifier: NotifierConfig{
			Driver:     strings.ToLower(v.GetString("NOTIFIER_DRIVER")),
			Workers:    v.GetInt("NOTIFIER_WORKERS"),
			MaxRetries: v.GetUint64("NOTIFIER_MAX_RETRIES"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			Queue:    v.GetString("REDIS_QUEUE"),
		},
	}

	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
