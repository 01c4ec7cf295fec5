package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env                   string
	LogLevel              string
	DatabaseURL           string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	DocumentKey           string
	DataFile              string
	AuthSecret            string
	AccessTokenTTLMinutes int
}

// Load reads configuration from the environment. A .env or config.env file
// in the working directory is read first; environment variables win.
func Load() (Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	setDefaults(v)

	tokenTTL := v.GetInt("ACCESS_TOKEN_TTL_MINUTES")
	if tokenTTL < 1 {
		tokenTTL = 480
	}
	redisDB := v.GetInt("REDIS_DB")
	if redisDB < 0 {
		redisDB = 0
	}

	cfg := Config{
		Env:                   strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		LogLevel:              strings.TrimSpace(v.GetString("LOG_LEVEL")),
		DatabaseURL:           strings.TrimSpace(v.GetString("DATABASE_URL")),
		RedisAddr:             strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword:         v.GetString("REDIS_PASSWORD"),
		RedisDB:               redisDB,
		DocumentKey:           strings.TrimSpace(v.GetString("LEDGER_DOCUMENT_KEY")),
		DataFile:              strings.TrimSpace(v.GetString("DATA_FILE")),
		AuthSecret:            strings.TrimSpace(v.GetString("AUTH_SECRET")),
		AccessTokenTTLMinutes: tokenTTL,
	}
	if cfg.DocumentKey == "" {
		cfg.DocumentKey = "posledger"
	}

	return cfg, nil
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTLMinutes) * time.Minute
}

func (c Config) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development" || c.Env == "dev"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LEDGER_DOCUMENT_KEY", "posledger")
	v.SetDefault("ACCESS_TOKEN_TTL_MINUTES", 480)
}
