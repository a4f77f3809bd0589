// Package config loads service configuration from YAML with env overrides.
package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Env string
	} `mapstructure:"app"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN      string
		MaxConns int32 `mapstructure:"max_conns"`
		MinConns int32 `mapstructure:"min_conns"`
	} `mapstructure:"postgres"`

	Log struct {
		Level string
	} `mapstructure:"log"`

	Auth struct {
		JWTSecret string        `mapstructure:"jwt_secret"`
		TokenTTL  time.Duration `mapstructure:"token_ttl"`
	} `mapstructure:"auth"`

	Ledger struct {
		MaxRetries   int           `mapstructure:"max_retries"`
		RetryBackoff time.Duration `mapstructure:"retry_backoff"`
		TxTimeout    time.Duration `mapstructure:"tx_timeout"`
	} `mapstructure:"ledger"`
}

// Load reads configuration from path, allowing KARDEX_* env overrides.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("KARDEX")
	v.AutomaticEnv()

	v.SetDefault("app.env", "development")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("postgres.max_conns", 25)
	v.SetDefault("postgres.min_conns", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("auth.token_ttl", 12*time.Hour)
	v.SetDefault("ledger.max_retries", 3)
	v.SetDefault("ledger.retry_backoff", 25*time.Millisecond)
	v.SetDefault("ledger.tx_timeout", 5*time.Second)

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
