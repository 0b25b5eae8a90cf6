package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string   `yaml:"env" env:"ENV" env-default:"local"`
	Postgres Postgres `yaml:"postgres"`
	Server   Server   `yaml:"server"`
	Redis    Redis    `yaml:"redis"`
	SMTP     SMTP     `yaml:"smtp"`
	LeetCode LeetCode `yaml:"leetcode"`
	Worker   Worker   `yaml:"worker"`
}

type Postgres struct {
	Username        string        `env:"POSTGRES_USER" env-required:"true"`
	Password        string        `env:"POSTGRES_PASSWORD" env-required:"true"`
	Host            string        `yaml:"host" env-default:"localhost"`
	Port            string        `env:"POSTGRES_PORT" env-default:"5432"`
	Database        string        `env:"POSTGRES_DB" env-required:"true"`
	MaxOpenConns    int           `yaml:"max_open_conns" env-default:"50"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env-default:"10"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env-default:"5m"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" env-default:"1m"`
}

type Server struct {
	Host    string        `yaml:"host" env-default:"localhost"`
	Port    string        `yaml:"port" env-default:"8080"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

// Redis backs the asynq task queue carrying the periodic sweeps and the
// outbound reminder emails.
type Redis struct {
	Addr        string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Concurrency int    `yaml:"concurrency" env-default:"10"`
}

type SMTP struct {
	Host        string        `yaml:"host" env:"SMTP_HOST"`
	Port        int           `yaml:"port" env:"SMTP_PORT" env-default:"465"`
	Username    string        `env:"SMTP_USERNAME"`
	Password    string        `env:"SMTP_PASSWORD"`
	FromName    string        `yaml:"from_name" env-default:"LeetCode Review"`
	FromAddress string        `yaml:"from_address" env:"SMTP_FROM_ADDRESS"`
	Timeout     time.Duration `yaml:"timeout" env-default:"15s"`
}

type LeetCode struct {
	BaseURL    string        `yaml:"base_url" env-default:"https://leetcode.com/api"`
	GraphQLURL string        `yaml:"graphql_url" env-default:"https://leetcode.com/graphql"`
	Timeout    time.Duration `yaml:"timeout" env-default:"10s"`
}

// Worker bounds the per-user work inside one sweep tick so a stuck
// notification cannot stall the whole pass.
type Worker struct {
	PerUserTimeout time.Duration `yaml:"per_user_timeout" env-default:"10s"`
}

func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		return nil, errors.New("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file does not exist: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	return &cfg, nil
}
