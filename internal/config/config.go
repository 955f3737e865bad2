package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string  `yaml:"token"`
	Workers  int     `yaml:"workers"` // polling workers
	AdminIDs []int64 `yaml:"admin_ids"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port int `yaml:"port"` // ops HTTP server (health, metrics)
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AIConfig struct {
	OpenAIKey       string `yaml:"openai_key"`
	GeminiKey       string `yaml:"gemini_key"`
	GeminiURL       string `yaml:"gemini_url"`
	ChatModel       string `yaml:"chat_model"`    // persona replies
	UtilityModel    string `yaml:"utility_model"` // rewrites, emotional reactions
	ConcurrentLimit int    `yaml:"concurrent_limit"`
}

type CreditsConfig struct {
	WelcomeGrant int64 `yaml:"welcome_grant"` // credits granted on first /start
	CostPerTurn  int64 `yaml:"cost_per_turn"` // credits charged per conversation turn
}

type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Log      LogConfig      `yaml:"log"`
	Admin    AdminConfig    `yaml:"admin"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
	Credits  CreditsConfig  `yaml:"credits"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	// Credit defaults are set before unmarshal so an explicit zero in the
	// file survives: cost_per_turn 0 means free mode, welcome_grant 0 means
	// no signup credits. Only absent keys fall back.
	cfg := Config{
		Credits: CreditsConfig{
			WelcomeGrant: 50,
			CostPerTurn:  1,
		},
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Admin.Port <= 0 {
		cfg.Admin.Port = 8081
	}
	if cfg.AI.ChatModel == "" {
		cfg.AI.ChatModel = "gpt-4o"
	}
	if cfg.AI.UtilityModel == "" {
		cfg.AI.UtilityModel = "gpt-4o-mini"
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 16
	}
	if cfg.Credits.WelcomeGrant < 0 {
		cfg.Credits.WelcomeGrant = 0
	}
	if cfg.Credits.CostPerTurn < 0 {
		cfg.Credits.CostPerTurn = 0
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = time.Hour
	}

	// Minimal validation; dev mode runs without external collaborators.
	if !dev {
		if cfg.Bot.Token == "" {
			return nil, errors.New("bot.token is required")
		}
		if cfg.Database.URL == "" {
			return nil, errors.New("database.url is required")
		}
		if cfg.Redis.URL == "" {
			return nil, errors.New("redis.url is required")
		}
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
