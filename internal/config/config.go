package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token   string `yaml:"token"`
	Mode    string `yaml:"mode"`    // polling | webhook (future)
	Workers int    `yaml:"workers"` // polling update workers
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"` // intake session idle TTL
}

type AIConfig struct {
	OpenAIKey       string `yaml:"openai_key"`
	GeminiKey       string `yaml:"gemini_key"`
	GeminiURL       string `yaml:"gemini_url"`
	DefaultModel    string `yaml:"default_model"`
	ConcurrentLimit int    `yaml:"concurrent_limit"` // max concurrent AI calls
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type MailConfig struct {
	Provider      string     `yaml:"provider"` // smtp | resend
	SMTP          SMTPConfig `yaml:"smtp"`
	ResendAPIKey  string     `yaml:"resend_api_key"`
	FromEmail     string     `yaml:"from_email"`
	FromName      string     `yaml:"from_name"`
	MaxConcurrent int        `yaml:"max_concurrent"` // 0 = one goroutine per recipient
}

type OutputConfig struct {
	Dir       string        `yaml:"dir"`
	Retention time.Duration `yaml:"retention"` // artifact retention; <=0 disables the sweeper
}

type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Log      LogConfig      `yaml:"log"`
	Admin    AdminConfig    `yaml:"admin"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
	Mail     MailConfig     `yaml:"mail"`
	Output   OutputConfig   `yaml:"output"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
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
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 16
	}
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = "gpt-4o-mini"
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = 15 * time.Minute
	}
	if cfg.Mail.Provider == "" {
		cfg.Mail.Provider = "smtp"
	}
	if cfg.Mail.SMTP.Port == 0 {
		cfg.Mail.SMTP.Port = 587
	}
	if cfg.Mail.FromEmail == "" {
		cfg.Mail.FromEmail = cfg.Mail.SMTP.User
	}
	if cfg.Mail.FromName == "" {
		cfg.Mail.FromName = "Homework Agent"
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "out"
	}

	// Minimal validation. Noop mode never talks to Telegram, so it runs
	// without a token.
	if cfg.Bot.Token == "" && !strings.EqualFold(cfg.Bot.Mode, "noop") {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Mail.Provider != "smtp" && cfg.Mail.Provider != "resend" {
		return nil, fmt.Errorf("mail.provider must be smtp or resend, got %q", cfg.Mail.Provider)
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
