package config

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config/config.yaml"

type StorageConfig struct {
	// postgres | memory
	Driver string `yaml:"driver"`
}

type EmailConfig struct {
	SMTPHost       string `yaml:"smtp_host"`
	SMTPPort       int    `yaml:"smtp_port"`
	SMTPUser       string `yaml:"smtp_user"`
	SMTPPassword   string `yaml:"smtp_password"`
	FromEmail      string `yaml:"from_email"`
	DryRun         bool   `yaml:"dry_run"`
	WelcomeEnabled bool   `yaml:"welcome_enabled"`
}

type OTPConfig struct {
	Length   int           `yaml:"length"`
	Alphabet string        `yaml:"alphabet"`
	TTL      time.Duration `yaml:"ttl"`
	// сколько попыток ввода на один код
	MaxAttempts int `yaml:"max_attempts"`
	// не раскрываем, зарегистрирован ли email
	HideUnknownEmail *bool `yaml:"hide_unknown_email"`
}

type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`
	BcryptCost     int           `yaml:"bcrypt_cost"`
}

type TelegramConfig struct {
	BotToken    string `yaml:"bot_token"`
	AdminChatID int64  `yaml:"admin_chat_id"`
}

type ReportConfig struct {
	FontPath string `yaml:"font_path"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Storage  StorageConfig `yaml:"storage"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Email    EmailConfig    `yaml:"email"`
	OTP      OTPConfig      `yaml:"otp"`
	Auth     AuthConfig     `yaml:"auth"`
	Telegram TelegramConfig `yaml:"telegram"`
	Report   ReportConfig   `yaml:"report"`
}

// HideUnknown reports whether OTP requests for unknown emails should
// look successful to the caller.
func (c OTPConfig) HideUnknown() bool {
	return c.HideUnknownEmail == nil || *c.HideUnknownEmail
}

// LoadConfig reads the YAML file at CONFIG_PATH (or config/config.yaml),
// applies defaults and env overrides.
func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("EMAIL_PASSWORD"); v != "" {
		c.Email.SMTPPassword = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "postgres"
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Email.FromEmail == "" {
		c.Email.FromEmail = c.Email.SMTPUser
	}
	if c.OTP.Length <= 0 {
		c.OTP.Length = 6
	}
	if c.OTP.Alphabet == "" {
		c.OTP.Alphabet = "0123456789"
	}
	if c.OTP.TTL <= 0 {
		c.OTP.TTL = 10 * time.Minute
	}
	if c.OTP.MaxAttempts <= 0 {
		c.OTP.MaxAttempts = 5
	}
	if c.Auth.AccessTokenTTL <= 0 {
		c.Auth.AccessTokenTTL = 15 * time.Minute
	}
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("config: database.url is required for postgres storage")
		}
	case "memory":
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("config: auth.jwt_secret is required")
	}
	if n := len(distinctRunes(c.OTP.Alphabet)); n < 2 {
		return fmt.Errorf("config: otp.alphabet needs at least 2 distinct symbols, got %d", n)
	}
	if cost := c.Auth.BcryptCost; cost != 0 && (cost < bcrypt.MinCost || cost > bcrypt.MaxCost) {
		return fmt.Errorf("config: auth.bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if !c.Email.DryRun && c.Email.SMTPHost == "" {
		return fmt.Errorf("config: email.smtp_host is required unless email.dry_run is set")
	}
	return nil
}

func distinctRunes(s string) map[rune]struct{} {
	set := map[rune]struct{}{}
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}
