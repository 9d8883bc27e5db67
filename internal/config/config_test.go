package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: memory
email:
  dry_run: true
auth:
  jwt_secret: s3cret
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 6, cfg.OTP.Length)
	assert.Equal(t, "0123456789", cfg.OTP.Alphabet)
	assert.Equal(t, 10*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, 5, cfg.OTP.MaxAttempts)
	assert.True(t, cfg.OTP.HideUnknown())
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
}

func TestLoadFile_Values(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
storage:
  driver: postgres
database:
  url: postgres://localhost/db
email:
  smtp_host: smtp.example.com
  smtp_user: bot@example.com
otp:
  length: 8
  alphabet: ABCDEF
  ttl: 5m
  hide_unknown_email: false
auth:
  jwt_secret: s3cret
  access_token_ttl: 1h
telegram:
  admin_chat_id: -100123
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "postgres://localhost/db", cfg.Database.DSN)
	assert.Equal(t, "bot@example.com", cfg.Email.FromEmail)
	assert.Equal(t, 8, cfg.OTP.Length)
	assert.Equal(t, 5*time.Minute, cfg.OTP.TTL)
	assert.False(t, cfg.OTP.HideUnknown())
	assert.Equal(t, time.Hour, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, int64(-100123), cfg.Telegram.AdminChatID)
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("EMAIL_PASSWORD", "pw")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")

	path := writeConfig(t, `
email:
  dry_run: true
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/db", cfg.Database.DSN)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "pw", cfg.Email.SMTPPassword)
	assert.Equal(t, "tok", cfg.Telegram.BotToken)
}

func TestLoadFile_Invalid(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	tests := map[string]string{
		"no dsn":              "auth:\n  jwt_secret: x\nemail:\n  dry_run: true\n",
		"no secret":           "storage:\n  driver: memory\nemail:\n  dry_run: true\n",
		"unknown driver":      "storage:\n  driver: mongo\nauth:\n  jwt_secret: x\n",
		"no smtp host":        "storage:\n  driver: memory\nauth:\n  jwt_secret: x\n",
		"bad yaml":            "server: [",
		"one-symbol alphabet": "storage:\n  driver: memory\nemail:\n  dry_run: true\nauth:\n  jwt_secret: x\notp:\n  alphabet: \"7777\"\n",
		"bcrypt cost low":     "storage:\n  driver: memory\nemail:\n  dry_run: true\nauth:\n  jwt_secret: x\n  bcrypt_cost: 2\n",
		"bcrypt cost high":    "storage:\n  driver: memory\nemail:\n  dry_run: true\nauth:\n  jwt_secret: x\n  bcrypt_cost: 40\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
