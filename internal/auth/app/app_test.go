package app

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aussiebroadwan/lectern/internal/auth/notify"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("NOTIFY_CHANNEL", "log")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "lectern", cfg.Issuer)
	require.Equal(t, "http://localhost:8080", cfg.PublicURL)
	require.Equal(t, 7*24*time.Hour, cfg.InviteTTL)
	require.Equal(t, 12*time.Hour, cfg.SessionTTL)
	require.Equal(t, time.Duration(0), cfg.InviteRetention)
	require.Equal(t, "master.key", cfg.MasterKeyPath)
	require.Equal(t, 587, cfg.Notify.SMTPPort)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("LECTERN_PUBLIC_URL", "https://learn.example.edu")
	t.Setenv("LECTERN_INVITE_TTL", "48h")
	t.Setenv("NOTIFY_CHANNEL", "log, SMTP")
	t.Setenv("SMTP_HOST", "mail.example.edu")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "https://learn.example.edu", cfg.PublicURL)
	require.Equal(t, 48*time.Hour, cfg.InviteTTL)
	require.Equal(t, []string{"log", "smtp"}, cfg.Notify.ChannelList())
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"zero invite ttl", "LECTERN_INVITE_TTL", "0s"},
		{"negative retention", "LECTERN_INVITE_RETENTION", "-1h"},
		{"unknown channel", "NOTIFY_CHANNEL", "carrier-pigeon"},
		{"bad duration", "LECTERN_SESSION_TTL", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}

func TestBuildNotifier(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("default is log", func(t *testing.T) {
		n, err := BuildNotifier(NotifyConfig{}, logger)
		require.NoError(t, err)
		require.Equal(t, "log", n.Channel())
	})

	t.Run("smtp without host falls back to log", func(t *testing.T) {
		n, err := BuildNotifier(NotifyConfig{Channels: "smtp"}, logger)
		require.NoError(t, err)
		require.Equal(t, "log", n.Channel())
	})

	t.Run("log fallback is not duplicated", func(t *testing.T) {
		n, err := BuildNotifier(NotifyConfig{Channels: "log,smtp"}, logger)
		require.NoError(t, err)
		require.Equal(t, "log", n.Channel())
	})

	t.Run("smtp and telegram fan out", func(t *testing.T) {
		n, err := BuildNotifier(NotifyConfig{
			Channels:       "smtp,telegram",
			SMTPHost:       "mail.example.edu",
			SMTPPort:       587,
			SMTPFrom:       "noreply@example.edu",
			TelegramToken:  "123:abc",
			TelegramChatID: 42,
		}, logger)
		require.NoError(t, err)
		require.IsType(t, notify.Multi{}, n)
		require.Equal(t, "smtp+telegram", n.Channel())
	})

	t.Run("telegram needs a chat", func(t *testing.T) {
		_, err := BuildNotifier(NotifyConfig{Channels: "telegram", TelegramToken: "123:abc"}, logger)
		require.Error(t, err)
	})
}
