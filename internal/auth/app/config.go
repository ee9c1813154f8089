package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Issuer       string `env:"LECTERN_ISSUER"        envDefault:"lectern"`
	DatabaseFile string `env:"LECTERN_DATABASE_FILE" envDefault:"lectern.db"`
	PepperFile   string `env:"LECTERN_PEPPER_FILE"   envDefault:"pepper"`

	// PublicURL is the frontend base invite acceptance links point at.
	PublicURL string `env:"LECTERN_PUBLIC_URL" envDefault:"http://localhost:8080"`

	// MasterKeyPath seals invite tokens at rest. The file is created on
	// first use and must persist alongside the database: reissuing or
	// resending a pending invite needs its token back.
	MasterKeyPath string `env:"LECTERN_MASTER_KEY_PATH" envDefault:"master.key"`

	InviteTTL  time.Duration `env:"LECTERN_INVITE_TTL"  envDefault:"168h"`
	SessionTTL time.Duration `env:"LECTERN_SESSION_TTL" envDefault:"12h"`
	NumKeys    int           `env:"LECTERN_NUM_KEYS"    envDefault:"1"`

	// TeacherSignupToken gates TEACHER registration. Empty disables it.
	TeacherSignupToken string `env:"LECTERN_TEACHER_SIGNUP_TOKEN"`

	// InviteRetention is how long expired, never consumed invites are kept.
	// Zero keeps them. Once purged, their tokens verify as not_found rather
	// than expired.
	InviteRetention time.Duration `env:"LECTERN_INVITE_RETENTION" envDefault:"0"`

	Env                  string        `env:"ENV"                   envDefault:"dev"`
	LogLevel             string        `env:"LOG_LEVEL"             envDefault:"info"`
	LogFormat            string        `env:"LOG_FORMAT"            envDefault:"json"`
	Port                 int           `env:"PORT"                  envDefault:"8080"`
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`

	Notify NotifyConfig

	// OTLPEndpoint enables tracing. Empty leaves the no-op provider.
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// NotifyConfig selects the invite notification channels.
type NotifyConfig struct {
	// Channels is a comma separated list of log, smtp and telegram.
	Channels string `env:"NOTIFY_CHANNEL" envDefault:"log"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT"     envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`

	TelegramToken  string `env:"TELEGRAM_APITOKEN"`
	TelegramChatID int64  `env:"TELEGRAM_CHAT_ID"`
}

// ChannelList returns the configured channel names, lower cased.
func (c NotifyConfig) ChannelList() []string {
	var out []string
	for _, ch := range strings.Split(c.Channels, ",") {
		if ch = strings.ToLower(strings.TrimSpace(ch)); ch != "" {
			out = append(out, ch)
		}
	}
	return out
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Issuer == "" {
		return fmt.Errorf("LECTERN_ISSUER must not be empty")
	}
	if c.PublicURL == "" {
		return fmt.Errorf("LECTERN_PUBLIC_URL must not be empty")
	}
	if c.InviteTTL <= 0 {
		return fmt.Errorf("LECTERN_INVITE_TTL must be positive, got %s", c.InviteTTL)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("LECTERN_SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.InviteRetention < 0 {
		return fmt.Errorf("LECTERN_INVITE_RETENTION must not be negative, got %s", c.InviteRetention)
	}
	for _, ch := range c.Notify.ChannelList() {
		switch ch {
		case "log", "smtp", "telegram":
		default:
			return fmt.Errorf("NOTIFY_CHANNEL: unknown channel %q", ch)
		}
	}
	return nil
}
