package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/lectern/internal/auth/notify"
)

// BuildNotifier assembles the configured channels. smtp without a host
// falls back to the log channel so invite links are never silently lost.
func BuildNotifier(cfg NotifyConfig, logger *slog.Logger) (notify.Notifier, error) {
	var channels notify.Multi
	seen := map[string]bool{}

	add := func(n notify.Notifier) {
		if seen[n.Channel()] {
			return
		}
		seen[n.Channel()] = true
		channels = append(channels, n)
	}

	for _, ch := range cfg.ChannelList() {
		switch ch {
		case "log":
			add(notify.LogNotifier{})

		case "smtp":
			if cfg.SMTPHost == "" {
				logger.Warn("SMTP_HOST not set, invite links will be logged instead of mailed")
				add(notify.LogNotifier{})
				continue
			}
			n, err := notify.NewSMTPNotifier(notify.SMTPConfig{
				Host:     cfg.SMTPHost,
				Port:     cfg.SMTPPort,
				Username: cfg.SMTPUser,
				Password: cfg.SMTPPassword,
				From:     cfg.SMTPFrom,
			})
			if err != nil {
				return nil, err
			}
			add(n)

		case "telegram":
			n, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
			if err != nil {
				return nil, err
			}
			add(n)

		default:
			return nil, fmt.Errorf("unknown notify channel %q", ch)
		}
	}

	switch len(channels) {
	case 0:
		return notify.LogNotifier{}, nil
	case 1:
		return channels[0], nil
	}
	return channels, nil
}
