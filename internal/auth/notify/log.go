package notify

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/lectern/pkg/slogx"
)

// LogNotifier writes the invite link to the log. It is the development
// channel and the fallback when no mail server is configured, so it is the
// one place an acceptance URL is logged.
type LogNotifier struct{}

func (LogNotifier) Channel() string { return "log" }

func (LogNotifier) Notify(ctx context.Context, m Message) error {
	slogx.FromContext(ctx).Info("invite notification",
		slog.String("invite_id", m.InviteID),
		slog.String("to", m.To),
		slog.String("course", m.CourseTitle),
		slog.String("acceptance_url", m.AcceptanceURL),
		slog.Time("expires_at", m.ExpiresAt),
		slog.Bool("resend", m.Resend),
	)
	return nil
}
