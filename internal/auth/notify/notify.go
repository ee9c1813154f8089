// Package notify delivers invite links. Delivery is best effort: failures
// are logged and counted, never returned to the invite lifecycle.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrDeliveryFailed = errors.New("notify: delivery failed")

// Message is one invite notification.
type Message struct {
	InviteID          string
	To                string
	CourseTitle       string
	CourseDescription string
	AcceptanceURL     string
	ExpiresAt         time.Time

	// Resend is set when the invite already existed.
	Resend bool
}

// Notifier is a delivery channel.
type Notifier interface {
	Channel() string
	Notify(ctx context.Context, m Message) error
}

// Subject is the subject line shared by the channels.
func (m Message) Subject() string {
	if m.Resend {
		return fmt.Sprintf("Reminder: you're invited to %s", m.CourseTitle)
	}
	return fmt.Sprintf("You're invited to %s", m.CourseTitle)
}

// Body is the plain text body shared by the channels.
func (m Message) Body() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You have been invited to join %s.\n\n", m.CourseTitle)
	if m.CourseDescription != "" {
		fmt.Fprintf(&b, "%s\n\n", m.CourseDescription)
	}
	fmt.Fprintf(&b, "Open this link to get started:\n%s\n\n", m.AcceptanceURL)
	fmt.Fprintf(&b, "The link can be used once and expires on %s.\n", m.ExpiresAt.UTC().Format("2 January 2006 15:04 MST"))
	return b.String()
}

// Multi fans a message out to several channels. It fails if any channel
// fails, after trying all of them.
type Multi []Notifier

func (m Multi) Channel() string {
	names := make([]string, len(m))
	for i, n := range m {
		names[i] = n.Channel()
	}
	return strings.Join(names, "+")
}

func (m Multi) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Channel(), err))
		}
	}
	return errors.Join(errs...)
}
