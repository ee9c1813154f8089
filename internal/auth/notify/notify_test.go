package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

var testMessage = Message{
	InviteID:          "01J9ZQ0000000000000000000A",
	To:                "ada@example.edu",
	CourseTitle:       "Compilers",
	CourseDescription: "Parsing to codegen",
	AcceptanceURL:     "https://lectern.example/login?email=ada%40example.edu&token=abc",
	ExpiresAt:         time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC),
}

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []Message
	err   error
	block chan struct{}
}

func (f *fakeNotifier) Channel() string { return "fake" }

func (f *fakeNotifier) Notify(ctx context.Context, m Message) error {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, m)
	return f.err
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func TestMessageText(t *testing.T) {
	t.Parallel()

	require.Equal(t, "You're invited to Compilers", testMessage.Subject())
	resend := testMessage
	resend.Resend = true
	require.Equal(t, "Reminder: you're invited to Compilers", resend.Subject())

	body := testMessage.Body()
	require.Contains(t, body, testMessage.AcceptanceURL)
	require.Contains(t, body, "Parsing to codegen")
	require.Contains(t, body, "9 March 2026")
}

func TestDeliver(t *testing.T) {
	t.Parallel()

	ok := &fakeNotifier{}
	require.True(t, NewDispatcher(ok, time.Second).Deliver(context.Background(), testMessage))
	require.Equal(t, 1, ok.count())

	failing := &fakeNotifier{err: ErrDeliveryFailed}
	require.False(t, NewDispatcher(failing, time.Second).Deliver(context.Background(), testMessage))
}

func TestDispatchOutlivesCaller(t *testing.T) {
	t.Parallel()

	n := &fakeNotifier{block: make(chan struct{})}
	d := NewDispatcher(n, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	d.Dispatch(ctx, testMessage)
	cancel()
	close(n.block)

	d.Stop(true, time.Second)
	require.Equal(t, 1, n.count())
}

func TestStopCancelsAfterTimeout(t *testing.T) {
	t.Parallel()

	n := &fakeNotifier{block: make(chan struct{})}
	d := NewDispatcher(n, time.Minute)
	d.Dispatch(context.Background(), testMessage)

	d.Stop(true, 10*time.Millisecond)
	d.wg.Wait()
	require.Equal(t, 0, n.count())

	// Dispatch after stop is dropped.
	d.Dispatch(context.Background(), testMessage)
	d.wg.Wait()
	require.Equal(t, 0, n.count())
}

type panicNotifier struct{}

func (panicNotifier) Channel() string { return "panic" }
func (panicNotifier) Notify(context.Context, Message) error {
	panic("boom")
}

func TestDispatchRecoversPanic(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(panicNotifier{}, time.Second)
	d.Dispatch(context.Background(), testMessage)
	d.Stop(true, time.Second)
}

func TestMulti(t *testing.T) {
	t.Parallel()

	a, b := &fakeNotifier{}, &fakeNotifier{err: errors.New("down")}
	m := Multi{a, b}
	require.Equal(t, "fake+fake", m.Channel())

	err := m.Notify(context.Background(), testMessage)
	require.ErrorContains(t, err, "down")
	require.Equal(t, 1, a.count())
	require.Equal(t, 1, b.count())
}

func TestSMTPNotifier(t *testing.T) {
	t.Parallel()

	_, err := NewSMTPNotifier(SMTPConfig{From: "lectern@example.edu"})
	require.Error(t, err)

	n, err := NewSMTPNotifier(SMTPConfig{Host: "smtp.example.edu", Port: 587, Username: "u", Password: "p", From: "lectern@example.edu"})
	require.NoError(t, err)

	var got []*mail.Msg
	n.send = func(_ context.Context, msgs ...*mail.Msg) error {
		got = append(got, msgs...)
		return nil
	}
	require.NoError(t, n.Notify(context.Background(), testMessage))
	require.Len(t, got, 1)
	require.Equal(t, []string{"<ada@example.edu>"}, got[0].GetToString())
	require.Equal(t, []string{"You're invited to Compilers"}, got[0].GetGenHeader(mail.HeaderSubject))

	n.send = func(context.Context, ...*mail.Msg) error { return errors.New("connection refused") }
	require.ErrorIs(t, n.Notify(context.Background(), testMessage), ErrDeliveryFailed)

	bad := testMessage
	bad.To = "not an address"
	require.Error(t, n.Notify(context.Background(), bad))
}

type fakeBot struct {
	sent []tgbotapi.Chattable
	err  error
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.sent = append(b.sent, c)
	return tgbotapi.Message{}, b.err
}

func TestTelegramNotifier(t *testing.T) {
	t.Parallel()

	_, err := NewTelegramNotifier("", 1)
	require.Error(t, err)

	n, err := NewTelegramNotifier("token", 42)
	require.NoError(t, err)

	bot := &fakeBot{}
	created := 0
	n.newBot = func() (botSender, error) {
		created++
		return bot, nil
	}

	require.NoError(t, n.Notify(context.Background(), testMessage))
	require.NoError(t, n.Notify(context.Background(), testMessage))
	require.Equal(t, 1, created)
	require.Len(t, bot.sent, 2)

	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	require.EqualValues(t, 42, msg.ChatID)
	require.Contains(t, msg.Text, "ada@example.edu")

	bot.err = errors.New("forbidden")
	require.ErrorIs(t, n.Notify(context.Background(), testMessage), ErrDeliveryFailed)
}
