package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts invite links to a staff chat, for classes where a
// teacher hands links out themselves.
type TelegramNotifier struct {
	chatID int64

	mu     sync.Mutex
	bot    botSender
	newBot func() (botSender, error)
}

// NewTelegramNotifier does not contact Telegram; the bot is created on the
// first send so startup does not depend on the API being reachable.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	if token == "" || chatID == 0 {
		return nil, errors.New("notify: telegram token and chat id are required")
	}
	return &TelegramNotifier{
		chatID: chatID,
		newBot: func() (botSender, error) { return tgbotapi.NewBotAPI(token) },
	}, nil
}

func (n *TelegramNotifier) Channel() string { return "telegram" }

func (n *TelegramNotifier) Notify(ctx context.Context, m Message) error {
	bot, err := n.client()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	text := fmt.Sprintf("%s\nTo: %s\n\n%s", m.Subject(), m.To, m.Body())
	if _, err := bot.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}
	return nil
}

func (n *TelegramNotifier) client() (botSender, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.bot != nil {
		return n.bot, nil
	}
	bot, err := n.newBot()
	if err != nil {
		return nil, err
	}
	n.bot = bot
	return bot, nil
}
