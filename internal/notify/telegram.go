package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramAlerter sends booking alerts to the salon's admin chats.
type TelegramAlerter struct {
	bot     *tgbotapi.BotAPI
	chatIDs []int64
}

// NewTelegramAlerter authorizes the bot and records the target chats.
func NewTelegramAlerter(token string, chatIDs []int64) (*TelegramAlerter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramAlerter{bot: bot, chatIDs: chatIDs}, nil
}

// Alert broadcasts a text message to every admin chat. Delivery to
// each chat is independent; the first error is reported after all
// sends were attempted.
func (a *TelegramAlerter) Alert(ctx context.Context, text string) error {
	var firstErr error
	for _, id := range a.chatIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := a.bot.Send(tgbotapi.NewMessage(id, text)); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("alert chat %d: %w", id, err)
		}
	}
	return firstErr
}
