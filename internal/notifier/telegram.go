package notifier

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// maxMessageLength is the Telegram limit for one text message.
const maxMessageLength = 4096

// Telegram sends messages to a single chat through the Bot API.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger zerolog.Logger
}

// NewTelegram authenticates the bot. client carries rate limiting and retries.
func NewTelegram(token string, chatID int64, client tgbotapi.HTTPClient) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}

	logger := log.With().Str("component", "telegram").Logger()
	logger.Info().Str("bot", bot.Self.UserName).Int64("chat_id", chatID).Msg("Telegram bot authorized")

	return &Telegram{bot: bot, chatID: chatID, logger: logger}, nil
}

// Send posts text as HTML, split into several messages when it is too long.
func (t *Telegram) Send(ctx context.Context, text string) error {
	for _, chunk := range splitMessage(text, maxMessageLength) {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg := tgbotapi.NewMessage(t.chatID, chunk)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true

		if _, err := t.bot.Send(msg); err != nil {
			return fmt.Errorf("send telegram message: %w", err)
		}
	}
	t.logger.Debug().Int("length", len(text)).Msg("Message sent")
	return nil
}
