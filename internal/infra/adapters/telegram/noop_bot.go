package telegram

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-homework-agent/internal/domain/ports/adapter"
)

var _ adapter.TelegramBotAdapter = (*NoopBotAdapter)(nil)

// NoopBotAdapter implements adapter.TelegramBotAdapter for local/dev testing.
// It logs messages instead of sending real Telegram messages.
type NoopBotAdapter struct {
	log *zerolog.Logger
}

func NewNoopBotAdapter(logger *zerolog.Logger) *NoopBotAdapter {
	return &NoopBotAdapter{log: logger}
}

// SendMessage logs the message and simulates a small delay.
func (b *NoopBotAdapter) SendMessage(ctx context.Context, tgID int64, text string) error {
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	b.log.Info().Int64("tg_id", tgID).Str("text", text).Msg("noop telegram send")
	return nil
}
