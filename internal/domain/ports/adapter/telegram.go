package adapter

import "context"

// TelegramBotAdapter is the minimal conversation surface the core needs:
// send text to a chat. Receiving happens inside the bot adapter's polling
// loop, which calls into the application facade per update.
type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}
