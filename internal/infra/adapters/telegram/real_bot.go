package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-homework-agent/internal/application"
	"telegram-homework-agent/internal/config"
	"telegram-homework-agent/internal/domain/ports/adapter"
	red "telegram-homework-agent/internal/infra/redis"
)

const (
	rateLimitPerMinute = 20
	rateLimitReply     = "Rate limit exceeded. Please try again later."
)

// RealTelegramBotAdapter uses tgbotapi to poll updates and delegates to BotFacade.
type RealTelegramBotAdapter struct {
	bot         *tgbotapi.BotAPI
	facade      *application.BotFacade
	rateLimiter *red.RateLimiter
	log         *zerolog.Logger

	updateWorkers int
	cancelPolling context.CancelFunc
}

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

func NewRealTelegramBotAdapter(cfg *config.BotConfig, facade *application.BotFacade, rateLimiter *red.RateLimiter, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	return &RealTelegramBotAdapter{
		bot:           bot,
		facade:        facade,
		rateLimiter:   rateLimiter,
		log:           logger,
		updateWorkers: workers,
	}, nil
}

func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up); err != nil {
						r.log.Error().Err(err).Int("worker", id).Msg("update handling failed")
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// SendMessage implements the adapter port; the job pipeline uses it for
// completion reports.
func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, tgID int64, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(tgID, text)
	_, err := r.bot.Send(msg)
	return err
}

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start":           r.handleStartCommand,
		"help":            r.handleHelpCommand,
		"set_name":        r.handleSetNameCommand,
		"add_student":     r.handleAddStudentCommand,
		"remove_student":  r.handleRemoveStudentCommand,
		"list_students":   r.handleListStudentsCommand,
		"create_homework": r.handleCreateHomeworkCommand,
		"cancel":          r.handleCancelCommand,
	}
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.Message == nil || update.Message.From == nil {
		return nil
	}
	message := update.Message
	tgID := message.From.ID

	// Only commands are rate limited; plain text belongs to the intake
	// conversation and must flow through unthrottled.
	if key := rateLimitKey(message); key != "" && r.rateLimiter != nil {
		allowed, err := r.rateLimiter.Allow(ctx, key, rateLimitPerMinute, time.Minute)
		if err != nil {
			r.log.Warn().Err(err).Int64("tg_id", tgID).Msg("rate limiter unavailable")
		} else if !allowed {
			return r.SendMessage(ctx, message.Chat.ID, rateLimitReply)
		}
	}

	if message.IsCommand() {
		if handler, ok := r.commandRoutes()[message.Command()]; ok {
			return handler(ctx, message)
		}
		return r.SendMessage(ctx, message.Chat.ID, "Unknown command. Use /start for the command list.")
	}

	if strings.TrimSpace(message.Text) == "" {
		return nil
	}
	reply, err := r.facade.HandleText(ctx, tgID, fullName(message.From), message.Text)
	if err != nil {
		r.log.Error().Err(err).Int64("tg_id", tgID).Msg("text handling failed")
		return r.SendMessage(ctx, message.Chat.ID, "Something went wrong. Please try again.")
	}
	if reply == "" {
		return nil
	}
	return r.SendMessage(ctx, message.Chat.ID, reply)
}

func (r *RealTelegramBotAdapter) handleStartCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleStart(ctx, message.From.ID, fullName(message.From))
	if err != nil {
		r.log.Error().Err(err).Int64("tg_id", message.From.ID).Msg("start failed")
		return r.SendMessage(ctx, message.Chat.ID, "Failed to initialize your account. Please try again.")
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleHelpCommand(ctx context.Context, message *tgbotapi.Message) error {
	return r.SendMessage(ctx, message.Chat.ID, r.facade.HandleHelp())
}

func (r *RealTelegramBotAdapter) handleSetNameCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleSetName(ctx, message.From.ID, message.CommandArguments())
	if err != nil {
		r.log.Error().Err(err).Int64("tg_id", message.From.ID).Msg("set_name failed")
		text = "Failed to update your name."
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleAddStudentCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleAddStudent(ctx, message.From.ID, message.CommandArguments())
	if err != nil {
		r.log.Error().Err(err).Int64("tg_id", message.From.ID).Msg("add_student failed")
		text = "Failed to add the student."
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleRemoveStudentCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleRemoveStudent(ctx, message.From.ID, message.CommandArguments())
	if err != nil {
		r.log.Error().Err(err).Int64("tg_id", message.From.ID).Msg("remove_student failed")
		text = "Failed to remove the student."
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleListStudentsCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleListStudents(ctx, message.From.ID)
	if err != nil {
		r.log.Error().Err(err).Int64("tg_id", message.From.ID).Msg("list_students failed")
		text = "Failed to list your students."
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleCreateHomeworkCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleCreateHomework(ctx, message.From.ID, fullName(message.From))
	if err != nil {
		r.log.Error().Err(err).Int64("tg_id", message.From.ID).Msg("create_homework failed")
		text = "Failed to start homework creation."
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleCancelCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleCancel(ctx, message.From.ID)
	if err != nil {
		r.log.Error().Err(err).Int64("tg_id", message.From.ID).Msg("cancel failed")
		text = "Failed to cancel."
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

// rateLimitKey returns the limiter key for an incoming message, or "" when
// the message is not subject to rate limiting (plain intake text).
func rateLimitKey(message *tgbotapi.Message) string {
	if !message.IsCommand() {
		return ""
	}
	return red.UserCommandKey(message.From.ID, "/"+message.Command())
}

func fullName(u *tgbotapi.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.UserName
	}
	return name
}
