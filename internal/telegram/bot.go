package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"grabbot/internal/config"
	"grabbot/internal/fetch"
	"grabbot/internal/job"
	"grabbot/internal/logging"
	"grabbot/internal/selection"
)

const (
	greetingText     = "Hi! Send me a link and I will fetch it for you as video or audio."
	chooseFormatText = "Choose a format:"
	notALinkText     = "That does not look like a link. Send me a URL starting with http:// or https://."
)

// Runner executes one pipeline job. Satisfied by *job.Orchestrator.
type Runner interface {
	Run(ctx context.Context, req job.Request)
}

// Bot drives the Telegram update loop and translates chat events into
// pipeline requests.
type Bot struct {
	api         API
	selections  *selection.Store
	runner      Runner
	logger      *slog.Logger
	pollTimeout int

	jobs sync.WaitGroup
}

// Connect authenticates against the Bot API with the configured token.
func Connect(cfg config.Telegram) (*tgbotapi.BotAPI, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is not configured")
	}
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("authenticate bot: %w", err)
	}
	api.Debug = cfg.Debug
	return api, nil
}

// New constructs the bot around an already-authenticated API client.
func New(api API, selections *selection.Store, runner Runner, pollTimeout int, logger *slog.Logger) (*Bot, error) {
	if api == nil || selections == nil || runner == nil {
		return nil, errors.New("bot requires api, selections, and runner")
	}
	if pollTimeout <= 0 {
		pollTimeout = 30
	}
	return &Bot{
		api:         api,
		selections:  selections,
		runner:      runner,
		logger:      logging.NewComponentLogger(logger, "telegram"),
		pollTimeout: pollTimeout,
	}, nil
}

// Run long-polls for updates until ctx is cancelled or the update channel
// closes. In-flight jobs are waited for before returning.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(cfg)
	b.logger.Info("update loop started", logging.Int("poll_timeout", b.pollTimeout))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.jobs.Wait()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				b.jobs.Wait()
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(update.Message)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if msg.From == nil || msg.Text == "" {
		return
	}
	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}

	text := strings.TrimSpace(msg.Text)
	if !looksLikeURL(text) {
		b.reply(msg.Chat.ID, msg.MessageID, notALinkText)
		return
	}

	// The URL message id doubles as the selection id; the callback data
	// carries it back when a button is pressed.
	id := strconv.Itoa(msg.MessageID)
	b.selections.Register(id, text, msg.From.ID)
	b.logger.Info("url registered",
		logging.String("selection_id", id),
		logging.Int64("requester_id", msg.From.ID),
	)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎬 Video", callbackData(fetch.ModeVideo, id)),
			tgbotapi.NewInlineKeyboardButtonData("🎵 Audio", callbackData(fetch.ModeAudio, id)),
		),
	)
	prompt := tgbotapi.NewMessage(msg.Chat.ID, chooseFormatText)
	prompt.ReplyToMessageID = msg.MessageID
	prompt.ReplyMarkup = keyboard
	if _, err := b.api.Send(prompt); err != nil {
		b.logger.Error("keyboard send failed", logging.Error(err))
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "help":
		b.reply(msg.Chat.ID, 0, greetingText)
	default:
		b.reply(msg.Chat.ID, msg.MessageID, "Unknown command. Send me a link instead.")
	}
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	// Acknowledge immediately so the client stops its spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Debug("callback ack failed", logging.Error(err))
	}
	if callback.From == nil || callback.Message == nil {
		return
	}

	mode, selectionID, ok := parseCallbackData(callback.Data)
	if !ok {
		b.logger.Warn("malformed callback data", logging.String("data", callback.Data))
		return
	}

	req := job.Request{
		SelectionID: selectionID,
		Mode:        mode,
		RequesterID: callback.From.ID,
		ChatID:      callback.Message.Chat.ID,
		Status: &statusMessage{
			api:       b.api,
			chatID:    callback.Message.Chat.ID,
			messageID: callback.Message.MessageID,
		},
	}

	// One goroutine per job so a slow download never blocks the update
	// loop or other users.
	b.jobs.Add(1)
	go func() {
		defer b.jobs.Done()
		b.runner.Run(ctx, req)
	}()
}

func (b *Bot) reply(chatID int64, replyTo int, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if replyTo != 0 {
		msg.ReplyToMessageID = replyTo
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("reply failed", logging.Error(err))
	}
}

func callbackData(mode fetch.Mode, selectionID string) string {
	return string(mode) + "|" + selectionID
}

func parseCallbackData(data string) (fetch.Mode, string, bool) {
	rawMode, id, found := strings.Cut(data, "|")
	if !found || id == "" {
		return "", "", false
	}
	mode, ok := fetch.ParseMode(rawMode)
	if !ok {
		return "", "", false
	}
	return mode, id, true
}

func looksLikeURL(text string) bool {
	parsed, err := url.Parse(text)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
