package telegram_test

import (
	"context"
	"strconv"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"grabbot/internal/fetch"
	"grabbot/internal/job"
	"grabbot/internal/logging"
	"grabbot/internal/selection"
	"grabbot/internal/telegram"
)

type fakeAPI struct {
	mu      sync.Mutex
	sent    []tgbotapi.Chattable
	updates chan tgbotapi.Update
	once    sync.Once
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{updates: make(chan tgbotapi.Update, 8)}
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: 100 + len(f.sent)}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.once.Do(func() { close(f.updates) })
}

func (f *fakeAPI) sentMessages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.MessageConfig
	for _, c := range f.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, msg)
		}
	}
	return out
}

type fakeRunner struct {
	mu       sync.Mutex
	requests []job.Request
}

func (r *fakeRunner) Run(_ context.Context, req job.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
}

func (r *fakeRunner) all() []job.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]job.Request(nil), r.requests...)
}

func newBot(t *testing.T, api *fakeAPI, selections *selection.Store, runner *fakeRunner) *telegram.Bot {
	t.Helper()
	bot, err := telegram.New(api, selections, runner, 30, logging.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return bot
}

func urlUpdate(messageID int, userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: messageID,
			From:      &tgbotapi.User{ID: userID},
			Chat:      &tgbotapi.Chat{ID: 42},
			Text:      text,
		},
	}
}

func callbackUpdate(userID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb1",
			From: &tgbotapi.User{ID: userID},
			Data: data,
			Message: &tgbotapi.Message{
				MessageID: 200,
				Chat:      &tgbotapi.Chat{ID: 42},
			},
		},
	}
}

func runUntilDrained(t *testing.T, bot *telegram.Bot, api *fakeAPI, updates ...tgbotapi.Update) {
	t.Helper()
	for _, u := range updates {
		api.updates <- u
	}
	api.StopReceivingUpdates()
	if err := bot.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}

func TestURLMessageRegistersSelectionAndOffersKeyboard(t *testing.T) {
	api := newFakeAPI()
	selections := selection.NewStore()
	runner := &fakeRunner{}
	bot := newBot(t, api, selections, runner)

	runUntilDrained(t, bot, api, urlUpdate(7, 1, "https://example.com/watch?v=abc"))

	if selections.Len() != 1 {
		t.Fatalf("expected one pending selection, got %d", selections.Len())
	}
	msgs := api.sentMessages()
	if len(msgs) != 1 {
		t.Fatalf("expected one keyboard prompt, got %d messages", len(msgs))
	}
	keyboard, ok := msgs[0].ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		t.Fatalf("expected inline keyboard markup, got %T", msgs[0].ReplyMarkup)
	}
	if len(keyboard.InlineKeyboard) != 1 || len(keyboard.InlineKeyboard[0]) != 2 {
		t.Fatalf("expected a single row of two buttons, got %v", keyboard.InlineKeyboard)
	}
	if data := *keyboard.InlineKeyboard[0][0].CallbackData; data != "video|7" {
		t.Fatalf("unexpected video callback data %q", data)
	}
	if data := *keyboard.InlineKeyboard[0][1].CallbackData; data != "audio|7" {
		t.Fatalf("unexpected audio callback data %q", data)
	}
}

func TestNonURLMessageGetsHint(t *testing.T) {
	api := newFakeAPI()
	selections := selection.NewStore()
	runner := &fakeRunner{}
	bot := newBot(t, api, selections, runner)

	runUntilDrained(t, bot, api, urlUpdate(8, 1, "hello there"))

	if selections.Len() != 0 {
		t.Fatal("plain text must not register a selection")
	}
	msgs := api.sentMessages()
	if len(msgs) != 1 || msgs[0].ReplyMarkup != nil {
		t.Fatalf("expected a single plain hint, got %+v", msgs)
	}
}

func TestStartCommandGreets(t *testing.T) {
	api := newFakeAPI()
	bot := newBot(t, api, selection.NewStore(), &fakeRunner{})

	update := urlUpdate(9, 1, "/start")
	update.Message.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}}
	runUntilDrained(t, bot, api, update)

	msgs := api.sentMessages()
	if len(msgs) != 1 {
		t.Fatalf("expected one greeting, got %d messages", len(msgs))
	}
}

func TestCallbackSpawnsJob(t *testing.T) {
	api := newFakeAPI()
	selections := selection.NewStore()
	selections.Register("7", "https://example.com", 1)
	runner := &fakeRunner{}
	bot := newBot(t, api, selections, runner)

	runUntilDrained(t, bot, api, callbackUpdate(1, "audio|7"))

	requests := runner.all()
	if len(requests) != 1 {
		t.Fatalf("expected one job request, got %d", len(requests))
	}
	req := requests[0]
	if req.SelectionID != "7" || req.Mode != fetch.ModeAudio || req.RequesterID != 1 || req.ChatID != 42 {
		t.Fatalf("unexpected request %+v", req)
	}
	if req.Status == nil {
		t.Fatal("request must carry a status sink")
	}
}

func TestMalformedCallbackIsIgnored(t *testing.T) {
	api := newFakeAPI()
	runner := &fakeRunner{}
	bot := newBot(t, api, selection.NewStore(), runner)

	runUntilDrained(t, bot, api,
		callbackUpdate(1, "bogus"),
		callbackUpdate(1, "torrent|7"),
		callbackUpdate(1, "video|"),
	)

	if len(runner.all()) != 0 {
		t.Fatal("malformed callback data must not start a job")
	}
}

func TestStatusSinkEditsKeyboardMessage(t *testing.T) {
	api := newFakeAPI()
	selections := selection.NewStore()
	selections.Register("7", "https://example.com", 1)
	runner := &fakeRunner{}
	bot := newBot(t, api, selections, runner)

	runUntilDrained(t, bot, api, callbackUpdate(1, "video|7"))

	req := runner.all()[0]
	if err := req.Status.Edit(context.Background(), "working"); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	var edit *tgbotapi.EditMessageTextConfig
	api.mu.Lock()
	for _, c := range api.sent {
		if e, ok := c.(tgbotapi.EditMessageTextConfig); ok {
			edit = &e
		}
	}
	api.mu.Unlock()
	if edit == nil {
		t.Fatal("expected an edit against the keyboard message")
	}
	if edit.ChatID != 42 || edit.MessageID != 200 || edit.Text != "working" {
		t.Fatalf("unexpected edit %+v", edit)
	}
}

func TestSelectionIDTracksMessageID(t *testing.T) {
	api := newFakeAPI()
	selections := selection.NewStore()
	bot := newBot(t, api, selections, &fakeRunner{})

	const messageID = 345
	runUntilDrained(t, bot, api, urlUpdate(messageID, 5, "https://example.com/a"))

	if _, err := selections.Pop(strconv.Itoa(messageID), 5); err != nil {
		t.Fatalf("expected selection keyed by message id: %v", err)
	}
}
