package testsupport

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ChatAPI is an in-memory Bot API double. It records every outgoing
// request and feeds updates from a buffered channel.
type ChatAPI struct {
	mu      sync.Mutex
	sent    []tgbotapi.Chattable
	updates chan tgbotapi.Update
	once    sync.Once
}

// NewChatAPI returns a chat API double with room for a few updates.
func NewChatAPI() *ChatAPI {
	return &ChatAPI{updates: make(chan tgbotapi.Update, 16)}
}

func (c *ChatAPI) Send(chattable tgbotapi.Chattable) (tgbotapi.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, chattable)
	return tgbotapi.Message{MessageID: len(c.sent)}, nil
}

func (c *ChatAPI) Request(chattable tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, chattable)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (c *ChatAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return c.updates
}

// StopReceivingUpdates closes the update channel, ending the bot's loop.
func (c *ChatAPI) StopReceivingUpdates() {
	c.once.Do(func() { close(c.updates) })
}

// Push queues an update for the bot to consume.
func (c *ChatAPI) Push(update tgbotapi.Update) {
	c.updates <- update
}

// Sent returns a copy of everything sent so far.
func (c *ChatAPI) Sent() []tgbotapi.Chattable {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]tgbotapi.Chattable(nil), c.sent...)
}
