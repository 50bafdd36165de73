package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// statusMessage is the single chat message a running job edits in place.
// It is the message that carried the format keyboard; the first edit
// replaces the keyboard with status text.
type statusMessage struct {
	api       API
	chatID    int64
	messageID int
}

func (s *statusMessage) Edit(_ context.Context, text string) error {
	_, err := s.api.Send(tgbotapi.NewEditMessageText(s.chatID, s.messageID, text))
	return err
}

func (s *statusMessage) Delete(_ context.Context) error {
	_, err := s.api.Request(tgbotapi.NewDeleteMessage(s.chatID, s.messageID))
	return err
}
