package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Deliverer uploads finished artifacts as native audio or video messages.
type Deliverer struct {
	api API
}

// NewDeliverer returns the pipeline delivery port backed by api.
func NewDeliverer(api API) *Deliverer {
	return &Deliverer{api: api}
}

func (d *Deliverer) SendAudio(_ context.Context, chatID int64, path, caption, title string) error {
	audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(path))
	audio.Caption = caption
	audio.Title = title
	_, err := d.api.Send(audio)
	return err
}

func (d *Deliverer) SendVideo(_ context.Context, chatID int64, path, caption string) error {
	video := tgbotapi.NewVideo(chatID, tgbotapi.FilePath(path))
	video.Caption = caption
	video.SupportsStreaming = true
	_, err := d.api.Send(video)
	return err
}
