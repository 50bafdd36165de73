// Package telegram adapts the job pipeline to the Telegram Bot API.
//
// The bot long-polls for updates, offers a video/audio keyboard for every
// submitted URL, and turns keyboard presses into pipeline requests. All
// chat traffic goes through a narrow API interface so tests can run
// without a live bot token.
package telegram
