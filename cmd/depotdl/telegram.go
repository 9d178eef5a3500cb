package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-telegram/bot"
)

// initTelegram wires up optional completion notifications. Any failure
// here is logged and the download proceeds without a bot.
func (app *application) initTelegram() {
	if app.config.TelegramChatID == 0 {
		return
	}

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		app.LogError("telegram", errors.New("telegram_chat_id is set but TELEGRAM_BOT_TOKEN is empty"))
		return
	}

	b, err := bot.New(token)
	if err != nil {
		app.LogError("telegram", fmt.Errorf("create bot: %w", err))
		return
	}
	app.telegramBot = b
}

func (app *application) notifyTelegram(ctx context.Context, text string) {
	if app.telegramBot == nil {
		return
	}
	if _, err := app.telegramBot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: app.config.TelegramChatID,
		Text:   text,
	}); err != nil {
		app.LogError("telegram", err)
	}
}
