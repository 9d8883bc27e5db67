package services

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// AdminAlerter pushes short notices to the admins' chat.
type AdminAlerter interface {
	Alert(text string) error
}

// telegramSender is the part of *tgbotapi.BotAPI we use.
type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type telegramAlerter struct {
	bot    telegramSender
	chatID int64
}

// NewTelegramAlerter connects to the Bot API (getMe) and returns an alerter
// that posts into chatID.
func NewTelegramAlerter(token string, chatID int64) (AdminAlerter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	log.Printf("[tg] authorized as @%s", bot.Self.UserName)
	return newTelegramAlerter(bot, chatID), nil
}

func newTelegramAlerter(bot telegramSender, chatID int64) AdminAlerter {
	return &telegramAlerter{bot: bot, chatID: chatID}
}

func (t *telegramAlerter) Alert(text string) error {
	if t.chatID == 0 {
		log.Printf("[tg][skip] admin chat id is empty")
		return nil
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

type noopAlerter struct{}

func NewNoopAlerter() AdminAlerter { return noopAlerter{} }

func (noopAlerter) Alert(string) error { return nil }
