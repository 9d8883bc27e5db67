package services

import (
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct {
	sent []tgbotapi.Chattable
	err  error
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.sent = append(b.sent, c)
	return tgbotapi.Message{}, b.err
}

func TestTelegramAlerter_Alert(t *testing.T) {
	bot := &fakeBot{}
	a := newTelegramAlerter(bot, 12345)

	require.NoError(t, a.Alert("<b>hi</b>"))
	require.Len(t, bot.sent, 1)
	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(12345), msg.ChatID)
	assert.Equal(t, "<b>hi</b>", msg.Text)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
}

func TestTelegramAlerter_NoChat(t *testing.T) {
	bot := &fakeBot{}
	a := newTelegramAlerter(bot, 0)
	require.NoError(t, a.Alert("x"))
	assert.Empty(t, bot.sent)
}

func TestTelegramAlerter_SendError(t *testing.T) {
	bot := &fakeBot{err: errors.New("forbidden")}
	a := newTelegramAlerter(bot, 1)
	assert.Error(t, a.Alert("x"))
}
