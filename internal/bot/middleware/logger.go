// Package middleware содержит промежуточные обработчики для логирования,
// восстановления после паники и rate-limiting.
package middleware

import (
	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"
)

// maxLoggedText — сколько символов текста попадает в лог.
const maxLoggedText = 50

// LogMessage логирует входящее сообщение.
// Записывает: user_id, chat_id, username, текст (первые 50 символов).
func LogMessage(message *telego.Message) {
	if message == nil || message.From == nil {
		return
	}

	log.WithFields(log.Fields{
		"user_id":  message.From.ID,
		"chat_id":  message.Chat.ID,
		"username": message.From.Username,
		"text":     Truncate(message.Text, maxLoggedText),
	}).Debug("Входящее сообщение")
}

// Truncate обрезает текст до n символов (не байтов) и добавляет «...».
func Truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
