// Package filters решает, какие сообщения бот обрабатывает.
package filters

import (
	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"
)

const chatTypePrivate = "private"

// ChatFilter пропускает только личные сообщения от пользователей.
// Карточка и задачи личные, поэтому в группах бот молчит.
type ChatFilter struct{}

// NewChatFilter создаёт фильтр.
func NewChatFilter() *ChatFilter {
	return &ChatFilter{}
}

// CheckAccess сообщает, нужно ли обрабатывать сообщение.
func (f *ChatFilter) CheckAccess(message *telego.Message) bool {
	if message == nil {
		log.WithField("component", "ChatFilter").Warn("nil message")
		return false
	}
	if message.From == nil {
		log.WithFields(log.Fields{
			"component": "ChatFilter",
			"chat_id":   message.Chat.ID,
			"chat_type": message.Chat.Type,
		}).Warn("nil message.From (service/channel message?)")
		return false
	}

	logger := log.WithFields(log.Fields{
		"component": "ChatFilter",
		"chat_id":   message.Chat.ID,
		"chat_type": message.Chat.Type,
		"user_id":   message.From.ID,
	})

	if message.From.IsBot {
		logger.Debug("deny: bot")
		return false
	}
	if message.Chat.Type != chatTypePrivate {
		logger.Debug("deny: not private")
		return false
	}

	logger.Debug("allow: private")
	return true
}
