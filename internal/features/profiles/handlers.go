// Package profiles — handlers.go обрабатывает команды /me и /top.
package profiles

import (
	"context"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/stamp-card/internal/common"
)

// Handler обрабатывает команды профиля.
type Handler struct {
	service *Service
	bot     *telego.Bot
}

// NewHandler создаёт обработчик профиля.
func NewHandler(service *Service, bot *telego.Bot) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleMe — команда /me.
func (h *Handler) HandleMe(ctx context.Context, chatID, userID int64) {
	p, err := h.service.Get(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка получения профиля")
		h.sendMessage(ctx, chatID, "❌ Ошибка получения профиля")
		return
	}
	h.sendMessage(ctx, chatID, RenderProfile(p))
}

// HandleTop — команда /top.
func (h *Handler) HandleTop(ctx context.Context, chatID int64) {
	top, err := h.service.Ranking(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка получения рейтинга")
		h.sendMessage(ctx, chatID, "❌ Ошибка получения рейтинга")
		return
	}
	h.sendMessage(ctx, chatID, RenderRanking(top))
}

// RenderProfile показывает итоги баллов.
//
//	👤 Аня
//	Сегодня: 30 баллов
//	За неделю: 120 баллов
//	Всего: 1 250 баллов
func RenderProfile(p *Profile) string {
	return fmt.Sprintf("👤 %s\nСегодня: %s\nЗа неделю: %s\nВсего: %s",
		p.DisplayName,
		common.FormatPoints(p.PointsToday),
		common.FormatPoints(p.PointsThisWeek),
		common.FormatPoints(p.PointsTotal),
	)
}

// RenderRanking показывает рейтинг по баллам за всё время.
func RenderRanking(top []*Profile) string {
	if len(top) == 0 {
		return "🏆 Рейтинг пока пуст"
	}
	var sb strings.Builder
	sb.WriteString("🏆 Рейтинг:")
	for i, p := range top {
		fmt.Fprintf(&sb, "\n%d. %s · %s", i+1, p.DisplayName, common.FormatPoints(p.PointsTotal))
	}
	return sb.String()
}

func (h *Handler) sendMessage(ctx context.Context, chatID int64, text string) {
	if _, err := h.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
