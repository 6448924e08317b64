// Package pointcard — handlers.go обрабатывает /card и реагирует на
// изменение баллов: копит штампы и поздравляет с открытыми наградами.
package pointcard

import (
	"context"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/stamp-card/internal/common"
)

// Totals — итоги баллов пользователя.
type Totals struct {
	Today int
	Week  int
	Total int
}

// TotalsSource отдаёт итоги баллов. Реализуется profiles.Service.
type TotalsSource interface {
	CardTotals(ctx context.Context, userID int64) (Totals, error)
}

// RewardSource отдаёт награды пользователя. Реализуется rewards.Service.
type RewardSource interface {
	CardRewards(ctx context.Context, userID int64) ([]Reward, error)
}

// Handler показывает карточку штампов.
type Handler struct {
	totals  TotalsSource
	rewards RewardSource
	stamps  *StampBook
	bot     *telego.Bot
}

// NewHandler создаёт обработчик карточки.
func NewHandler(totals TotalsSource, rewards RewardSource, stamps *StampBook, bot *telego.Bot) *Handler {
	return &Handler{totals: totals, rewards: rewards, stamps: stamps, bot: bot}
}

// HandleCard — команда /card.
// Подсвечивает клетки, закрытые с прошлого просмотра, и сбрасывает счётчик штампов.
func (h *Handler) HandleCard(ctx context.Context, chatID, userID int64) {
	totals, err := h.totals.CardTotals(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка получения баллов")
		h.sendMessage(ctx, chatID, "❌ Ошибка получения карточки")
		return
	}
	rewards, err := h.rewards.CardRewards(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка получения наград")
		h.sendMessage(ctx, chatID, "❌ Ошибка получения карточки")
		return
	}

	view := h.stamps.Open(userID, totals.Total)
	h.sendMessage(ctx, chatID, RenderCard(totals, rewards, view))
}

// PointsChanged вызывается после каждой отметки или её отмены.
func (h *Handler) PointsChanged(ctx context.Context, chatID, userID int64, prevTotal, total int) {
	switch {
	case total > prevTotal:
		h.stamps.Add(userID)
	case total < prevTotal:
		h.stamps.Remove(userID)
		return
	default:
		return
	}

	rewards, err := h.rewards.CardRewards(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Не удалось проверить награды")
		return
	}
	for _, rw := range RewardsReached(prevTotal, total, rewards) {
		log.WithFields(log.Fields{
			"user_id":   userID,
			"reward_id": rw.ID,
			"points":    rw.Points,
		}).Info("Награда открыта")
		h.sendMessage(ctx, chatID, fmt.Sprintf("🎉 Награда открыта: «%s»!\nЗагляни в /card", rw.Label))
	}
}

// RenderCard собирает сообщение карточки.
func RenderCard(totals Totals, rewards []Reward, view View) string {
	state := Calc(totals.Total, rewards)

	var sb strings.Builder
	sb.WriteString("🎴 Карточка штампов\n")
	fmt.Fprintf(&sb, "Сегодня: %s · Неделя: %s · Всего: %s\n",
		common.FormatPoints(totals.Today),
		common.FormatPoints(totals.Week),
		common.FormatPoints(totals.Total),
	)
	if view.PendingStamps > 0 {
		fmt.Fprintf(&sb, "⭐ Новых: %d %s\n", view.PendingStamps, common.PluralizeStamps(view.PendingStamps))
	}
	sb.WriteString("\n")
	sb.WriteString(Render(state, NewlyFilled(view.PrevPoints, totals.Total)))

	if next := nextReward(totals.Total, rewards); next != nil {
		// награда открывается, когда закрыта вся её клетка
		left := (SquareIndex(next.Points)+1)*PointsPerSquare - totals.Total
		fmt.Fprintf(&sb, "\n\n🎁 До «%s»: %s", next.Label, common.FormatPoints(left))
	}
	if over := state.Overflow(); over > 0 {
		fmt.Fprintf(&sb, "\n➕ Сверх карточки: %d %s", over, common.Pluralize(over, "клетка", "клетки", "клеток"))
	}
	return sb.String()
}

// nextReward — ближайшая неоткрытая награда.
// Открытой считается награда, чья клетка закрыта, как в RewardsReached.
func nextReward(points int, rewards []Reward) *Reward {
	filled := FilledSquares(points)
	var next *Reward
	for i := range rewards {
		r := rewards[i]
		if SquareIndex(r.Points) < filled {
			continue
		}
		if next == nil || rewardLess(r, *next) {
			next = &r
		}
	}
	return next
}

func (h *Handler) sendMessage(ctx context.Context, chatID int64, text string) {
	if _, err := h.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
