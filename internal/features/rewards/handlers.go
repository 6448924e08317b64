// Package rewards — handlers.go обрабатывает команды:
// /rewards (список), /reward (добавить или изменить), /unreward (удалить).
package rewards

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/stamp-card/internal/common"
	"serotonyl.ru/stamp-card/internal/features/pointcard"
)

const rewardUsage = "Формат:\n" +
	"  /reward <баллы> <название> — новая награда\n" +
	"  /reward #<номер> <баллы> [название] — изменить\n" +
	"  /unreward <номер> — удалить"

// Command — разобранные аргументы /reward.
type Command struct {
	Number int // 0 — новая награда
	Points int
	Label  string
}

// ParseCommand разбирает аргументы /reward.
func ParseCommand(args []string) (Command, error) {
	var cmd Command
	if len(args) > 0 && strings.HasPrefix(args[0], "#") {
		n, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
		if err != nil || n < 1 {
			return Command{}, common.ErrUsage
		}
		cmd.Number = n
		args = args[1:]
	}
	if len(args) == 0 {
		return Command{}, common.ErrUsage
	}

	points, err := strconv.Atoi(args[0])
	if err != nil {
		return Command{}, common.ErrInvalidPoints
	}
	cmd.Points = points
	cmd.Label = strings.Join(args[1:], " ")

	if cmd.Number == 0 && strings.TrimSpace(cmd.Label) == "" {
		return Command{}, common.ErrEmptyLabel
	}
	return cmd, nil
}

// Handler обрабатывает команды наград.
type Handler struct {
	service *Service
	bot     *telego.Bot
}

// NewHandler создаёт обработчик наград.
func NewHandler(service *Service, bot *telego.Bot) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleList — команда /rewards.
//
// Формат ответа:
//
//	🎁 Награды:
//	1. Кофе · 100 баллов (клетка 4)
func (h *Handler) HandleList(ctx context.Context, chatID, userID int64) {
	list, err := h.service.List(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка получения наград")
		h.sendMessage(ctx, chatID, "❌ Ошибка получения наград")
		return
	}
	h.sendMessage(ctx, chatID, RenderList(list))
}

// RenderList показывает награды с номерами клеток карточки.
func RenderList(list []*Reward) string {
	if len(list) == 0 {
		return "🎁 Наград пока нет.\n" + rewardUsage
	}
	var sb strings.Builder
	sb.WriteString("🎁 Награды:")
	for i, rw := range list {
		fmt.Fprintf(&sb, "\n%d. %s · %s (клетка %d)",
			i+1, rw.Label, common.FormatPoints(rw.Points), pointcard.SquareIndex(rw.Points)+1)
	}
	return sb.String()
}

// HandleReward — команда /reward.
func (h *Handler) HandleReward(ctx context.Context, chatID, userID int64, args []string) {
	cmd, err := ParseCommand(args)
	if errors.Is(err, common.ErrUsage) {
		h.sendMessage(ctx, chatID, rewardUsage)
		return
	}
	if err != nil {
		h.replyError(ctx, chatID, err, "Ошибка разбора команды")
		return
	}

	if cmd.Number == 0 {
		rw, err := h.service.Add(ctx, userID, cmd.Label, cmd.Points)
		if err != nil {
			h.replyError(ctx, chatID, err, "Ошибка создания награды")
			return
		}
		h.sendMessage(ctx, chatID, fmt.Sprintf("🎁 Награда «%s» на %s", rw.Label, common.FormatPoints(rw.Points)))
		return
	}

	current, err := h.service.ByNumber(ctx, userID, cmd.Number)
	if err != nil {
		h.replyError(ctx, chatID, err, "Ошибка получения награды")
		return
	}
	rw, err := h.service.Edit(ctx, current, cmd.Label, cmd.Points)
	if err != nil {
		h.replyError(ctx, chatID, err, "Ошибка изменения награды")
		return
	}
	h.sendMessage(ctx, chatID, fmt.Sprintf("✏️ Награда «%s» теперь на %s", rw.Label, common.FormatPoints(rw.Points)))
}

// HandleRemove — команда /unreward <номер>.
func (h *Handler) HandleRemove(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) == 0 {
		h.sendMessage(ctx, chatID, rewardUsage)
		return
	}
	n, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
	if err != nil || n < 1 {
		h.sendMessage(ctx, chatID, rewardUsage)
		return
	}

	rw, err := h.service.ByNumber(ctx, userID, n)
	if err != nil {
		h.replyError(ctx, chatID, err, "Ошибка получения награды")
		return
	}
	if err := h.service.Delete(ctx, userID, rw.ID); err != nil {
		h.replyError(ctx, chatID, err, "Ошибка удаления награды")
		return
	}
	h.sendMessage(ctx, chatID, fmt.Sprintf("🗑 Награда «%s» удалена", rw.Label))
}

func (h *Handler) replyError(ctx context.Context, chatID int64, err error, fallback string) {
	text, known := common.UserMessage(err, fallback)
	if !known {
		log.WithError(err).WithField("chat_id", chatID).Error(fallback)
	}
	h.sendMessage(ctx, chatID, text)
}

func (h *Handler) sendMessage(ctx context.Context, chatID int64, text string) {
	if _, err := h.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
