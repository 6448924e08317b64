// Package completions — handlers.go обрабатывает команды:
// /tasks (доска), /done (выполнить), /undo (отменить).
package completions

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/stamp-card/internal/common"
	"serotonyl.ru/stamp-card/internal/features/tasks"
)

// PointsObserver узнаёт об изменении баллов, чтобы обновить карточку.
type PointsObserver interface {
	PointsChanged(ctx context.Context, chatID, userID int64, prevTotal, total int)
}

// Handler обрабатывает команды отметок.
type Handler struct {
	service  *Service
	tasks    *tasks.Service
	observer PointsObserver
	bot      *telego.Bot
}

// NewHandler создаёт обработчик отметок.
func NewHandler(service *Service, taskService *tasks.Service, observer PointsObserver, bot *telego.Bot) *Handler {
	return &Handler{service: service, tasks: taskService, observer: observer, bot: bot}
}

// HandleBoard — команда /tasks.
func (h *Handler) HandleBoard(ctx context.Context, chatID, userID int64) {
	board, err := h.service.Board(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка получения доски задач")
		h.sendMessage(ctx, chatID, "❌ Ошибка получения задач")
		return
	}
	h.sendMessage(ctx, chatID, RenderBoard(board))
}

// HandleDone — команда /done <номер>.
//
// Ответ при успехе:
//
//	✅ Зарядка: +33 балла
func (h *Handler) HandleDone(ctx context.Context, chatID, userID int64, args []string) {
	task, ok := h.resolve(ctx, chatID, userID, args, "❌ Формат: /done <номер задачи>")
	if !ok {
		return
	}

	res, err := h.service.Done(ctx, task)
	if err != nil {
		h.replyError(ctx, chatID, err, "Ошибка отметки задачи")
		return
	}
	if !res.Applied {
		h.sendMessage(ctx, chatID, fmt.Sprintf("☑️ «%s» уже отмечена сегодня", task.Title))
		return
	}

	text := fmt.Sprintf("✅ %s: %s", task.Title, common.FormatPointsDelta(res.Delta))
	if task.Type == tasks.TypeWeeklyRoutine {
		text += h.slotProgress(ctx, userID, task)
	}
	h.sendMessage(ctx, chatID, text)
	h.observer.PointsChanged(ctx, chatID, userID, res.PrevTotal, res.Total)
}

// HandleUndo — команда /undo <номер>.
func (h *Handler) HandleUndo(ctx context.Context, chatID, userID int64, args []string) {
	task, ok := h.resolve(ctx, chatID, userID, args, "❌ Формат: /undo <номер задачи>")
	if !ok {
		return
	}

	res, err := h.service.Undo(ctx, task)
	if err != nil {
		h.replyError(ctx, chatID, err, "Ошибка отмены отметки")
		return
	}
	if !res.Applied {
		h.sendMessage(ctx, chatID, fmt.Sprintf("«%s» сегодня не отмечена", task.Title))
		return
	}

	h.sendMessage(ctx, chatID, fmt.Sprintf("↩️ %s: %s", task.Title, common.FormatPointsDelta(res.Delta)))
	h.observer.PointsChanged(ctx, chatID, userID, res.PrevTotal, res.Total)
}

// resolve находит задачу по номеру из аргументов.
func (h *Handler) resolve(ctx context.Context, chatID, userID int64, args []string, usage string) (*tasks.Task, bool) {
	n, err := tasks.ParseNumber(args)
	if err != nil {
		h.sendMessage(ctx, chatID, usage)
		return nil, false
	}
	task, err := h.tasks.ByNumber(ctx, userID, n)
	if err != nil {
		h.replyError(ctx, chatID, err, "Ошибка получения задачи")
		return nil, false
	}
	return task, true
}

// slotProgress — строка «(2/3 на этой неделе)» для недельной рутины.
func (h *Handler) slotProgress(ctx context.Context, userID int64, task *tasks.Task) string {
	board, err := h.service.Board(ctx, userID)
	if err != nil {
		log.WithError(err).Debug("Не удалось посчитать слоты")
		return ""
	}
	for _, e := range board.Entries {
		if e.Task.ID == task.ID {
			return fmt.Sprintf(" (%d/%d на этой неделе)", e.Done(), task.WeeklyCount)
		}
	}
	return ""
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
