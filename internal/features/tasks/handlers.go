// Package tasks — handlers.go обрабатывает команды /add, /edit и /del.
package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/stamp-card/internal/common"
)

// Подсказки по формату команд
const (
	addUsage = "Формат: /add <тип> [число] <название> [@ГГГГ-ММ-ДД]\n" +
		"Типы: daily, weekly, urgent, someday\n" +
		"Примеры:\n" +
		"  /add daily Зарядка\n" +
		"  /add weekly 3 Бассейн\n" +
		"  /add urgent 40 Отчёт @2026-10-20\n" +
		"  /add someday 15 Разобрать шкаф"
	editUsage = "Формат: /edit <номер> название|раз|баллы|дедлайн <значение>\n" +
		"Дедлайн «-» снимает его."
	delUsage = "Формат: /del <номер задачи>"
)

// Handler обрабатывает команды управления задачами.
type Handler struct {
	service *Service
	bot     *telego.Bot
}

// NewHandler создаёт обработчик задач.
func NewHandler(service *Service, bot *telego.Bot) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleAdd — команда /add.
//
// Ответ при успехе:
//
//	➕ Бассейн (На неделе, 3 раза) · 25 баллов
func (h *Handler) HandleAdd(ctx context.Context, chatID, userID int64, args []string) {
	in, err := ParseAdd(args)
	if errors.Is(err, common.ErrUsage) {
		h.sendMessage(ctx, chatID, addUsage)
		return
	}
	if err != nil {
		h.replyError(ctx, chatID, err, "Ошибка разбора команды")
		return
	}

	task, err := h.service.AddTask(ctx, userID, in)
	if err != nil {
		h.replyError(ctx, chatID, err, "Ошибка создания задачи")
		return
	}

	text := "➕ " + describe(task)
	if task.Type.IsRoutine() {
		text += "\n♻️ Баллы рутины пересчитаны"
	}
	h.sendMessage(ctx, chatID, text)
}

// HandleEdit — команда /edit.
func (h *Handler) HandleEdit(ctx context.Context, chatID, userID int64, args []string) {
	n, edit, err := ParseEdit(args)
	if errors.Is(err, common.ErrUsage) {
		h.sendMessage(ctx, chatID, editUsage)
		return
	}
	if err != nil {
		h.replyError(ctx, chatID, err, "Ошибка разбора команды")
		return
	}

	task, err := h.service.ByNumber(ctx, userID, n)
	if err != nil {
		h.replyError(ctx, chatID, err, "Ошибка получения задачи")
		return
	}

	updated, err := h.service.EditTask(ctx, userID, task.ID, edit)
	if err != nil {
		h.replyError(ctx, chatID, err, "Ошибка изменения задачи")
		return
	}
	h.sendMessage(ctx, chatID, "✏️ "+describe(updated))
}

// HandleDelete — команда /del.
func (h *Handler) HandleDelete(ctx context.Context, chatID, userID int64, args []string) {
	n, err := ParseNumber(args)
	if err != nil {
		h.sendMessage(ctx, chatID, delUsage)
		return
	}

	task, err := h.service.ByNumber(ctx, userID, n)
	if err != nil {
		h.replyError(ctx, chatID, err, "Ошибка получения задачи")
		return
	}

	if _, err := h.service.DeleteTask(ctx, userID, task.ID); err != nil {
		h.replyError(ctx, chatID, err, "Ошибка удаления задачи")
		return
	}

	text := fmt.Sprintf("🗑 Удалено: %s", task.Title)
	if task.Type.IsRoutine() {
		text += "\n♻️ Баллы рутины пересчитаны"
	}
	h.sendMessage(ctx, chatID, text)
}

// describe — «Название (тип) · баллы» для ответов.
func describe(t *Task) string {
	kind := t.Type.Title()
	if t.Type == TypeWeeklyRoutine {
		kind = fmt.Sprintf("%s, %d %s", kind, t.WeeklyCount, common.Pluralize(t.WeeklyCount, "раз", "раза", "раз"))
	}
	text := fmt.Sprintf("%s (%s) · %s", t.Title, kind, common.FormatPoints(t.Points))
	if t.Deadline != nil {
		text += " · до " + common.FormatSlotDate(*t.Deadline)
	}
	return text
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
