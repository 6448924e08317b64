// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Обработчики сравнивают их через errors.Is и отправляют
// пользователю понятное сообщение.
package common

import (
	"errors"
	"unicode"
	"unicode/utf8"
)

// Ошибки задач
var (
	// ErrTaskNotFound — задача не найдена или уже удалена
	ErrTaskNotFound = errors.New("задача не найдена")
	// ErrEmptyTitle — пустое название задачи
	ErrEmptyTitle = errors.New("название не может быть пустым")
	// ErrTitleTooLong — название длиннее 100 символов
	ErrTitleTooLong = errors.New("название слишком длинное (максимум 100 символов)")
	// ErrInvalidTaskType — неизвестный тип задачи
	ErrInvalidTaskType = errors.New("неизвестный тип задачи")
	// ErrInvalidPoints — баллы должны быть положительными
	ErrInvalidPoints = errors.New("баллы должны быть положительным числом")
	// ErrTaskPointsTooLarge — баллы задачи больше 1000
	ErrTaskPointsTooLarge = errors.New("за задачу не больше 1000 баллов")
	// ErrInvalidWeeklyCount — число раз в неделю вне диапазона 1..6
	ErrInvalidWeeklyCount = errors.New("раз в неделю: от 1 до 6")
	// ErrInvalidDeadline — дедлайн не в формате ГГГГ-ММ-ДД
	ErrInvalidDeadline = errors.New("дедлайн в формате ГГГГ-ММ-ДД")
	// ErrDeadlineNotAllowed — дедлайн бывает только у срочных и «когда-нибудь»
	ErrDeadlineNotAllowed = errors.New("у рутины не бывает дедлайна")
	// ErrRoutinePoints — баллы рутины считаются автоматически
	ErrRoutinePoints = errors.New("баллы рутины считаются автоматически")
	// ErrWeeklyCountNotAllowed — число раз в неделю есть только у недельной рутины
	ErrWeeklyCountNotAllowed = errors.New("число раз в неделю есть только у недельной рутины")
)

// Ошибки отметок
var (
	// ErrNotWeeklyRoutine — слоты есть только у недельной рутины
	ErrNotWeeklyRoutine = errors.New("слоты есть только у недельной рутины")
	// ErrWeeklyRoutine — недельная рутина отмечается по слотам
	ErrWeeklyRoutine = errors.New("недельная рутина отмечается по слотам")
	// ErrSlotsFull — все слоты на эту неделю уже заполнены
	ErrSlotsFull = errors.New("все слоты на эту неделю уже заполнены")
	// ErrNoSlotToUndo — нечего отменять (отменить можно только сегодняшний слот)
	ErrNoSlotToUndo = errors.New("отменить можно только сегодняшнюю отметку")
)

// Ошибки наград
var (
	// ErrRewardNotFound — награда не найдена
	ErrRewardNotFound = errors.New("награда не найдена")
	// ErrEmptyLabel — пустое название награды
	ErrEmptyLabel = errors.New("название награды не может быть пустым")
	// ErrLabelTooLong — название награды длиннее 64 символов
	ErrLabelTooLong = errors.New("название награды слишком длинное (максимум 64 символа)")
	// ErrRewardPointsTooLarge — порог награды больше 10000
	ErrRewardPointsTooLarge = errors.New("порог награды не больше 10000 баллов")
)

// ErrProfileNotFound — профиль пользователя не найден
var ErrProfileNotFound = errors.New("профиль не найден")

// ErrUsage — аргументы команды не разобраны, нужно показать подсказку
var ErrUsage = errors.New("неверный формат команды")

// userErrors — ошибки, текст которых можно показать пользователю.
var userErrors = []error{
	ErrTaskNotFound, ErrEmptyTitle, ErrTitleTooLong, ErrInvalidTaskType,
	ErrInvalidPoints, ErrTaskPointsTooLarge, ErrInvalidWeeklyCount, ErrInvalidDeadline,
	ErrDeadlineNotAllowed, ErrRoutinePoints, ErrWeeklyCountNotAllowed,
	ErrNotWeeklyRoutine, ErrWeeklyRoutine, ErrSlotsFull, ErrNoSlotToUndo,
	ErrRewardNotFound, ErrEmptyLabel, ErrLabelTooLong, ErrRewardPointsTooLarge,
	ErrProfileNotFound, ErrUsage,
}

// UserMessage возвращает текст ответа на ошибку err.
// Для внутренних ошибок возвращает fallback и known = false:
// такие ошибки обработчик должен залогировать сам.
func UserMessage(err error, fallback string) (text string, known bool) {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return "❌ " + capitalize(target.Error()), true
		}
	}
	return "❌ " + fallback, false
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
