// Package completions отмечает выполнение задач и начисляет за них баллы.
// models.go описывает отметки, доску задач и результат начисления.
package completions

import "serotonyl.ru/stamp-card/internal/features/tasks"

// Slot — одно выполнение недельной рутины.
type Slot struct {
	ID   string `db:"id"`
	Date string `db:"completed_date"` // ГГГГ-ММ-ДД по JST
}

// Snapshot — отметки пользователя за день и неделю.
type Snapshot struct {
	DailyDone map[string]bool   // task_id → ежедневная рутина выполнена сегодня
	TodayDone map[string]bool   // task_id → есть запись в task_completions за сегодня
	Weekly    map[string][]Slot // task_id → слоты недели по возрастанию даты
}

// Entry — строка доски: задача и её состояние.
type Entry struct {
	Task      *tasks.Task
	Completed bool
	Slots     []Slot // Только для недельной рутины
}

// Done возвращает число заполненных слотов недельной рутины.
func (e Entry) Done() int {
	return len(e.Slots)
}

// Board — все активные задачи с отметками на сегодня и эту неделю.
type Board struct {
	Date    string
	Week    string
	Entries []Entry
}

// Result — итог отметки или её отмены.
type Result struct {
	Applied   bool // false, если отметка уже была (или уже снята)
	Delta     int  // Начислено баллов (отрицательное при отмене)
	PrevTotal int  // points_total до изменения
	Total     int  // points_total после изменения
}
