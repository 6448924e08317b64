// Package tasks управляет задачами пользователя: рутиной, срочными делами и делами «когда-нибудь».
// models.go описывает структуры задач и их изменений.
package tasks

import (
	"fmt"
	"strings"
	"time"
)

// TaskType — тип задачи.
type TaskType string

const (
	TypeDailyRoutine  TaskType = "daily_routine"  // Каждый день
	TypeWeeklyRoutine TaskType = "weekly_routine" // N раз в неделю
	TypeUrgent        TaskType = "urgent"         // Срочное
	TypeSomeday       TaskType = "someday"        // Когда-нибудь
)

// Ограничения на ввод
const (
	RoutinePool    = 100 // Баллов на всю рутину одного типа
	MinWeeklyCount = 1
	MaxWeeklyCount = 6
	MaxTitleLength = 100
	MaxTaskPoints  = 1000 // Потолок баллов срочной задачи и задачи «когда-нибудь»
)

// IsValid проверяет, что тип известен.
func (t TaskType) IsValid() bool {
	switch t {
	case TypeDailyRoutine, TypeWeeklyRoutine, TypeUrgent, TypeSomeday:
		return true
	default:
		return false
	}
}

// IsRoutine — делят ли задачи этого типа общий пул в 100 баллов.
func (t TaskType) IsRoutine() bool {
	return t == TypeDailyRoutine || t == TypeWeeklyRoutine
}

// Title возвращает название типа для сообщений.
func (t TaskType) Title() string {
	switch t {
	case TypeDailyRoutine:
		return "Каждый день"
	case TypeWeeklyRoutine:
		return "На неделе"
	case TypeUrgent:
		return "Срочное"
	case TypeSomeday:
		return "Когда-нибудь"
	default:
		return string(t)
	}
}

// typeAliases — как тип можно написать в команде.
var typeAliases = map[string]TaskType{
	"daily":          TypeDailyRoutine,
	"daily_routine":  TypeDailyRoutine,
	"день":           TypeDailyRoutine,
	"ежедневно":      TypeDailyRoutine,
	"weekly":         TypeWeeklyRoutine,
	"weekly_routine": TypeWeeklyRoutine,
	"неделя":         TypeWeeklyRoutine,
	"еженедельно":    TypeWeeklyRoutine,
	"urgent":         TypeUrgent,
	"срочно":         TypeUrgent,
	"someday":        TypeSomeday,
	"когда-нибудь":   TypeSomeday,
	"потом":          TypeSomeday,
}

// ParseTaskType разбирает тип задачи из текста команды.
func ParseTaskType(input string) (TaskType, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	if t, ok := typeAliases[s]; ok {
		return t, nil
	}
	return "", fmt.Errorf("неизвестный тип задачи: %q", input)
}

// Task — задача пользователя.
type Task struct {
	ID          string    `db:"id"`
	UserID      int64     `db:"user_id"`      // Telegram user ID владельца
	Title       string    `db:"title"`
	Type        TaskType  `db:"type"`
	Points      int       `db:"points"`       // Баллы за одно выполнение (за один слот)
	WeeklyCount int       `db:"weekly_count"` // Раз в неделю, только для weekly_routine
	Deadline    *string   `db:"deadline"`     // ГГГГ-ММ-ДД, только для urgent/someday
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
}

// NewTask — данные для создания задачи.
type NewTask struct {
	Title       string
	Type        TaskType
	Points      int    // Только для urgent/someday
	WeeklyCount int    // Только для weekly_routine; 0 = 1 раз
	Deadline    string // Пусто = без дедлайна
}

// TaskEdit — изменения задачи. nil = поле не меняется.
type TaskEdit struct {
	Title       *string
	Points      *int
	WeeklyCount *int
	Deadline    *string // Пустая строка снимает дедлайн
}

// Change — что сделать с задачами одного типа в одной транзакции.
// Строится чистыми функциями из points.go, применяется репозиторием.
type Change struct {
	Create        *Task    // Вставить новую задачу
	Update        *Task    // Обновить title/points/weekly_count/deadline
	DeactivateID  string   // Мягко удалить задачу
	SiblingIDs    []string // Кому выставить SiblingPoints
	SiblingPoints int
}

// PlanFunc строит изменение по текущим активным задачам того же типа.
type PlanFunc func(siblings []*Task) (*Change, error)
