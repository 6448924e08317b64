// Package tasks — service.go проверяет ввод и запускает изменения задач.
package tasks

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/stamp-card/internal/common"
)

// Store — хранилище задач. Реализуется *Repository.
type Store interface {
	List(ctx context.Context, userID int64) ([]*Task, error)
	Get(ctx context.Context, userID int64, taskID string) (*Task, error)
	Mutate(ctx context.Context, userID int64, taskType TaskType, plan PlanFunc) error
}

// Service управляет задачами пользователя.
type Service struct {
	store Store
	newID func() string
}

// NewService создаёт сервис задач.
func NewService(store Store) *Service {
	return &Service{store: store, newID: uuid.NewString}
}

// List возвращает активные задачи пользователя.
func (s *Service) List(ctx context.Context, userID int64) ([]*Task, error) {
	return s.store.List(ctx, userID)
}

// Get возвращает активную задачу по ID.
func (s *Service) Get(ctx context.Context, userID int64, taskID string) (*Task, error) {
	return s.store.Get(ctx, userID, taskID)
}

// ByNumber возвращает задачу по её номеру в списке /tasks (с единицы).
func (s *Service) ByNumber(ctx context.Context, userID int64, n int) (*Task, error) {
	list, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if n < 1 || n > len(list) {
		return nil, common.ErrTaskNotFound
	}
	return list[n-1], nil
}

// AddTask создаёт задачу. Для рутины цена считается автоматически
// и пересчитывается у всех задач того же типа.
func (s *Service) AddTask(ctx context.Context, userID int64, in NewTask) (*Task, error) {
	title, err := validateTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if !in.Type.IsValid() {
		return nil, common.ErrInvalidTaskType
	}

	task := &Task{
		ID:       s.newID(),
		UserID:   userID,
		Title:    title,
		Type:     in.Type,
		IsActive: true,
	}

	switch in.Type {
	case TypeDailyRoutine, TypeWeeklyRoutine:
		if in.Points != 0 {
			return nil, common.ErrRoutinePoints
		}
		if in.Deadline != "" {
			return nil, common.ErrDeadlineNotAllowed
		}
		if in.Type == TypeWeeklyRoutine {
			count := in.WeeklyCount
			if count == 0 {
				count = MinWeeklyCount
			}
			if err := validateWeeklyCount(count); err != nil {
				return nil, err
			}
			task.WeeklyCount = count
		} else if in.WeeklyCount != 0 {
			return nil, common.ErrWeeklyCountNotAllowed
		}

	case TypeUrgent, TypeSomeday:
		if in.WeeklyCount != 0 {
			return nil, common.ErrWeeklyCountNotAllowed
		}
		if err := validatePoints(in.Points); err != nil {
			return nil, err
		}
		task.Points = in.Points
		if in.Deadline != "" {
			if err := validateDeadline(in.Deadline); err != nil {
				return nil, err
			}
			d := in.Deadline
			task.Deadline = &d
		}
	}

	err = s.store.Mutate(ctx, userID, task.Type, func(siblings []*Task) (*Change, error) {
		return PlanAdd(siblings, task), nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"task_id": task.ID,
		"type":    task.Type,
		"points":  task.Points,
	}).Info("Задача создана")

	return task, nil
}

// EditTask правит задачу. Какие поля можно менять, зависит от типа.
func (s *Service) EditTask(ctx context.Context, userID int64, taskID string, edit TaskEdit) (*Task, error) {
	current, err := s.store.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if edit.Title != nil {
		title, err := validateTitle(*edit.Title)
		if err != nil {
			return nil, err
		}
		edit.Title = &title
	}

	switch current.Type {
	case TypeDailyRoutine:
		if edit.Points != nil {
			return nil, common.ErrRoutinePoints
		}
		if edit.WeeklyCount != nil {
			return nil, common.ErrWeeklyCountNotAllowed
		}
		if edit.Deadline != nil {
			return nil, common.ErrDeadlineNotAllowed
		}
	case TypeWeeklyRoutine:
		if edit.Points != nil {
			return nil, common.ErrRoutinePoints
		}
		if edit.Deadline != nil {
			return nil, common.ErrDeadlineNotAllowed
		}
		if edit.WeeklyCount != nil {
			if err := validateWeeklyCount(*edit.WeeklyCount); err != nil {
				return nil, err
			}
		}
	case TypeUrgent, TypeSomeday:
		if edit.WeeklyCount != nil {
			return nil, common.ErrWeeklyCountNotAllowed
		}
		if edit.Points != nil {
			if err := validatePoints(*edit.Points); err != nil {
				return nil, err
			}
		}
		if edit.Deadline != nil && *edit.Deadline != "" {
			if err := validateDeadline(*edit.Deadline); err != nil {
				return nil, err
			}
		}
	}

	var updated *Task
	err = s.store.Mutate(ctx, userID, current.Type, func(siblings []*Task) (*Change, error) {
		change, err := PlanEdit(siblings, taskID, edit)
		if err != nil {
			return nil, err
		}
		updated = change.Update
		return change, nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"task_id": taskID,
	}).Info("Задача изменена")

	return updated, nil
}

// DeleteTask мягко удаляет задачу.
// Отметки выполнения остаются: начисленные баллы не отнимаются.
func (s *Service) DeleteTask(ctx context.Context, userID int64, taskID string) (*Task, error) {
	current, err := s.store.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	err = s.store.Mutate(ctx, userID, current.Type, func(siblings []*Task) (*Change, error) {
		return PlanDelete(siblings, taskID)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"task_id": taskID,
		"type":    current.Type,
	}).Info("Задача удалена")

	return current, nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", common.ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", common.ErrTitleTooLong
	}
	return title, nil
}

func validatePoints(points int) error {
	switch {
	case points <= 0:
		return common.ErrInvalidPoints
	case points > MaxTaskPoints:
		return common.ErrTaskPointsTooLarge
	}
	return nil
}

func validateWeeklyCount(n int) error {
	if n < MinWeeklyCount || n > MaxWeeklyCount {
		return common.ErrInvalidWeeklyCount
	}
	return nil
}

func validateDeadline(s string) error {
	if _, err := common.ParseDateKey(s); err != nil {
		return common.ErrInvalidDeadline
	}
	return nil
}
