// Package completions — service.go решает, что значит «выполнить» задачу
// каждого типа, и ведёт ключи дня и недели по JST.
package completions

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/stamp-card/internal/common"
	"serotonyl.ru/stamp-card/internal/features/tasks"
)

// Store — хранилище отметок. Реализуется *Repository.
type Store interface {
	Snapshot(ctx context.Context, userID int64, date, week string) (*Snapshot, error)
	Complete(ctx context.Context, task *tasks.Task, date, week string) (Result, error)
	Uncomplete(ctx context.Context, task *tasks.Task, date string) (Result, error)
	AddSlot(ctx context.Context, task *tasks.Task, date, week string) (Result, error)
	RemoveSlot(ctx context.Context, task *tasks.Task, date, week string, anyDate bool) (Result, error)
	SeedDaily(ctx context.Context, date string, userID int64) (int64, error)
}

// TaskLister отдаёт активные задачи пользователя.
type TaskLister interface {
	List(ctx context.Context, userID int64) ([]*tasks.Task, error)
}

// Service управляет отметками выполнения.
type Service struct {
	store Store
	tasks TaskLister
	now   func() time.Time
}

// NewService создаёт сервис отметок.
func NewService(store Store, taskLister TaskLister) *Service {
	return &Service{store: store, tasks: taskLister, now: time.Now}
}

func (s *Service) keys() (date, week string) {
	now := s.now()
	return common.DateKey(now), common.WeekKey(now)
}

// Board возвращает все активные задачи с отметками на сегодня.
func (s *Service) Board(ctx context.Context, userID int64) (*Board, error) {
	date, week := s.keys()

	list, err := s.tasks.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	snap, err := s.store.Snapshot(ctx, userID, date, week)
	if err != nil {
		return nil, err
	}

	board := &Board{Date: date, Week: week, Entries: make([]Entry, 0, len(list))}
	for _, t := range list {
		entry := Entry{Task: t, Completed: isCompleted(t, snap)}
		if t.Type == tasks.TypeWeeklyRoutine {
			entry.Slots = snap.Weekly[t.ID]
		}
		board.Entries = append(board.Entries, entry)
	}
	return board, nil
}

// isCompleted — выполнена ли задача:
// ежедневная рутина — по статусу дня, недельная — все слоты недели заполнены,
// срочное и «когда-нибудь» — есть выполнение за сегодня.
func isCompleted(t *tasks.Task, snap *Snapshot) bool {
	switch t.Type {
	case tasks.TypeDailyRoutine:
		return snap.DailyDone[t.ID]
	case tasks.TypeWeeklyRoutine:
		return len(snap.Weekly[t.ID]) >= t.WeeklyCount
	default:
		return snap.TodayDone[t.ID]
	}
}

// Complete отмечает выполнение за сегодня (кроме недельной рутины).
func (s *Service) Complete(ctx context.Context, task *tasks.Task) (Result, error) {
	if task.Type == tasks.TypeWeeklyRoutine {
		return Result{}, common.ErrWeeklyRoutine
	}
	date, week := s.keys()
	res, err := s.store.Complete(ctx, task, date, week)
	if err != nil {
		return Result{}, err
	}
	logResult(task, res, "Задача выполнена")
	return res, nil
}

// Uncomplete снимает сегодняшнюю отметку (кроме недельной рутины).
func (s *Service) Uncomplete(ctx context.Context, task *tasks.Task) (Result, error) {
	if task.Type == tasks.TypeWeeklyRoutine {
		return Result{}, common.ErrWeeklyRoutine
	}
	date, _ := s.keys()
	res, err := s.store.Uncomplete(ctx, task, date)
	if err != nil {
		return Result{}, err
	}
	logResult(task, res, "Отметка снята")
	return res, nil
}

// Toggle переключает состояние задачи на сегодня.
func (s *Service) Toggle(ctx context.Context, task *tasks.Task) (Result, error) {
	if task.Type == tasks.TypeWeeklyRoutine {
		return Result{}, common.ErrWeeklyRoutine
	}
	date, week := s.keys()
	snap, err := s.store.Snapshot(ctx, task.UserID, date, week)
	if err != nil {
		return Result{}, err
	}
	if isCompleted(task, snap) {
		return s.Uncomplete(ctx, task)
	}
	return s.Complete(ctx, task)
}

// CompleteSlot заполняет следующий слот недельной рутины.
func (s *Service) CompleteSlot(ctx context.Context, task *tasks.Task) (Result, error) {
	if task.Type != tasks.TypeWeeklyRoutine {
		return Result{}, common.ErrNotWeeklyRoutine
	}
	date, week := s.keys()
	res, err := s.store.AddSlot(ctx, task, date, week)
	if err != nil {
		return Result{}, err
	}
	logResult(task, res, "Слот заполнен")
	return res, nil
}

// UncompleteSlot снимает последний слот недели.
// Снять можно только сегодняшний слот; у рутины «раз в неделю» — любой.
func (s *Service) UncompleteSlot(ctx context.Context, task *tasks.Task) (Result, error) {
	if task.Type != tasks.TypeWeeklyRoutine {
		return Result{}, common.ErrNotWeeklyRoutine
	}
	date, week := s.keys()
	res, err := s.store.RemoveSlot(ctx, task, date, week, task.WeeklyCount == 1)
	if err != nil {
		return Result{}, err
	}
	logResult(task, res, "Слот снят")
	return res, nil
}

// Done — «выполнить» для любого типа: слот для недельной рутины,
// отметка дня для остальных.
func (s *Service) Done(ctx context.Context, task *tasks.Task) (Result, error) {
	if task.Type == tasks.TypeWeeklyRoutine {
		return s.CompleteSlot(ctx, task)
	}
	return s.Complete(ctx, task)
}

// Undo — обратная операция к Done.
func (s *Service) Undo(ctx context.Context, task *tasks.Task) (Result, error) {
	if task.Type == tasks.TypeWeeklyRoutine {
		return s.UncompleteSlot(ctx, task)
	}
	return s.Uncomplete(ctx, task)
}

// SeedDaily создаёт статусы ежедневной рутины на сегодня.
// userID = 0 — для всех пользователей.
func (s *Service) SeedDaily(ctx context.Context, userID int64) (int64, error) {
	date, _ := s.keys()
	return s.store.SeedDaily(ctx, date, userID)
}

func logResult(task *tasks.Task, res Result, msg string) {
	if !res.Applied {
		return
	}
	log.WithFields(log.Fields{
		"user_id": task.UserID,
		"task_id": task.ID,
		"type":    task.Type,
		"delta":   res.Delta,
		"total":   res.Total,
	}).Info(msg)
}
