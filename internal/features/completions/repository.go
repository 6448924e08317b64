// Package completions — repository.go работает с таблицами отметок.
// Каждая отметка и начисление баллов за неё идут в одной транзакции.
package completions

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/stamp-card/internal/common"
	"serotonyl.ru/stamp-card/internal/features/tasks"
)

// Repository предоставляет методы для работы с отметками.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий отметок.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Snapshot читает отметки пользователя за день date и неделю week.
func (r *Repository) Snapshot(ctx context.Context, userID int64, date, week string) (*Snapshot, error) {
	snap := &Snapshot{
		DailyDone: make(map[string]bool),
		TodayDone: make(map[string]bool),
		Weekly:    make(map[string][]Slot),
	}

	rows, err := r.db.Query(ctx, `
		SELECT task_id FROM daily_routine_status
		WHERE user_id = $1 AND target_date = $2 AND completed
	`, userID, date)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения статусов рутины: %w", err)
	}
	if err := collectIDs(rows, snap.DailyDone); err != nil {
		return nil, err
	}

	rows, err = r.db.Query(ctx, `
		SELECT task_id FROM task_completions
		WHERE user_id = $1 AND completion_date = $2
	`, userID, date)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения выполнений: %w", err)
	}
	if err := collectIDs(rows, snap.TodayDone); err != nil {
		return nil, err
	}

	rows, err = r.db.Query(ctx, `
		SELECT id, task_id, completed_date FROM weekly_routine_completions
		WHERE user_id = $1 AND target_week = $2
		ORDER BY completed_date, created_at
	`, userID, week)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения слотов недели: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var slot Slot
		var taskID string
		if err := rows.Scan(&slot.ID, &taskID, &slot.Date); err != nil {
			return nil, fmt.Errorf("ошибка сканирования слота: %w", err)
		}
		snap.Weekly[taskID] = append(snap.Weekly[taskID], slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения слотов: %w", err)
	}

	return snap, nil
}

// Complete отмечает задачу выполненной за день date.
// Повторная отметка ничего не меняет и не начисляет баллов.
func (r *Repository) Complete(ctx context.Context, task *tasks.Task, date, week string) (Result, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO task_completions (id, user_id, task_id, completion_date, completion_week, points_earned)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, task_id, completion_date) DO NOTHING
	`, uuid.NewString(), task.UserID, task.ID, date, week, task.Points)
	if err != nil {
		return Result{}, fmt.Errorf("ошибка записи выполнения: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Result{}, nil
	}

	if task.Type == tasks.TypeDailyRoutine {
		_, err := tx.Exec(ctx, `
			INSERT INTO daily_routine_status (user_id, task_id, target_date, completed, completed_at)
			VALUES ($1, $2, $3, TRUE, NOW())
			ON CONFLICT (user_id, task_id, target_date)
			DO UPDATE SET completed = TRUE, completed_at = NOW()
		`, task.UserID, task.ID, date)
		if err != nil {
			return Result{}, fmt.Errorf("ошибка обновления статуса рутины: %w", err)
		}
	}

	res, err := addPoints(ctx, tx, task.UserID, task.Points)
	if err != nil {
		return Result{}, err
	}
	return res, tx.Commit(ctx)
}

// Uncomplete снимает отметку за день date и списывает баллы,
// начисленные за неё (а не текущую цену задачи).
func (r *Repository) Uncomplete(ctx context.Context, task *tasks.Task, date string) (Result, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var earned int
	err = tx.QueryRow(ctx, `
		DELETE FROM task_completions
		WHERE user_id = $1 AND task_id = $2 AND completion_date = $3
		RETURNING points_earned
	`, task.UserID, task.ID, date).Scan(&earned)
	if errors.Is(err, pgx.ErrNoRows) {
		return Result{}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("ошибка удаления выполнения: %w", err)
	}

	if task.Type == tasks.TypeDailyRoutine {
		_, err := tx.Exec(ctx, `
			UPDATE daily_routine_status SET completed = FALSE, completed_at = NULL
			WHERE user_id = $1 AND task_id = $2 AND target_date = $3
		`, task.UserID, task.ID, date)
		if err != nil {
			return Result{}, fmt.Errorf("ошибка обновления статуса рутины: %w", err)
		}
	}

	res, err := addPoints(ctx, tx, task.UserID, -earned)
	if err != nil {
		return Result{}, err
	}
	return res, tx.Commit(ctx)
}

// AddSlot заполняет следующий слот недельной рутины.
// Слотов за неделю не больше WeeklyCount.
func (r *Repository) AddSlot(ctx context.Context, task *tasks.Task, date, week string) (Result, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockTask(ctx, tx, task); err != nil {
		return Result{}, err
	}

	var done int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM weekly_routine_completions
		WHERE user_id = $1 AND task_id = $2 AND target_week = $3
	`, task.UserID, task.ID, week).Scan(&done)
	if err != nil {
		return Result{}, fmt.Errorf("ошибка подсчёта слотов: %w", err)
	}
	if done >= task.WeeklyCount {
		return Result{}, common.ErrSlotsFull
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO weekly_routine_completions (id, user_id, task_id, target_week, completed_date, points_earned)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.NewString(), task.UserID, task.ID, week, date, task.Points)
	if err != nil {
		return Result{}, fmt.Errorf("ошибка записи слота: %w", err)
	}

	res, err := addPoints(ctx, tx, task.UserID, task.Points)
	if err != nil {
		return Result{}, err
	}
	return res, tx.Commit(ctx)
}

// RemoveSlot снимает последний слот недели week.
// Если anyDate = false, снимается только слот, заполненный в день date.
func (r *Repository) RemoveSlot(ctx context.Context, task *tasks.Task, date, week string, anyDate bool) (Result, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockTask(ctx, tx, task); err != nil {
		return Result{}, err
	}

	var earned int
	err = tx.QueryRow(ctx, `
		DELETE FROM weekly_routine_completions
		WHERE id = (
			SELECT id FROM weekly_routine_completions
			WHERE user_id = $1 AND task_id = $2 AND target_week = $3
			  AND ($5::BOOLEAN OR completed_date = $4)
			ORDER BY completed_date DESC, created_at DESC
			LIMIT 1
		)
		RETURNING points_earned
	`, task.UserID, task.ID, week, date, anyDate).Scan(&earned)
	if errors.Is(err, pgx.ErrNoRows) {
		return Result{}, common.ErrNoSlotToUndo
	}
	if err != nil {
		return Result{}, fmt.Errorf("ошибка удаления слота: %w", err)
	}

	res, err := addPoints(ctx, tx, task.UserID, -earned)
	if err != nil {
		return Result{}, err
	}
	return res, tx.Commit(ctx)
}

// SeedDaily создаёт невыполненные статусы на день date для всех
// активных ежедневных рутин. userID = 0 — для всех пользователей.
// Существующие статусы не трогает.
func (r *Repository) SeedDaily(ctx context.Context, date string, userID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO daily_routine_status (user_id, task_id, target_date, completed)
		SELECT user_id, id, $1, FALSE
		FROM tasks
		WHERE type = 'daily_routine' AND is_active AND ($2::BIGINT = 0 OR user_id = $2)
		ON CONFLICT (user_id, task_id, target_date) DO NOTHING
	`, date, userID)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания статусов рутины: %w", err)
	}
	return tag.RowsAffected(), nil
}

// lockTask сериализует отметки одной задачи до конца транзакции.
func lockTask(ctx context.Context, tx pgx.Tx, task *tasks.Task) error {
	key := fmt.Sprintf("slots:%d:%s", task.UserID, task.ID)
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return fmt.Errorf("ошибка блокировки слотов: %w", err)
	}
	return nil
}

// addPoints меняет баллы профиля через increment_points.
// Итоги не опускаются ниже нуля, поэтому Delta — фактическое изменение.
func addPoints(ctx context.Context, tx pgx.Tx, userID int64, delta int) (Result, error) {
	res := Result{Applied: true}
	err := tx.QueryRow(ctx,
		`SELECT prev_total, new_total FROM increment_points($1, $2)`,
		userID, delta,
	).Scan(&res.PrevTotal, &res.Total)
	if errors.Is(err, pgx.ErrNoRows) {
		return Result{}, common.ErrProfileNotFound
	}
	if err != nil {
		return Result{}, fmt.Errorf("ошибка начисления баллов: %w", err)
	}
	res.Delta = res.Total - res.PrevTotal
	return res, nil
}

func collectIDs(rows pgx.Rows, into map[string]bool) error {
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("ошибка сканирования отметки: %w", err)
		}
		into[id] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("ошибка чтения отметок: %w", err)
	}
	return nil
}
