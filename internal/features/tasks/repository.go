// Package tasks — repository.go выполняет операции с таблицей tasks.
package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/stamp-card/internal/common"
)

const taskColumns = `id, user_id, title, type, points, weekly_count, deadline, is_active, created_at`

// Repository предоставляет методы для работы с таблицей tasks.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий задач.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// List возвращает активные задачи пользователя в порядке создания.
func (r *Repository) List(ctx context.Context, userID int64) ([]*Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND is_active
		ORDER BY created_at, id
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения задач: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// Get возвращает активную задачу пользователя по ID.
func (r *Repository) Get(ctx context.Context, userID int64, taskID string) (*Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND id = $2 AND is_active
	`
	t, err := scanTask(r.db.QueryRow(ctx, query, userID, taskID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения задачи: %w", err)
	}
	return t, nil
}

// Mutate выполняет изменение задач одного типа атомарно:
//  1. Берёт advisory-блокировку на (пользователь, тип) до конца транзакции.
//  2. Читает активные задачи типа.
//  3. Строит изменение через plan.
//  4. Выставляет цену всем SiblingIDs, затем вставляет/обновляет/удаляет задачу.
//
// Два пересчёта одного типа у одного пользователя не пересекаются.
func (r *Repository) Mutate(ctx context.Context, userID int64, taskType TaskType, plan PlanFunc) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	lockKey := fmt.Sprintf("tasks:%d:%s", userID, taskType)
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey); err != nil {
		return fmt.Errorf("ошибка блокировки задач: %w", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = $1 AND type = $2 AND is_active
		ORDER BY created_at, id
	`, userID, string(taskType))
	if err != nil {
		return fmt.Errorf("ошибка получения задач типа: %w", err)
	}
	siblings, err := scanTasks(rows)
	rows.Close()
	if err != nil {
		return err
	}

	change, err := plan(siblings)
	if err != nil {
		return err
	}

	if err := applyChange(ctx, tx, userID, taskType, change); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// applyChange применяет изменение внутри транзакции.
func applyChange(ctx context.Context, tx pgx.Tx, userID int64, taskType TaskType, c *Change) error {
	if len(c.SiblingIDs) > 0 {
		_, err := tx.Exec(ctx, `
			UPDATE tasks
			SET points = $3, updated_at = NOW()
			WHERE user_id = $1 AND type = $2 AND id = ANY($4)
		`, userID, string(taskType), c.SiblingPoints, c.SiblingIDs)
		if err != nil {
			return fmt.Errorf("ошибка пересчёта баллов рутины: %w", err)
		}
	}

	if t := c.Create; t != nil {
		_, err := tx.Exec(ctx, `
			INSERT INTO tasks (id, user_id, title, type, points, weekly_count, deadline, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		`, t.ID, t.UserID, t.Title, string(t.Type), t.Points, t.WeeklyCount, t.Deadline)
		if err != nil {
			return fmt.Errorf("ошибка создания задачи: %w", err)
		}
	}

	if t := c.Update; t != nil {
		_, err := tx.Exec(ctx, `
			UPDATE tasks
			SET title = $3, points = $4, weekly_count = $5, deadline = $6, updated_at = NOW()
			WHERE user_id = $1 AND id = $2
		`, userID, t.ID, t.Title, t.Points, t.WeeklyCount, t.Deadline)
		if err != nil {
			return fmt.Errorf("ошибка обновления задачи: %w", err)
		}
	}

	if c.DeactivateID != "" {
		_, err := tx.Exec(ctx, `
			UPDATE tasks SET is_active = FALSE, updated_at = NOW()
			WHERE user_id = $1 AND id = $2
		`, userID, c.DeactivateID)
		if err != nil {
			return fmt.Errorf("ошибка удаления задачи: %w", err)
		}
	}

	return nil
}

func scanTask(row pgx.Row) (*Task, error) {
	var t Task
	var taskType string
	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &taskType, &t.Points,
		&t.WeeklyCount, &t.Deadline, &t.IsActive, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Type = TaskType(taskType)
	return &t, nil
}

func scanTasks(rows pgx.Rows) ([]*Task, error) {
	var out []*Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования задачи: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения задач: %w", err)
	}
	return out, nil
}
