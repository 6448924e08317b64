// Package rewards — repository.go выполняет операции с таблицей rewards.
package rewards

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/stamp-card/internal/common"
)

// Repository предоставляет методы для работы с таблицей rewards.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий наград.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// List возвращает награды пользователя по возрастанию порога.
func (r *Repository) List(ctx context.Context, userID int64) ([]*Reward, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, title, target_points, created_at
		FROM rewards
		WHERE user_id = $1
		ORDER BY target_points, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения наград: %w", err)
	}
	defer rows.Close()

	var list []*Reward
	for rows.Next() {
		var rw Reward
		if err := rows.Scan(&rw.ID, &rw.UserID, &rw.Label, &rw.Points, &rw.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования награды: %w", err)
		}
		list = append(list, &rw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения наград: %w", err)
	}
	return list, nil
}

// Create добавляет награду.
func (r *Repository) Create(ctx context.Context, rw *Reward) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO rewards (id, user_id, title, target_points)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, rw.ID, rw.UserID, rw.Label, rw.Points).Scan(&rw.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания награды: %w", err)
	}
	return nil
}

// Update меняет название и порог награды.
func (r *Repository) Update(ctx context.Context, rw *Reward) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE rewards SET title = $3, target_points = $4
		WHERE user_id = $1 AND id = $2
	`, rw.UserID, rw.ID, rw.Label, rw.Points)
	if err != nil {
		return fmt.Errorf("ошибка обновления награды: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrRewardNotFound
	}
	return nil
}

// Delete удаляет награду.
func (r *Repository) Delete(ctx context.Context, userID int64, rewardID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM rewards WHERE user_id = $1 AND id = $2`, userID, rewardID)
	if err != nil {
		return fmt.Errorf("ошибка удаления награды: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrRewardNotFound
	}
	return nil
}
