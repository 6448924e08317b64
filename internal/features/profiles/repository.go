// Package profiles — repository.go работает с таблицей user_profiles
// и SQL-функциями начисления и обнуления баллов.
package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/stamp-card/internal/common"
)

const profileColumns = `id, display_name, points_today, points_this_week, points_total,
	last_daily_reset, last_weekly_reset, created_at, updated_at`

// Repository предоставляет методы для работы с таблицей user_profiles.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий профилей.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Ensure создаёт профиль или обновляет имя существующего.
// Новый профиль считается обнулённым на день date и неделю week.
// Возвращает true, если профиль создан.
func (r *Repository) Ensure(ctx context.Context, userID int64, displayName, date, week string) (bool, error) {
	var created bool
	err := r.db.QueryRow(ctx, `
		INSERT INTO user_profiles (id, display_name, last_daily_reset, last_weekly_reset)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    updated_at = NOW()
		RETURNING (xmax = 0)
	`, userID, displayName, date, week).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("ошибка создания/обновления профиля: %w", err)
	}
	return created, nil
}

// Get возвращает профиль пользователя.
func (r *Repository) Get(ctx context.Context, userID int64) (*Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM user_profiles WHERE id = $1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения профиля (user_id=%d): %w", userID, err)
	}
	return p, nil
}

// ResetDaily обнуляет баллы за день, если день date ещё не обнулён.
// userID = 0 — у всех профилей. Возвращает число обнулённых профилей.
func (r *Repository) ResetDaily(ctx context.Context, userID int64, date string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT reset_points_today($1, $2)`, userID, date).Scan(&n); err != nil {
		return 0, fmt.Errorf("ошибка обнуления баллов за день: %w", err)
	}
	return n, nil
}

// ResetWeekly обнуляет баллы за неделю, если неделя week ещё не обнулена.
// userID = 0 — у всех профилей.
func (r *Repository) ResetWeekly(ctx context.Context, userID int64, week string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT reset_points_week($1, $2)`, userID, week).Scan(&n); err != nil {
		return 0, fmt.Errorf("ошибка обнуления баллов за неделю: %w", err)
	}
	return n, nil
}

// Ranking возвращает limit профилей с наибольшим points_total.
func (r *Repository) Ranking(ctx context.Context, limit int) ([]*Profile, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+profileColumns+`
		FROM user_profiles
		ORDER BY points_total DESC, created_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса рейтинга: %w", err)
	}
	defer rows.Close()

	var out []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(
		&p.UserID, &p.DisplayName, &p.PointsToday, &p.PointsThisWeek, &p.PointsTotal,
		&p.LastDailyReset, &p.LastWeeklyReset, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
