// Package rewards хранит награды пользователя — пороги баллов на карточке.
package rewards

import (
	"time"

	"serotonyl.ru/stamp-card/internal/features/pointcard"
)

const (
	// MaxLabelLength — максимальная длина названия награды в символах.
	MaxLabelLength = 64
	// MaxRewardPoints — наибольший порог награды: 50 рядов карточки.
	// Карточка длиннее не помещается в одно сообщение Telegram.
	MaxRewardPoints = 10000
)

// Reward — награда на пороге баллов.
type Reward struct {
	ID        string    `db:"id"`
	UserID    int64     `db:"user_id"`
	Label     string    `db:"title"`
	Points    int       `db:"target_points"`
	CreatedAt time.Time `db:"created_at"`
}

// ToCard переводит награды в формат карточки.
func ToCard(list []*Reward) []pointcard.Reward {
	out := make([]pointcard.Reward, 0, len(list))
	for _, r := range list {
		out = append(out, pointcard.Reward{ID: r.ID, Label: r.Label, Points: r.Points})
	}
	return out
}
