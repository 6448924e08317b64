// Package profiles хранит профили пользователей: имя и итоги баллов
// за сегодня, за неделю и за всё время.
// models.go описывает структуру профиля.
package profiles

import (
	"strings"
	"time"
)

// MaxDisplayNameLength — сколько символов имени хранится в профиле.
const MaxDisplayNameLength = 64

// Profile — профиль пользователя в таблице user_profiles.
// Создаётся при первом обращении к боту.
type Profile struct {
	UserID          int64     `db:"id"`                // Telegram user ID
	DisplayName     string    `db:"display_name"`      // Имя для рейтинга
	PointsToday     int       `db:"points_today"`      // Баллы за день по JST
	PointsThisWeek  int       `db:"points_this_week"`  // Баллы за неделю по JST
	PointsTotal     int       `db:"points_total"`      // Баллы за всё время, по ним строится карточка
	LastDailyReset  string    `db:"last_daily_reset"`  // Ключ дня последнего обнуления
	LastWeeklyReset string    `db:"last_weekly_reset"` // Ключ недели последнего обнуления
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// DisplayName собирает имя из данных Telegram:
// имя и фамилия, если их нет — @username, иначе «Без имени».
func DisplayName(username, firstName, lastName string) string {
	name := strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
	if name == "" && username != "" {
		name = "@" + username
	}
	if name == "" {
		return "Без имени"
	}
	runes := []rune(name)
	if len(runes) > MaxDisplayNameLength {
		name = string(runes[:MaxDisplayNameLength])
	}
	return name
}
