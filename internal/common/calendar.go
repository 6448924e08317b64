// Package common — calendar.go формирует ключи дня и недели по фиксированному
// часовому поясу UTC+9 (JST). Ключи служат разделами для дневных и недельных
// отметок, поэтому не зависят от часового пояса сервера и пользователя.
package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// JST — фиксированный UTC+9 без перехода на летнее время.
// Не грузим tzdata: результат не должен зависеть от окружения.
var JST = time.FixedZone("JST", 9*60*60)

const (
	dateLayout = "2006-01-02"
	day        = 24 * time.Hour
)

// GetJSTDate возвращает текущую дату по JST в формате "2006-01-02".
// Не кэшируется: каждый вызов читает часы заново.
func GetJSTDate() string {
	return DateKey(time.Now())
}

// GetJSTWeek возвращает ключ текущей недели по JST в формате "2026-W07".
func GetJSTWeek() string {
	return WeekKey(time.Now())
}

// DateKey возвращает дату момента t по JST.
func DateKey(t time.Time) string {
	return t.In(JST).Format(dateLayout)
}

// WeekKey возвращает ключ недели момента t по JST.
//
// Алгоритм похож на ISO-8601, но не совпадает с ним:
//  1. Берём 4 января текущего календарного года (по JST).
//  2. Отступаем назад до понедельника этой недели — это начало недели 1.
//  3. Номер недели = floor(дней от начала недели 1 / 7) + 1.
//
// Год в ключе — всегда календарный год t. Конец декабря не переносится
// в неделю 1 следующего года, а 1–3 января могут дать неделю 00,
// если они раньше понедельника недели 1. Ключи уже лежат в базе,
// поэтому поведение сохраняем как есть.
func WeekKey(t time.Time) string {
	now := t.In(JST)
	jan4 := time.Date(now.Year(), time.January, 4, 0, 0, 0, 0, JST)
	// Понедельник = 0 ... воскресенье = 6
	offset := (int(jan4.Weekday()) + 6) % 7
	startOfWeek1 := jan4.AddDate(0, 0, -offset)

	days := floorDiv(int64(now.Sub(startOfWeek1)), int64(day))
	week := floorDiv(days, 7) + 1

	return fmt.Sprintf("%d-W%02d", now.Year(), week)
}

// ParseDateKey разбирает ключ дня "2006-01-02" как полночь по JST.
func ParseDateKey(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, JST)
}

// FormatSlotDate превращает "2026-02-25" в "2/25" для компактного показа.
// Строку другого вида возвращает без изменений.
func FormatSlotDate(date string) string {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return date
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return date
	}
	dayOfMonth, err := strconv.Atoi(parts[2])
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d/%d", month, dayOfMonth)
}

// floorDiv — целочисленное деление с округлением вниз (и для отрицательных).
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
