// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация, форматирование баллов, календарь по JST.
package common

import "fmt"

// Pluralize возвращает правильную форму слова для числа n.
//
// Правила русского языка:
//   - n%10==1 И n%100!=11 → one (1, 21, 31, 101, ...)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → few (2, 3, 4, 22, 23, ...)
//   - Остальные случаи → many (0, 5-20, 25-30, 100, ...)
func Pluralize(n int, one, few, many string) string {
	if n < 0 {
		n = -n
	}
	lastDigit := n % 10
	lastTwoDigits := n % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return one
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return few
	}
	return many
}

// PluralizePoints возвращает форму слова «балл» для числа n.
//
// Примеры:
//
//	PluralizePoints(1)  → "балл"
//	PluralizePoints(3)  → "балла"
//	PluralizePoints(25) → "баллов"
func PluralizePoints(n int) string {
	return Pluralize(n, "балл", "балла", "баллов")
}

// PluralizeStamps возвращает форму слова «штамп».
func PluralizeStamps(n int) string {
	return Pluralize(n, "штамп", "штампа", "штампов")
}

// FormatPoints форматирует баллы в читабельную строку.
// Пример: FormatPoints(1250) → "1 250 баллов"
func FormatPoints(points int) string {
	return fmt.Sprintf("%s %s", FormatNumber(points), PluralizePoints(points))
}

// FormatPointsDelta создаёт строку вида "+25 баллов" или "-25 баллов".
func FormatPointsDelta(delta int) string {
	if delta >= 0 {
		return fmt.Sprintf("+%d %s", delta, PluralizePoints(delta))
	}
	return fmt.Sprintf("%d %s", delta, PluralizePoints(delta))
}

// FormatNumber форматирует число с разделителями тысяч (пробелами).
// Пример: FormatNumber(2350) → "2 350"
func FormatNumber(n int) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s %03d", FormatNumber(n/1000), n%1000)
}
