// Package pointcard — render.go рисует карточку текстом для чата.
package pointcard

import "strings"

// Символы клеток
const (
	SymbolEmpty         = "⬜"
	SymbolFilled        = "🟦"
	SymbolFresh         = "⭐" // Закрыта с прошлого просмотра
	SymbolReward        = "🎁"
	SymbolRewardReached = "🎉"
)

// Render возвращает карточку построчно: один ряд — одна строка.
// fresh — индексы клеток, закрытых с прошлого просмотра (см. NewlyFilled).
func Render(state State, fresh []int) string {
	isFresh := make(map[int]bool, len(fresh))
	for _, idx := range fresh {
		isFresh[idx] = true
	}

	var sb strings.Builder
	for rowIndex, row := range state.Rows {
		if rowIndex > 0 {
			sb.WriteString("\n")
		}
		for colIndex, sq := range row.Squares {
			sb.WriteString(symbolFor(sq, isFresh[rowIndex*Cols+colIndex]))
		}
	}
	return sb.String()
}

func symbolFor(sq Square, fresh bool) string {
	switch {
	case sq.Reward != nil && sq.Filled:
		return SymbolRewardReached
	case sq.Reward != nil:
		return SymbolReward
	case sq.Filled && fresh:
		return SymbolFresh
	case sq.Filled:
		return SymbolFilled
	default:
		return SymbolEmpty
	}
}
