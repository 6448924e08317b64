// Package pointcard строит карточку штампов: сетку по 8 клеток в ряд,
// где каждая клетка — 25 баллов, а на клетках-порогах лежат награды.
// models.go описывает константы и типы карточки.
package pointcard

// Константы карточки. Входят в контракт: клиенты рассчитывают на них.
const (
	Cols            = 8                      // Клеток в ряду
	PointsPerSquare = 25                     // Баллов в одной клетке
	PointsPerRow    = Cols * PointsPerSquare // 200 баллов в ряду
	DefaultHorizon  = 500                    // Длина карточки без наград
)

// Reward — награда пользователя на пороге баллов.
// Для движка неизменяема; хранится и меняется в БД.
type Reward struct {
	ID     string
	Label  string
	Points int
}

// Square — одна клетка карточки. Не хранится, пересчитывается на каждый вызов.
type Square struct {
	Filled bool
	Reward *Reward // nil, если на клетке нет награды
}

// Row — ровно Cols клеток.
type Row struct {
	Squares []Square
}

// State — результат раскладки карточки.
type State struct {
	FilledSquares int
	TotalSquares  int
	Rows          []Row
}

// At возвращает клетку по сквозному индексу (ряд за рядом).
func (s State) At(index int) (Square, bool) {
	if index < 0 || index >= s.TotalSquares {
		return Square{}, false
	}
	return s.Rows[index/Cols].Squares[index%Cols], true
}

// Overflow — сколько заполненных клеток не поместилось в сетку.
// Ноль, если баллы не превысили последнюю награду.
func (s State) Overflow() int {
	if s.FilledSquares <= s.TotalSquares {
		return 0
	}
	return s.FilledSquares - s.TotalSquares
}
