// Package pointcard — layout.go раскладывает баллы и награды по сетке.
// Все функции чистые: без БД, без часов, без глобального состояния.
// Их можно вызывать сколько угодно часто (в том числе на каждом кадре анимации).
package pointcard

import "sort"

// Calc строит карточку для currentPoints баллов и списка наград.
//
// Алгоритм:
//  1. Горизонт = максимальный порог награды (или 500, если наград нет).
//  2. Последняя клетка = ceil(горизонт / 25) - 1.
//  3. Рядов = ceil((последняя клетка + 1) / 8), клеток = рядов * 8.
//     Последний ряд всегда добит до 8 клеток.
//  4. Заполнено = floor(currentPoints / 25). Может быть больше клеток сетки.
//  5. Каждая награда лежит на клетке ceil(points / 25) - 1.
//
// Награды с порогом <= 0 пропускаются (у них нет клетки).
// Если на одну клетку попало несколько наград, остаётся награда
// с меньшим порогом, при равенстве — с меньшим ID.
// Порядок входного списка на результат не влияет.
func Calc(currentPoints int, rewards []Reward) State {
	maxPoints := 0
	for _, r := range rewards {
		if r.Points > maxPoints {
			maxPoints = r.Points
		}
	}
	if maxPoints <= 0 {
		maxPoints = DefaultHorizon
	}

	maxSquareIndex := SquareIndex(maxPoints)
	totalRows := ceilDiv(maxSquareIndex+1, Cols)
	totalSquares := totalRows * Cols
	filledSquares := FilledSquares(currentPoints)

	rewardBySquare := mapRewards(rewards)

	rows := make([]Row, totalRows)
	for rowIndex := range rows {
		squares := make([]Square, Cols)
		for colIndex := range squares {
			squareIndex := rowIndex*Cols + colIndex
			squares[colIndex] = Square{
				Filled: squareIndex < filledSquares,
				Reward: rewardBySquare[squareIndex],
			}
		}
		rows[rowIndex].Squares = squares
	}

	return State{
		FilledSquares: filledSquares,
		TotalSquares:  totalSquares,
		Rows:          rows,
	}
}

// SquareIndex возвращает индекс клетки, на которой лежит порог points.
// Для points <= 0 возвращает -1.
func SquareIndex(points int) int {
	if points <= 0 {
		return -1
	}
	return ceilDiv(points, PointsPerSquare) - 1
}

// FilledSquares — сколько клеток закрывают points баллов.
// Отрицательный баланс даёт ноль.
func FilledSquares(points int) int {
	if points <= 0 {
		return 0
	}
	return points / PointsPerSquare
}

// NewlyFilled возвращает индексы клеток, закрытых при переходе
// от prevPoints к curPoints, по возрастанию. Пусто, если баллы не выросли.
func NewlyFilled(prevPoints, curPoints int) []int {
	from, to := FilledSquares(prevPoints), FilledSquares(curPoints)
	if to <= from {
		return nil
	}
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}

// RewardsReached возвращает награды, чьи клетки закрылись при переходе
// от prevPoints к curPoints. Сюда попадают и награды, «спрятанные»
// на общей клетке. Порядок: по порогу, затем по ID.
func RewardsReached(prevPoints, curPoints int, rewards []Reward) []Reward {
	from, to := FilledSquares(prevPoints), FilledSquares(curPoints)
	if to <= from {
		return nil
	}
	var out []Reward
	for _, r := range rewards {
		idx := SquareIndex(r.Points)
		if idx >= from && idx < to {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return rewardLess(out[i], out[j]) })
	return out
}

// mapRewards раскладывает награды по клеткам с детерминированным выбором при коллизии.
func mapRewards(rewards []Reward) map[int]*Reward {
	bySquare := make(map[int]*Reward, len(rewards))
	for _, r := range rewards {
		idx := SquareIndex(r.Points)
		if idx < 0 {
			continue
		}
		if existing, ok := bySquare[idx]; ok && !rewardLess(r, *existing) {
			continue
		}
		reward := r
		bySquare[idx] = &reward
	}
	return bySquare
}

func rewardLess(a, b Reward) bool {
	if a.Points != b.Points {
		return a.Points < b.Points
	}
	return a.ID < b.ID
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
