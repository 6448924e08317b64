// Package pointcard — stamps.go хранит клиентское состояние карточки:
// счётчик новых штампов и баллы на момент последнего просмотра.
//
// Состояние явное: StampBook создаётся в сборке приложения и передаётся
// обработчикам. Глобальных переменных нет.
package pointcard

import "sync"

// StampBook — состояние карточек по пользователям.
// Живёт в памяти процесса; после перезапуска счётчики начинаются с нуля.
type StampBook struct {
	mu      sync.Mutex
	entries map[int64]*stampEntry
}

type stampEntry struct {
	pending    int  // Штампов с прошлого просмотра
	lastViewed int  // Баллы на момент последнего просмотра
	viewed     bool // Карточку уже открывали
}

// View — снимок состояния при открытии карточки.
type View struct {
	PendingStamps int // Сколько штампов накопилось до открытия
	PrevPoints    int // Баллы на момент прошлого просмотра
}

// NewStampBook создаёт пустое состояние.
func NewStampBook() *StampBook {
	return &StampBook{entries: make(map[int64]*stampEntry)}
}

// Add добавляет штамп (задача выполнена).
func (b *StampBook) Add(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entry(userID).pending++
}

// Remove убирает штамп (отметка отменена). Ниже нуля не опускается.
func (b *StampBook) Remove(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e := b.entry(userID)
	if e.pending > 0 {
		e.pending--
	}
}

// Pending возвращает число новых штампов.
func (b *StampBook) Pending(userID int64) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e, ok := b.entries[userID]; ok {
		return e.pending
	}
	return 0
}

// Open фиксирует просмотр карточки с текущими баллами.
// Возвращает снимок до просмотра и сбрасывает счётчик штампов.
// При первом просмотре PrevPoints = points, чтобы ничего не подсвечивать.
func (b *StampBook) Open(userID int64, points int) View {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.entry(userID)
	view := View{PendingStamps: e.pending, PrevPoints: e.lastViewed}
	if !e.viewed {
		view.PrevPoints = points
	}

	e.pending = 0
	e.lastViewed = points
	e.viewed = true
	return view
}

func (b *StampBook) entry(userID int64) *stampEntry {
	e, ok := b.entries[userID]
	if !ok {
		e = &stampEntry{}
		b.entries[userID] = e
	}
	return e
}
