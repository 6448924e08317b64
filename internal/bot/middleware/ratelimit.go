package middleware

import (
	"context"
	"sync"
	"time"
)

// sweepInterval — как часто из памяти убираются пользователи без свежих команд.
const sweepInterval = 5 * time.Minute

// RateLimiter — скользящее окно на пользователя: не больше limit команд за window.
// limit <= 0 отключает ограничение.
type RateLimiter struct {
	mu     sync.Mutex
	hits   map[int64][]time.Time
	limit  int
	window time.Duration
	now    func() time.Time
	cancel context.CancelFunc
}

// NewRateLimiter создаёт лимитер и запускает фоновую очистку.
// Остановить её можно через Close.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	ctx, cancel := context.WithCancel(context.Background())
	rl := &RateLimiter{
		hits:   make(map[int64][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
		cancel: cancel,
	}
	go rl.janitor(ctx)
	return rl
}

// Close останавливает фоновую очистку. Повторный вызов безопасен.
func (rl *RateLimiter) Close() {
	rl.cancel()
}

// Allow сообщает, можно ли обработать ещё одну команду пользователя,
// и если да — засчитывает её.
func (rl *RateLimiter) Allow(userID int64) bool {
	if rl.limit <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	hits := rl.trim(rl.hits[userID], now)
	allowed := len(hits) < rl.limit
	if allowed {
		hits = append(hits, now)
	}
	rl.hits[userID] = hits
	return allowed
}

// trim отбрасывает отметки старше окна. Отметки идут по возрастанию,
// поэтому достаточно найти первую свежую.
func (rl *RateLimiter) trim(hits []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}

// sweep удаляет пользователей без отметок в окне.
func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for userID, hits := range rl.hits {
		hits = rl.trim(hits, now)
		if len(hits) == 0 {
			delete(rl.hits, userID)
			continue
		}
		rl.hits[userID] = hits
	}
}

func (rl *RateLimiter) janitor(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}
