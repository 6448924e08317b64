package completions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/stamp-card/internal/common"
	"serotonyl.ru/stamp-card/internal/features/tasks"
)

type slotRow struct {
	taskID, week, date string
	earned             int
}

// memStore хранит отметки и баллы одного пользователя в памяти.
type memStore struct {
	total  int
	done   map[string]int // task_id|date → points_earned
	daily  map[string]bool
	slots  []slotRow
	seeded []string
}

func newMemStore() *memStore {
	return &memStore{done: make(map[string]int), daily: make(map[string]bool)}
}

func (m *memStore) add(delta int) Result {
	prev := m.total
	m.total = max(0, m.total+delta)
	return Result{Applied: true, Delta: m.total - prev, PrevTotal: prev, Total: m.total}
}

func (m *memStore) Snapshot(_ context.Context, _ int64, date, week string) (*Snapshot, error) {
	snap := &Snapshot{DailyDone: map[string]bool{}, TodayDone: map[string]bool{}, Weekly: map[string][]Slot{}}
	for key := range m.done {
		if id, d := split(key); d == date {
			snap.TodayDone[id] = true
		}
	}
	for key, ok := range m.daily {
		if id, d := split(key); ok && d == date {
			snap.DailyDone[id] = true
		}
	}
	for i, s := range m.slots {
		if s.week == week {
			snap.Weekly[s.taskID] = append(snap.Weekly[s.taskID], Slot{ID: string(rune('a' + i)), Date: s.date})
		}
	}
	return snap, nil
}

func (m *memStore) Complete(_ context.Context, task *tasks.Task, date, _ string) (Result, error) {
	key := task.ID + "|" + date
	if _, ok := m.done[key]; ok {
		return Result{}, nil
	}
	m.done[key] = task.Points
	if task.Type == tasks.TypeDailyRoutine {
		m.daily[key] = true
	}
	return m.add(task.Points), nil
}

func (m *memStore) Uncomplete(_ context.Context, task *tasks.Task, date string) (Result, error) {
	key := task.ID + "|" + date
	earned, ok := m.done[key]
	if !ok {
		return Result{}, nil
	}
	delete(m.done, key)
	m.daily[key] = false
	return m.add(-earned), nil
}

func (m *memStore) AddSlot(_ context.Context, task *tasks.Task, date, week string) (Result, error) {
	n := 0
	for _, s := range m.slots {
		if s.taskID == task.ID && s.week == week {
			n++
		}
	}
	if n >= task.WeeklyCount {
		return Result{}, common.ErrSlotsFull
	}
	m.slots = append(m.slots, slotRow{taskID: task.ID, week: week, date: date, earned: task.Points})
	return m.add(task.Points), nil
}

func (m *memStore) RemoveSlot(_ context.Context, task *tasks.Task, date, week string, anyDate bool) (Result, error) {
	for i := len(m.slots) - 1; i >= 0; i-- {
		s := m.slots[i]
		if s.taskID == task.ID && s.week == week && (anyDate || s.date == date) {
			m.slots = append(m.slots[:i], m.slots[i+1:]...)
			return m.add(-s.earned), nil
		}
	}
	return Result{}, common.ErrNoSlotToUndo
}

func (m *memStore) SeedDaily(_ context.Context, date string, _ int64) (int64, error) {
	m.seeded = append(m.seeded, date)
	return 1, nil
}

func split(key string) (string, string) {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == '|' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}

type taskList []*tasks.Task

func (l taskList) List(context.Context, int64) ([]*tasks.Task, error) { return l, nil }

// at возвращает часы, показывающие заданный момент по JST.
func at(s string) func() time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", s, common.JST)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

var (
	daily  = &tasks.Task{ID: "d1", UserID: 1, Type: tasks.TypeDailyRoutine, Points: 50}
	weekly = &tasks.Task{ID: "w1", UserID: 1, Type: tasks.TypeWeeklyRoutine, WeeklyCount: 2, Points: 50}
	once   = &tasks.Task{ID: "w2", UserID: 1, Type: tasks.TypeWeeklyRoutine, WeeklyCount: 1, Points: 50}
	urgent = &tasks.Task{ID: "u1", UserID: 1, Type: tasks.TypeUrgent, Points: 30}
)

func newTestService(now string) (*Service, *memStore) {
	store := newMemStore()
	svc := NewService(store, taskList{daily, weekly, once, urgent})
	svc.now = at(now)
	return svc, store
}

func TestComplete_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService("2026-10-14 09:00")

	res, err := svc.Complete(ctx, urgent)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, 30, res.Delta)

	res, err = svc.Complete(ctx, urgent)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, 30, store.total)
}

func TestUncomplete_RefundsEarnedPoints(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService("2026-10-14 09:00")

	_, err := svc.Complete(ctx, daily)
	require.NoError(t, err)

	// цена рутины поменялась после выполнения
	repriced := *daily
	repriced.Points = 33

	res, err := svc.Uncomplete(ctx, &repriced)
	require.NoError(t, err)
	assert.Equal(t, -50, res.Delta)
	assert.Equal(t, 0, store.total)

	res, err = svc.Uncomplete(ctx, daily)
	require.NoError(t, err)
	assert.False(t, res.Applied)
}

func TestToggle(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService("2026-10-14 09:00")

	res, err := svc.Toggle(ctx, daily)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Delta)

	res, err = svc.Toggle(ctx, daily)
	require.NoError(t, err)
	assert.Equal(t, -50, res.Delta)
	assert.Equal(t, 0, store.total)

	_, err = svc.Toggle(ctx, weekly)
	assert.ErrorIs(t, err, common.ErrWeeklyRoutine)
}

func TestCompleteSlot_RespectsWeeklyCount(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService("2026-10-14 09:00")

	for i := 0; i < 2; i++ {
		_, err := svc.CompleteSlot(ctx, weekly)
		require.NoError(t, err)
	}
	_, err := svc.CompleteSlot(ctx, weekly)
	assert.ErrorIs(t, err, common.ErrSlotsFull)
	assert.Equal(t, 100, store.total)

	_, err = svc.CompleteSlot(ctx, daily)
	assert.ErrorIs(t, err, common.ErrNotWeeklyRoutine)
}

func TestCompleteSlot_NewWeekStartsEmpty(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService("2026-10-11 23:30") // воскресенье

	_, err := svc.CompleteSlot(ctx, once)
	require.NoError(t, err)
	_, err = svc.CompleteSlot(ctx, once)
	assert.ErrorIs(t, err, common.ErrSlotsFull)

	svc.now = at("2026-10-12 00:10") // понедельник, новая неделя
	_, err = svc.CompleteSlot(ctx, once)
	assert.NoError(t, err)
}

func TestUncompleteSlot_OnlyToday(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService("2026-10-13 10:00")

	_, err := svc.CompleteSlot(ctx, weekly)
	require.NoError(t, err)

	svc.now = at("2026-10-14 10:00")
	_, err = svc.UncompleteSlot(ctx, weekly)
	assert.ErrorIs(t, err, common.ErrNoSlotToUndo)

	_, err = svc.CompleteSlot(ctx, weekly)
	require.NoError(t, err)
	res, err := svc.UncompleteSlot(ctx, weekly)
	require.NoError(t, err)
	assert.Equal(t, -50, res.Delta)
}

func TestUncompleteSlot_OnceAWeekAnyDay(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService("2026-10-12 10:00")

	_, err := svc.CompleteSlot(ctx, once)
	require.NoError(t, err)

	svc.now = at("2026-10-15 10:00")
	res, err := svc.UncompleteSlot(ctx, once)
	require.NoError(t, err)
	assert.Equal(t, -50, res.Delta)
	assert.Equal(t, 0, store.total)
}

func TestDoneUndo_Dispatch(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService("2026-10-14 09:00")

	_, err := svc.Done(ctx, weekly)
	require.NoError(t, err)
	_, err = svc.Done(ctx, urgent)
	require.NoError(t, err)
	assert.Equal(t, 80, store.total)

	_, err = svc.Undo(ctx, weekly)
	require.NoError(t, err)
	_, err = svc.Undo(ctx, urgent)
	require.NoError(t, err)
	assert.Equal(t, 0, store.total)
}

func TestBoard(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService("2026-10-14 09:00")

	_, err := svc.Complete(ctx, daily)
	require.NoError(t, err)
	_, err = svc.CompleteSlot(ctx, weekly)
	require.NoError(t, err)
	_, err = svc.CompleteSlot(ctx, once)
	require.NoError(t, err)

	board, err := svc.Board(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-14", board.Date)
	assert.Equal(t, "2026-W42", board.Week)
	require.Len(t, board.Entries, 4)

	byID := make(map[string]Entry)
	for _, e := range board.Entries {
		byID[e.Task.ID] = e
	}
	assert.True(t, byID["d1"].Completed)
	assert.False(t, byID["w1"].Completed)
	assert.Equal(t, 1, byID["w1"].Done())
	assert.Equal(t, "2026-10-14", byID["w1"].Slots[0].Date)
	assert.True(t, byID["w2"].Completed)
	assert.False(t, byID["u1"].Completed)
}

func TestBoard_UsesJSTDate(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, taskList{})
	// 2026-10-14 16:00 UTC — уже 15 октября по JST
	svc.now = func() time.Time { return time.Date(2026, 10, 14, 16, 0, 0, 0, time.UTC) }

	board, err := svc.Board(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-15", board.Date)
}

func TestSeedDaily(t *testing.T) {
	svc, store := newTestService("2026-10-14 00:00")
	_, err := svc.SeedDaily(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-10-14"}, store.seeded)
}
