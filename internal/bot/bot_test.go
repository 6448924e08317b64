package bot

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/stamp-card/internal/config"
)

func newTestBot(t *testing.T, maxInflight int) *Bot {
	t.Helper()
	cfg := &config.Config{
		Bot: config.Bot{MaxInflight: maxInflight, UpdateTimeoutSeconds: 1},
	}
	return New(nil, cfg, nil, nil, Handlers{}, nil)
}

func TestDispatch_StopWaitsForHandlers(t *testing.T) {
	b := newTestBot(t, 4)

	release := make(chan struct{})
	started := make(chan struct{})
	var finished atomic.Bool
	b.handle = func(context.Context, telego.Update) {
		close(started)
		<-release
		finished.Store(true)
	}

	ctx, cancel := context.WithCancel(context.Background())
	updates := make(chan telego.Update, 1)
	updates <- telego.Update{UpdateID: 1}

	done := make(chan error, 1)
	go func() { done <- b.dispatch(ctx, updates) }()

	<-started
	cancel()
	require.NoError(t, <-done)

	stopped := make(chan struct{})
	go func() {
		b.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop вернулся, пока обработчик ещё работает")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop не дождался обработчика")
	}
	assert.True(t, finished.Load())
}

func TestDispatch_FullInflightHonoursCancel(t *testing.T) {
	b := newTestBot(t, 1)

	release := make(chan struct{})
	started := make(chan struct{}, 2)
	b.handle = func(context.Context, telego.Update) {
		started <- struct{}{}
		<-release
	}

	ctx, cancel := context.WithCancel(context.Background())
	updates := make(chan telego.Update, 2)
	updates <- telego.Update{UpdateID: 1}
	updates <- telego.Update{UpdateID: 2}

	done := make(chan error, 1)
	go func() { done <- b.dispatch(ctx, updates) }()

	<-started
	// второй апдейт ждёт свободного места; отмена должна его отпустить
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("dispatch завис на заполненном inflight")
	}
	assert.Len(t, started, 0, "второй обработчик не запускался")

	close(release)
	b.Stop()
}

func TestDispatch_ClosedUpdates(t *testing.T) {
	b := newTestBot(t, 2)
	var handled atomic.Int32
	b.handle = func(context.Context, telego.Update) { handled.Add(1) }

	updates := make(chan telego.Update, 2)
	updates <- telego.Update{UpdateID: 1}
	updates <- telego.Update{UpdateID: 2}
	close(updates)

	require.NoError(t, b.dispatch(context.Background(), updates))
	b.Stop()
	assert.Equal(t, int32(2), handled.Load())
}
