// Package bot содержит главный модуль бота — запуск, остановку и маршрутизацию.
// bot.go принимает апдейты через long polling и раздаёт команды обработчикам.
package bot

import (
	"context"
	"fmt"
	"sync"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/stamp-card/internal/bot/filters"
	"serotonyl.ru/stamp-card/internal/bot/middleware"
	"serotonyl.ru/stamp-card/internal/config"
	"serotonyl.ru/stamp-card/internal/features/completions"
	"serotonyl.ru/stamp-card/internal/features/pointcard"
	"serotonyl.ru/stamp-card/internal/features/profiles"
	"serotonyl.ru/stamp-card/internal/features/rewards"
	"serotonyl.ru/stamp-card/internal/features/tasks"
	"serotonyl.ru/stamp-card/internal/jobs"
)

const helpText = `🎴 Карточка баллов

Выполняй задачи, копи баллы и закрывай клетки карточки (25 баллов за клетку).

/card — карточка
/tasks — задачи на сегодня
/add <тип> [число] <название> [@ГГГГ-ММ-ДД] — новая задача
    типы: daily, weekly, urgent, someday
    для weekly число — сколько раз в неделю, для urgent/someday — баллы
/done <n> — отметить задачу
/undo <n> — отменить отметку
/edit <n> <поле> <значение> — изменить задачу
/del <n> — удалить задачу
/rewards — награды
/reward <баллы> <название> — новая награда
/reward #<n> <баллы> [название] — изменить награду
/unreward <n> — удалить награду
/me — мои баллы
/top — рейтинг`

// Handlers — обработчики команд по фичам.
type Handlers struct {
	Tasks       *tasks.Handler
	Completions *completions.Handler
	Rewards     *rewards.Handler
	Profiles    *profiles.Handler
	Card        *pointcard.Handler
}

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api *telego.Bot
	cfg *config.Config

	chatFilter  *filters.ChatFilter
	rateLimiter *middleware.RateLimiter

	profileService *profiles.Service
	rollover       *jobs.Rollover
	handlers       Handlers

	parser *CommandParser

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
	// обработчики, которые ещё работают
	wg     sync.WaitGroup
	handle func(ctx context.Context, update telego.Update)
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api *telego.Bot,
	cfg *config.Config,
	profileService *profiles.Service,
	rollover *jobs.Rollover,
	handlers Handlers,
	chatFilter *filters.ChatFilter,
) *Bot {
	maxInFlight := cfg.Bot.MaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	b := &Bot{
		api:            api,
		cfg:            cfg,
		chatFilter:     chatFilter,
		rateLimiter:    middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window),
		profileService: profileService,
		rollover:       rollover,
		handlers:       handlers,
		parser:         NewCommandParser(),
		inflight:       make(chan struct{}, maxInFlight),
	}
	b.handle = b.handleUpdate
	return b
}

// Start запускает long polling и блокируется до отмены ctx.
func (b *Bot) Start(ctx context.Context) error {
	updates, err := b.api.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: b.cfg.Bot.UpdateTimeoutSeconds,
	})
	if err != nil {
		return fmt.Errorf("ошибка запуска long polling: %w", err)
	}

	log.WithFields(log.Fields{
		"max_inflight": cap(b.inflight),
		"timeout_sec":  b.cfg.Bot.UpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	return b.dispatch(ctx, updates)
}

// dispatch раздаёт апдейты обработчикам, не больше cap(inflight) одновременно.
func (b *Bot) dispatch(ctx context.Context, updates <-chan telego.Update) error {
	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			return nil

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return nil
			}

			// лимит параллелизма
			select {
			case b.inflight <- struct{}{}:
			case <-ctx.Done():
				log.Info("Бот останавливается (ctx done)...")
				return nil
			}
			b.wg.Add(1)
			go func(upd telego.Update) {
				defer b.wg.Done()
				defer func() { <-b.inflight }()
				b.handle(ctx, upd)
			}(update)
		}
	}
}

// Stop ждёт завершения запущенных обработчиков и освобождает ресурсы бота.
// Вызывать после возврата из Start, до закрытия пула БД.
func (b *Bot) Stop() {
	b.wg.Wait()
	b.rateLimiter.Close()
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update telego.Update) {
	defer middleware.RecoverFromPanic()

	message := update.Message
	if message == nil || message.Text == "" {
		return
	}

	middleware.LogMessage(message)

	if !b.chatFilter.CheckAccess(message) {
		return
	}

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if !isCommand {
		return
	}

	userID := message.From.ID
	chatID := message.Chat.ID

	if !b.rateLimiter.Allow(userID) {
		log.WithField("user_id", userID).Debug("rate limited")
		return
	}

	if err := b.profileService.Ensure(ctx, userID,
		message.From.Username, message.From.FirstName, message.From.LastName,
	); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ensure profile failed")
		b.sendMessage(ctx, chatID, "❌ Не удалось загрузить профиль, попробуй позже")
		return
	}

	// догоняем обнуление дня/недели, если cron его пропустил
	if err := b.rollover.SyncUser(ctx, userID); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("SyncUser failed")
	}

	b.routeCommand(ctx, chatID, userID, cmd, args)
}

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, chatID, userID int64, cmd string, args []string) {
	log.WithFields(log.Fields{
		"cmd":  cmd,
		"args": args,
	}).Debug("routing command")

	switch cmd {
	case "start", "help", "помощь":
		b.sendMessage(ctx, chatID, helpText)

	case "card", "карта", "карточка":
		b.handlers.Card.HandleCard(ctx, chatID, userID)

	case "tasks", "задачи":
		b.handlers.Completions.HandleBoard(ctx, chatID, userID)

	case "add", "добавить":
		b.handlers.Tasks.HandleAdd(ctx, chatID, userID, args)

	case "done", "готово":
		b.handlers.Completions.HandleDone(ctx, chatID, userID, args)

	case "undo", "отмена":
		b.handlers.Completions.HandleUndo(ctx, chatID, userID, args)

	case "edit", "изменить":
		b.handlers.Tasks.HandleEdit(ctx, chatID, userID, args)

	case "del", "удалить":
		b.handlers.Tasks.HandleDelete(ctx, chatID, userID, args)

	case "rewards", "награды":
		b.handlers.Rewards.HandleList(ctx, chatID, userID)

	case "reward", "награда":
		b.handlers.Rewards.HandleReward(ctx, chatID, userID, args)

	case "unreward", "снять":
		b.handlers.Rewards.HandleRemove(ctx, chatID, userID, args)

	case "me", "я":
		b.handlers.Profiles.HandleMe(ctx, chatID, userID)

	case "top", "рейтинг":
		if b.cfg.Features.RankingEnabled {
			b.handlers.Profiles.HandleTop(ctx, chatID)
		} else {
			b.sendMessage(ctx, chatID, "🏆 Рейтинг временно отключён")
		}

	default:
		b.sendMessage(ctx, chatID, "🤔 Не знаю такой команды. Список команд: /help")
	}
}

// sendMessage — утилита для отправки сообщений.
func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string) {
	if _, err := b.api.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
