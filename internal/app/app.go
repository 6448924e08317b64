// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, сервисы, обработчики,
// фильтры и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/stamp-card/internal/bot"
	"serotonyl.ru/stamp-card/internal/bot/filters"
	"serotonyl.ru/stamp-card/internal/config"
	"serotonyl.ru/stamp-card/internal/db/postgres"
	"serotonyl.ru/stamp-card/internal/features/completions"
	"serotonyl.ru/stamp-card/internal/features/pointcard"
	"serotonyl.ru/stamp-card/internal/features/profiles"
	"serotonyl.ru/stamp-card/internal/features/rewards"
	"serotonyl.ru/stamp-card/internal/features/tasks"
	"serotonyl.ru/stamp-card/internal/jobs"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	BotAPI    *telego.Bot
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Telegram Bot API ===
	var botOpts []telego.BotOption
	if cfg.IsDevelopment() {
		botOpts = append(botOpts, telego.WithDefaultDebugLogger())
	}
	botAPI, err := telego.NewBot(cfg.TelegramBotToken, botOpts...)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	me, err := botAPI.GetMe(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка авторизации бота: %w", err)
	}
	log.Infof("Авторизован как @%s", me.Username)

	// === 3. Репозитории ===
	profileRepo := profiles.NewRepository(pool)
	taskRepo := tasks.NewRepository(pool)
	completionRepo := completions.NewRepository(pool)
	rewardRepo := rewards.NewRepository(pool)

	// === 4. Сервисы ===
	profileService := profiles.NewService(profileRepo, cfg.Ranking.Limit)
	taskService := tasks.NewService(taskRepo)
	completionService := completions.NewService(completionRepo, taskService)
	rewardService := rewards.NewService(rewardRepo)
	stamps := pointcard.NewStampBook()

	// === 5. Обработчики ===
	cardHandler := pointcard.NewHandler(profileService, rewardService, stamps, botAPI)
	handlers := bot.Handlers{
		Tasks:       tasks.NewHandler(taskService, botAPI),
		Completions: completions.NewHandler(completionService, taskService, cardHandler, botAPI),
		Rewards:     rewards.NewHandler(rewardService, botAPI),
		Profiles:    profiles.NewHandler(profileService, botAPI),
		Card:        cardHandler,
	}

	// === 6. Обнуление периодов ===
	rollover := jobs.NewRollover(profileService, completionService)

	// === 7. Собираем бота ===
	b := bot.New(botAPI, cfg, profileService, rollover, handlers, filters.NewChatFilter())

	// === 8. Планировщик задач ===
	scheduler := jobs.NewScheduler(rollover)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
		BotAPI:    botAPI,
	}, nil
}

// runMigrations выполняет все SQL-миграции.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return err
	}

	for _, m := range migrations {
		applied, err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql)
		if err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		if applied {
			log.Infof("Миграция %d применена", m.version)
		}
	}
	return nil
}
