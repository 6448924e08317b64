// Package config читает настройки бота из переменных окружения через envconfig.
// Группы настроек встроены в Config анонимно и несут полные имена
// переменных: у вложенного поля envconfig подставил бы голое имя тега
// (USER вместо DB_USER), если переменной нет.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config — все настройки приложения.
type Config struct {
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`

	DB
	App
	Bot
	RateLimit
	Ranking
	Features
}

// DB — подключение к PostgreSQL.
// Хост по умолчанию — имя сервиса в docker-compose; локально DB_HOST=localhost.
type DB struct {
	Host     string `envconfig:"DB_HOST" default:"postgres"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"botuser"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	Name     string `envconfig:"DB_NAME" default:"stamp_card"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`
}

// App — окружение и логи.
type App struct {
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
}

// Bot — приём апдейтов.
type Bot struct {
	// Сколько апдейтов обрабатываем параллельно
	MaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	// Таймаут long polling, секунды
	UpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`
}

// RateLimit — лимит команд на пользователя. Requests = 0 отключает его.
type RateLimit struct {
	Requests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"20"`
	Window   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

// Ranking — рейтинг /top.
type Ranking struct {
	Limit int `envconfig:"RANKING_LIMIT" default:"5"`
}

// Features — переключатели функций.
type Features struct {
	RankingEnabled   bool `envconfig:"FEATURE_RANKING_ENABLED" default:"true"`
	SchedulerEnabled bool `envconfig:"FEATURE_SCHEDULER_ENABLED" default:"true"`
}

// IsDevelopment — включать ли отладочный вывод библиотек.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// DSN возвращает строку подключения к PostgreSQL.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// Validate проверяет то, что не выразить тегами envconfig.
func (c *Config) Validate() error {
	var errs []error
	if c.Bot.MaxInflight <= 0 {
		errs = append(errs, errors.New("BOT_MAX_INFLIGHT должен быть > 0"))
	}
	if c.Bot.UpdateTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0"))
	}
	if c.DB.MaxConns <= 0 || c.DB.MinConns < 0 || c.DB.MinConns > c.DB.MaxConns {
		errs = append(errs, errors.New("некорректные DB_MIN_CONNS/DB_MAX_CONNS"))
	}
	if c.RateLimit.Requests < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_REQUESTS не может быть отрицательным"))
	}
	if c.RateLimit.Requests > 0 && c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW должен быть > 0"))
	}
	if c.Ranking.Limit <= 0 {
		errs = append(errs, errors.New("RANKING_LIMIT должен быть > 0"))
	}
	return errors.Join(errs...)
}

// Load читает переменные окружения и проверяет результат.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("некорректная конфигурация: %w", err)
	}
	return &cfg, nil
}
