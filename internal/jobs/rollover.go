// Package jobs — rollover.go переводит пользователей на новый день и неделю.
//
// Плановый запуск обнуляет всех сразу. Перед каждой командой то же
// делается для одного пользователя, чтобы пропущенный запуск cron
// (бот был выключен в полночь) не оставил вчерашние баллы.
// Обе операции идемпотентны: повторный запуск в тот же день ничего не меняет.
package jobs

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// PeriodResetter обнуляет баллы за день и неделю. Реализуется profiles.Service.
type PeriodResetter interface {
	ResetAllDaily(ctx context.Context) (int, error)
	ResetAllWeekly(ctx context.Context) (int, error)
	SyncPeriods(ctx context.Context, userID int64) (dayReset, weekReset bool, err error)
}

// DailySeeder создаёт статусы ежедневной рутины. Реализуется completions.Service.
type DailySeeder interface {
	SeedDaily(ctx context.Context, userID int64) (int64, error)
}

// Rollover выполняет переход на новый день и неделю.
type Rollover struct {
	periods PeriodResetter
	seeder  DailySeeder
}

// NewRollover создаёт Rollover.
func NewRollover(periods PeriodResetter, seeder DailySeeder) *Rollover {
	return &Rollover{periods: periods, seeder: seeder}
}

// RunDaily обнуляет баллы за день у всех и создаёт статусы рутины на сегодня.
func (r *Rollover) RunDaily(ctx context.Context) error {
	reset, err := r.periods.ResetAllDaily(ctx)
	if err != nil {
		return fmt.Errorf("ошибка обнуления дня: %w", err)
	}
	seeded, err := r.seeder.SeedDaily(ctx, 0)
	if err != nil {
		return fmt.Errorf("ошибка создания статусов рутины: %w", err)
	}
	log.WithFields(log.Fields{
		"profiles": reset,
		"statuses": seeded,
	}).Info("День обнулён")
	return nil
}

// RunWeekly обнуляет баллы за неделю у всех.
func (r *Rollover) RunWeekly(ctx context.Context) error {
	reset, err := r.periods.ResetAllWeekly(ctx)
	if err != nil {
		return fmt.Errorf("ошибка обнуления недели: %w", err)
	}
	log.WithField("profiles", reset).Info("Неделя обнулена")
	return nil
}

// SyncUser догоняет пропущенные обнуления для одного пользователя.
func (r *Rollover) SyncUser(ctx context.Context, userID int64) error {
	dayReset, weekReset, err := r.periods.SyncPeriods(ctx, userID)
	if err != nil {
		return err
	}
	if dayReset {
		if _, err := r.seeder.SeedDaily(ctx, userID); err != nil {
			return err
		}
	}
	if dayReset || weekReset {
		log.WithFields(log.Fields{
			"user_id":    userID,
			"day_reset":  dayReset,
			"week_reset": weekReset,
		}).Debug("Пользователь переведён на новый период")
	}
	return nil
}
