// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: обнуление дня в 00:00 по JST
// и обнуление недели в понедельник в 00:00 по JST.
package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/stamp-card/internal/common"
)

// Расписание в часовом поясе JST
const (
	DailySpec  = "0 0 * * *"
	WeeklySpec = "0 0 * * 1"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron     *cron.Cron
	rollover *Rollover
}

// NewScheduler создаёт планировщик задач в часовом поясе JST.
func NewScheduler(rollover *Rollover) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(common.JST)),
		rollover: rollover,
	}
}

// Start регистрирует задачи и запускает планировщик.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(DailySpec, func() {
		log.Info("[CRON] Обнуление дня")
		if err := s.rollover.RunDaily(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка обнуления дня")
		}
	}); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(WeeklySpec, func() {
		log.Info("[CRON] Обнуление недели")
		if err := s.rollover.RunWeekly(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка обнуления недели")
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	log.Info("Планировщик задач запущен (JST)")
	return nil
}

// Stop останавливает планировщик и ждёт завершения запущенных задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
