// Package profiles — service.go регистрирует пользователей, ведёт итоги
// баллов и обнуляет их на границах дня и недели по JST.
package profiles

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/stamp-card/internal/common"
	"serotonyl.ru/stamp-card/internal/features/pointcard"
)

// DefaultRankingLimit — размер рейтинга, если в конфиге не задан.
const DefaultRankingLimit = 5

// Store — хранилище профилей. Реализуется *Repository.
type Store interface {
	Ensure(ctx context.Context, userID int64, displayName, date, week string) (bool, error)
	Get(ctx context.Context, userID int64) (*Profile, error)
	ResetDaily(ctx context.Context, userID int64, date string) (int, error)
	ResetWeekly(ctx context.Context, userID int64, week string) (int, error)
	Ranking(ctx context.Context, limit int) ([]*Profile, error)
}

// Service управляет профилями.
type Service struct {
	store        Store
	rankingLimit int
	now          func() time.Time
}

// NewService создаёт сервис профилей.
func NewService(store Store, rankingLimit int) *Service {
	if rankingLimit <= 0 {
		rankingLimit = DefaultRankingLimit
	}
	return &Service{store: store, rankingLimit: rankingLimit, now: time.Now}
}

// Ensure регистрирует пользователя при первом обращении и обновляет имя.
func (s *Service) Ensure(ctx context.Context, userID int64, username, firstName, lastName string) error {
	now := s.now()
	created, err := s.store.Ensure(ctx, userID, DisplayName(username, firstName, lastName),
		common.DateKey(now), common.WeekKey(now))
	if err != nil {
		return err
	}
	if created {
		log.WithFields(log.Fields{
			"user_id":  userID,
			"username": username,
		}).Info("Новый пользователь зарегистрирован")
	}
	return nil
}

// Get возвращает профиль пользователя.
func (s *Service) Get(ctx context.Context, userID int64) (*Profile, error) {
	return s.store.Get(ctx, userID)
}

// CardTotals возвращает итоги баллов для карточки.
func (s *Service) CardTotals(ctx context.Context, userID int64) (pointcard.Totals, error) {
	p, err := s.store.Get(ctx, userID)
	if err != nil {
		return pointcard.Totals{}, err
	}
	return pointcard.Totals{Today: p.PointsToday, Week: p.PointsThisWeek, Total: p.PointsTotal}, nil
}

// SyncPeriods обнуляет баллы пользователя за прошедшие день и неделю,
// если плановое обнуление до него ещё не дошло.
func (s *Service) SyncPeriods(ctx context.Context, userID int64) (dayReset, weekReset bool, err error) {
	now := s.now()
	n, err := s.store.ResetDaily(ctx, userID, common.DateKey(now))
	if err != nil {
		return false, false, err
	}
	dayReset = n > 0

	n, err = s.store.ResetWeekly(ctx, userID, common.WeekKey(now))
	if err != nil {
		return dayReset, false, err
	}
	return dayReset, n > 0, nil
}

// ResetAllDaily обнуляет баллы за день у всех, кто ещё не обнулён сегодня.
func (s *Service) ResetAllDaily(ctx context.Context) (int, error) {
	return s.store.ResetDaily(ctx, 0, common.DateKey(s.now()))
}

// ResetAllWeekly обнуляет баллы за неделю у всех.
func (s *Service) ResetAllWeekly(ctx context.Context) (int, error) {
	return s.store.ResetWeekly(ctx, 0, common.WeekKey(s.now()))
}

// Ranking возвращает лучших по баллам за всё время.
func (s *Service) Ranking(ctx context.Context) ([]*Profile, error) {
	return s.store.Ranking(ctx, s.rankingLimit)
}
