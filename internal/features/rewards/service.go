// Package rewards — service.go проверяет награды перед сохранением.
package rewards

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/stamp-card/internal/common"
	"serotonyl.ru/stamp-card/internal/features/pointcard"
)

// Store — хранилище наград. Реализуется *Repository.
type Store interface {
	List(ctx context.Context, userID int64) ([]*Reward, error)
	Create(ctx context.Context, rw *Reward) error
	Update(ctx context.Context, rw *Reward) error
	Delete(ctx context.Context, userID int64, rewardID string) error
}

// Service управляет наградами.
type Service struct {
	store Store
	newID func() string
}

// NewService создаёт сервис наград.
func NewService(store Store) *Service {
	return &Service{store: store, newID: uuid.NewString}
}

// List возвращает награды по возрастанию порога.
func (s *Service) List(ctx context.Context, userID int64) ([]*Reward, error) {
	return s.store.List(ctx, userID)
}

// CardRewards возвращает награды в формате карточки.
func (s *Service) CardRewards(ctx context.Context, userID int64) ([]pointcard.Reward, error) {
	list, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToCard(list), nil
}

// ByNumber возвращает награду по номеру в списке /rewards (с единицы).
func (s *Service) ByNumber(ctx context.Context, userID int64, n int) (*Reward, error) {
	list, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if n < 1 || n > len(list) {
		return nil, common.ErrRewardNotFound
	}
	return list[n-1], nil
}

// Add создаёт награду на пороге points.
func (s *Service) Add(ctx context.Context, userID int64, label string, points int) (*Reward, error) {
	label, err := validate(label, points)
	if err != nil {
		return nil, err
	}

	rw := &Reward{ID: s.newID(), UserID: userID, Label: label, Points: points}
	if err := s.store.Create(ctx, rw); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id":   userID,
		"reward_id": rw.ID,
		"points":    points,
	}).Info("Награда создана")
	return rw, nil
}

// Edit меняет награду. Пустой label оставляет прежнее название.
func (s *Service) Edit(ctx context.Context, rw *Reward, label string, points int) (*Reward, error) {
	if strings.TrimSpace(label) == "" {
		label = rw.Label
	}
	label, err := validate(label, points)
	if err != nil {
		return nil, err
	}

	updated := *rw
	updated.Label = label
	updated.Points = points
	if err := s.store.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete удаляет награду.
func (s *Service) Delete(ctx context.Context, userID int64, rewardID string) error {
	if err := s.store.Delete(ctx, userID, rewardID); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"user_id":   userID,
		"reward_id": rewardID,
	}).Info("Награда удалена")
	return nil
}

func validate(label string, points int) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", common.ErrEmptyLabel
	}
	if utf8.RuneCountInString(label) > MaxLabelLength {
		return "", common.ErrLabelTooLong
	}
	if points <= 0 {
		return "", common.ErrInvalidPoints
	}
	if points > MaxRewardPoints {
		return "", common.ErrRewardPointsTooLarge
	}
	return label, nil
}
