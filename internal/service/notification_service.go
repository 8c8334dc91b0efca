package service

import (
	"context"
	"errors"

	"rocksolid/climbing-trainer/internal/domain"
	"rocksolid/climbing-trainer/internal/repository"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationService interface {
	List(ctx context.Context, userID string) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

// List returns the user's notifications, newest first.
func (s *notificationService) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	if userID == "" {
		return nil, ErrPreconditionFailed
	}
	items, err := s.notificationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Notification{}
	}
	return items, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, ErrPreconditionFailed
	}
	return s.notificationRepo.CountUnread(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	if userID == "" {
		return ErrPreconditionFailed
	}
	err := s.notificationRepo.MarkRead(ctx, userID, notificationID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}
