package memory

import (
	"context"
	"sort"
	"time"

	"github.com/riskibarqy/teamsheet/internal/domain/notification"
)

type NotificationRepository struct {
	store *Store
}

func NewNotificationRepository(store *Store) *NotificationRepository {
	return &NotificationRepository{store: store}
}

func (r *NotificationRepository) Create(_ context.Context, items []notification.Notification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, item := range items {
		if _, exists := r.store.notifications[item.ID]; exists {
			return duplicateError("notifications_pkey")
		}
	}
	for _, item := range items {
		r.store.notifications[item.ID] = item
	}
	return nil
}

func (r *NotificationRepository) ListByUser(_ context.Context, userID string, limit int) ([]notification.Notification, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]notification.Notification, 0)
	for _, item := range r.store.notifications {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, notificationID, userID string, at time.Time) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.notifications[notificationID]
	if !ok || item.UserID != userID {
		return false, nil
	}
	if item.ReadAt == nil {
		item.ReadAt = &at
		r.store.notifications[notificationID] = item
	}
	return true, nil
}
