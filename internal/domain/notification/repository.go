package notification

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, items []Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, notificationID, userID string, at time.Time) (bool, error)
}

// Deliverer pushes a stored notification to an out-of-process channel.
type Deliverer interface {
	Deliver(ctx context.Context, item Notification) error
}
