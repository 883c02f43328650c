package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/teamsheet/internal/domain/notification"
	idgen "github.com/riskibarqy/teamsheet/internal/platform/id"
	"github.com/riskibarqy/teamsheet/internal/platform/logging"
	"github.com/riskibarqy/teamsheet/internal/platform/metrics"
)

const (
	defaultNotifyWorkers      = 4
	notifyMaxBlockingTasks    = 1024
	defaultNotificationLimit  = 50
	maxNotificationListLimit  = 100
	notificationChannelStore  = "store"
	notificationChannelRemote = "webhook"
)

// NotificationService stores notifications off the request path and forwards them to an optional Deliverer.
type NotificationService struct {
	repo      notification.Repository
	idGen     idgen.Generator
	deliverer notification.Deliverer
	metrics   metrics.Recorder
	logger    *logging.Logger
	pool      *ants.Pool
	inflight  sync.WaitGroup
	now       func() time.Time
}

func NewNotificationService(
	repo notification.Repository,
	idGen idgen.Generator,
	deliverer notification.Deliverer,
	recorder metrics.Recorder,
	logger *logging.Logger,
	workers int,
) (*NotificationService, error) {
	if workers <= 0 {
		workers = defaultNotifyWorkers
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if logger == nil {
		logger = logging.Default()
	}

	pool, err := ants.NewPool(workers, ants.WithMaxBlockingTasks(notifyMaxBlockingTasks))
	if err != nil {
		return nil, fmt.Errorf("create notification worker pool: %w", err)
	}
	return &NotificationService{
		repo:      repo,
		idGen:     idGen,
		deliverer: deliverer,
		metrics:   recorder,
		logger:    logger,
		pool:      pool,
		now:       time.Now,
	}, nil
}

// Notify never fails the caller; storage and delivery errors are logged and counted.
func (s *NotificationService) Notify(ctx context.Context, items ...notification.Notification) {
	if len(items) == 0 {
		return
	}

	now := s.now().UTC()
	batch := make([]notification.Notification, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.UserID) == "" {
			continue
		}
		if item.ID == "" {
			id, err := s.idGen.NewID()
			if err != nil {
				s.logger.WarnContext(ctx, "generate notification id failed", "error", err)
				continue
			}
			item.ID = id
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}
		batch = append(batch, item)
	}
	if len(batch) == 0 {
		return
	}

	ctx = context.WithoutCancel(ctx)
	s.inflight.Add(1)
	if err := s.pool.Submit(func() {
		defer s.inflight.Done()
		s.dispatch(ctx, batch)
	}); err != nil {
		s.inflight.Done()
		s.logger.WarnContext(ctx, "notification dropped", "count", len(batch), "error", err)
		for range batch {
			s.metrics.IncNotification(notificationChannelStore, "dropped")
		}
	}
}

func (s *NotificationService) dispatch(ctx context.Context, batch []notification.Notification) {
	if err := s.repo.Create(ctx, batch); err != nil {
		s.logger.ErrorContext(ctx, "store notifications failed", "count", len(batch), "error", err)
		for range batch {
			s.metrics.IncNotification(notificationChannelStore, "failed")
		}
		return
	}
	for range batch {
		s.metrics.IncNotification(notificationChannelStore, "ok")
	}
	if s.deliverer == nil {
		return
	}

	for _, item := range batch {
		if err := s.deliverer.Deliver(ctx, item); err != nil {
			s.logger.WarnContext(ctx, "deliver notification failed",
				"notification_id", item.ID,
				"type", item.Type,
				"error", err,
			)
			s.metrics.IncNotification(notificationChannelRemote, "failed")
			continue
		}
		s.metrics.IncNotification(notificationChannelRemote, "ok")
	}
}

func (s *NotificationService) ListMine(ctx context.Context, userID string, limit int) ([]notification.Notification, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationListLimit {
		limit = maxNotificationListLimit
	}

	items, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return items, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	userID = strings.TrimSpace(userID)
	notificationID = strings.TrimSpace(notificationID)
	if userID == "" || notificationID == "" {
		return fmt.Errorf("%w: user id and notification id are required", ErrInvalidInput)
	}

	ok, err := s.repo.MarkRead(ctx, notificationID, userID, s.now().UTC())
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: notification=%s", ErrNotFound, notificationID)
	}
	return nil
}

// Wait blocks until every submitted batch has been handled.
func (s *NotificationService) Wait() {
	s.inflight.Wait()
}

// Close drains in-flight work and releases the worker pool.
func (s *NotificationService) Close() {
	s.inflight.Wait()
	s.pool.Release()
}
