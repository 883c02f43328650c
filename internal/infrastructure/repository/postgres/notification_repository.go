package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/teamsheet/internal/domain/notification"
	qb "github.com/riskibarqy/teamsheet/internal/platform/querybuilder"
)

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, items []notification.Notification) error {
	if len(items) == 0 {
		return nil
	}

	builder := qb.InsertInto("notifications").Columns(
		"public_id",
		"user_id",
		"type",
		"title",
		"message",
		"related_team_id",
		"related_match_id",
		"related_request_id",
		"created_at",
	)
	for _, item := range items {
		builder = builder.Values(
			item.ID,
			item.UserID,
			string(item.Type),
			item.Title,
			item.Message,
			item.RelatedTeamID,
			item.RelatedMatchID,
			item.RelatedRequestID,
			item.CreatedAt,
		)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build create notifications query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create notifications: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]notification.Notification, error) {
	builder := qb.Select("*").From("notifications").
		Where(qb.Eq("user_id", userID)).
		OrderBy("created_at DESC", "public_id")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list notifications query: %w", err)
	}

	var rows []notificationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	out := make([]notification.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, notificationFromRow(row))
	}
	return out, nil
}

// MarkRead keeps the first read_at; a second call still reports the row as found.
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, userID string, at time.Time) (bool, error) {
	query, args, err := qb.Update("notifications").
		SetExpr("read_at", "COALESCE(read_at, ?)", at).
		Where(
			qb.Eq("public_id", notificationID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build mark notification read query: %w", err)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	affected, err := rowsAffected(result, "mark notification read")
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
