package postgres

import (
	"time"

	"github.com/riskibarqy/teamsheet/internal/domain/notification"
)

type notificationTableModel struct {
	ID               int64      `db:"id"`
	PublicID         string     `db:"public_id"`
	UserID           string     `db:"user_id"`
	Type             string     `db:"type"`
	Title            string     `db:"title"`
	Message          string     `db:"message"`
	RelatedTeamID    string     `db:"related_team_id"`
	RelatedMatchID   string     `db:"related_match_id"`
	RelatedRequestID string     `db:"related_request_id"`
	ReadAt           *time.Time `db:"read_at"`
	CreatedAt        time.Time  `db:"created_at"`
}

type notificationInsertModel struct {
	PublicID         string    `db:"public_id"`
	UserID           string    `db:"user_id"`
	Type             string    `db:"type"`
	Title            string    `db:"title"`
	Message          string    `db:"message"`
	RelatedTeamID    string    `db:"related_team_id,omitempty"`
	RelatedMatchID   string    `db:"related_match_id,omitempty"`
	RelatedRequestID string    `db:"related_request_id,omitempty"`
	CreatedAt        time.Time `db:"created_at"`
}

func notificationFromRow(row notificationTableModel) notification.Notification {
	return notification.Notification{
		ID:               row.PublicID,
		UserID:           row.UserID,
		Type:             notification.Type(row.Type),
		Title:            row.Title,
		Message:          row.Message,
		RelatedTeamID:    row.RelatedTeamID,
		RelatedMatchID:   row.RelatedMatchID,
		RelatedRequestID: row.RelatedRequestID,
		ReadAt:           row.ReadAt,
		CreatedAt:        row.CreatedAt,
	}
}
