package postgres

import "time"

type userTableModel struct {
	ID          int64     `db:"id"`
	PublicID    string    `db:"public_id"`
	Code        string    `db:"code"`
	DisplayName string    `db:"display_name"`
	Email       string    `db:"email"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type userInsertModel struct {
	PublicID    string    `db:"public_id"`
	Code        string    `db:"code"`
	DisplayName string    `db:"display_name"`
	Email       string    `db:"email"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
