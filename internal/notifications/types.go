package notifications

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("notification not found")

const (
	TypeInfo    = "info"
	TypeWarning = "warning"
	TypeError   = "error"
	TypeSuccess = "success"

	DefaultLimit = 20
	MaxLimit     = 100
)

type Notification struct {
	ID        int64      `db:"id" json:"id"`
	UserID    string     `db:"user_id" json:"userId"`
	Title     string     `db:"title" json:"title"`
	Message   string     `db:"message" json:"message"`
	Type      string     `db:"type" json:"type"`
	Read      bool       `db:"read" json:"read"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	ExpiresAt *time.Time `db:"expires_at" json:"expiresAt,omitempty"`
}

type CreateInput struct {
	Title     string     `json:"title" validate:"required,max=200"`
	Message   string     `json:"message" validate:"required,max=2000"`
	Type      string     `json:"type" validate:"omitempty,oneof=info warning error success"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

type ListResult struct {
	Notifications []Notification `json:"notifications"`
	Total         int            `json:"total"`
}
