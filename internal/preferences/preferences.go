package preferences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"smart-todo-backend/internal/db"
)

type Preferences struct {
	UserID             string    `db:"user_id" json:"userId"`
	EmailNotifications bool      `db:"email_notifications" json:"emailNotifications"`
	PushNotifications  bool      `db:"push_notifications" json:"pushNotifications"`
	ReminderTime       int       `db:"reminder_time" json:"reminderTime"`
	Timezone           string    `db:"timezone" json:"timezone"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time `db:"updated_at" json:"updatedAt"`
}

// Defaults are what a user gets before touching any setting.
func Defaults(userID string, now time.Time) Preferences {
	return Preferences{
		UserID:             userID,
		EmailNotifications: true,
		PushNotifications:  true,
		ReminderTime:       9,
		Timezone:           "UTC",
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

type Patch struct {
	EmailNotifications *bool   `json:"emailNotifications"`
	PushNotifications  *bool   `json:"pushNotifications"`
	ReminderTime       *int    `json:"reminderTime" validate:"omitempty,min=0,max=23"`
	Timezone           *string `json:"timezone" validate:"omitempty,timezone"`
}

// Apply returns prefs with the set fields of p written over it.
func (p Patch) Apply(prefs Preferences) Preferences {
	if p.EmailNotifications != nil {
		prefs.EmailNotifications = *p.EmailNotifications
	}
	if p.PushNotifications != nil {
		prefs.PushNotifications = *p.PushNotifications
	}
	if p.ReminderTime != nil {
		prefs.ReminderTime = *p.ReminderTime
	}
	if p.Timezone != nil {
		prefs.Timezone = strings.TrimSpace(*p.Timezone)
	}
	return prefs
}

const columns = `user_id, email_notifications, push_notifications, reminder_time, timezone, created_at, updated_at`

type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewStore(dbx *sqlx.DB) *Store {
	return &Store{db: dbx, now: time.Now}
}

// Get returns the user's preferences, creating the defaults on first read.
func (s *Store) Get(ctx context.Context, userID string) (Preferences, error) {
	var p Preferences
	err := s.db.GetContext(ctx, &p, `SELECT `+columns+` FROM user_preferences WHERE user_id = $1`, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Preferences{}, fmt.Errorf("get preferences: %w", err)
	}

	d := Defaults(userID, s.now().UTC())
	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO user_preferences (`+columns+`)
		VALUES (:user_id, :email_notifications, :push_notifications, :reminder_time, :timezone, :created_at, :updated_at)
	`, d)
	if err != nil {
		if db.IsUniqueViolation(err) {
			// created concurrently
			return s.Get(ctx, userID)
		}
		return Preferences{}, fmt.Errorf("create preferences: %w", err)
	}
	return d, nil
}

// Update writes only the fields set in patch, in one statement, so
// concurrent patches to different fields do not overwrite each other.
func (s *Store) Update(ctx context.Context, userID string, patch Patch) (Preferences, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return Preferences{}, err
	}

	var tz *string
	if patch.Timezone != nil {
		v := strings.TrimSpace(*patch.Timezone)
		tz = &v
	}

	var out Preferences
	err := s.db.GetContext(ctx, &out, `
		UPDATE user_preferences
		SET email_notifications = COALESCE($2, email_notifications),
			push_notifications = COALESCE($3, push_notifications),
			reminder_time = COALESCE($4, reminder_time),
			timezone = COALESCE($5, timezone),
			updated_at = $6
		WHERE user_id = $1
		RETURNING `+columns,
		userID, patch.EmailNotifications, patch.PushNotifications, patch.ReminderTime, tz, s.now().UTC(),
	)
	if err != nil {
		return Preferences{}, fmt.Errorf("update preferences: %w", err)
	}
	return out, nil
}
