package todos

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("todo not found")
	ErrInvalidArgs = errors.New("invalid arguments")
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

type Todo struct {
	ID          int64      `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	Completed   bool       `db:"completed" json:"completed"`
	Priority    int        `db:"priority" json:"priority"`
	Category    *string    `db:"category" json:"category,omitempty"`
	DueDate     *time.Time `db:"due_date" json:"dueDate,omitempty"`
	UserID      string     `db:"user_id" json:"userId"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

type CreateInput struct {
	Title       string     `json:"title" validate:"required,max=500"`
	Description *string    `json:"description"`
	Priority    *int       `json:"priority" validate:"omitempty,min=1,max=3"`
	Category    *string    `json:"category" validate:"omitempty,max=100"`
	DueDate     *time.Time `json:"dueDate"`
}

// OptionalTime tells an absent field apart from an explicit null.
// Set is true whenever the key was present; Value is nil for null.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

func SomeTime(t time.Time) OptionalTime { return OptionalTime{Set: true, Value: &t} }

// NullTime is an explicit null, which clears the column.
func NullTime() OptionalTime { return OptionalTime{Set: true} }

// UnmarshalJSON implements json.Unmarshaler for OptionalTime
func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	o.Value = &t
	return nil
}

// MarshalJSON implements json.Marshaler for OptionalTime
func (o OptionalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}

// UpdateInput is a partial update; nil fields are left untouched.
// A dueDate of null clears the due date.
type UpdateInput struct {
	Title       *string      `json:"title" validate:"omitempty,min=1,max=500"`
	Description *string      `json:"description"`
	Completed   *bool        `json:"completed"`
	Priority    *int         `json:"priority" validate:"omitempty,min=1,max=3"`
	Category    *string      `json:"category" validate:"omitempty,max=100"`
	DueDate     OptionalTime `json:"dueDate"`
}

func (u UpdateInput) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Completed == nil &&
		u.Priority == nil && u.Category == nil && !u.DueDate.Set
}

type ListFilter struct {
	Completed *bool
	Category  string
	Limit     int
	Offset    int
}

// normalized applies the default page size and clamps the bounds.
func (f ListFilter) normalized() ListFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

type ListResult struct {
	Todos []Todo `json:"todos"`
	Total int    `json:"total"`
}

type Stats struct {
	Total     int `db:"total" json:"total"`
	Completed int `db:"completed" json:"completed"`
	Pending   int `db:"pending" json:"pending"`
	Overdue   int `db:"overdue" json:"overdue"`
}
