package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"smart-todo-backend/internal/todos"
)

const (
	reminderWindow = 24 * time.Hour
	dedupWindow    = 24 * time.Hour
)

type DueSource interface {
	DueBefore(ctx context.Context, cutoff time.Time) ([]todos.DueTodo, error)
}

// Sink stores a notification unless an identical one was stored after since.
type Sink interface {
	CreateUnlessRecent(ctx context.Context, userID string, in CreateInput, since time.Time) (bool, error)
}

// Checker turns overdue and soon-due todos into notifications.
type Checker struct {
	mu    sync.Mutex
	todos DueSource
	sink  Sink
	log   *slog.Logger
	now   func() time.Time
}

func NewChecker(due DueSource, sink Sink, log *slog.Logger) *Checker {
	return &Checker{todos: due, sink: sink, log: log, now: time.Now}
}

// Check runs one pass and returns how many notifications it created.
// Passes never overlap within a process.
func (c *Checker) Check(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	due, err := c.todos.DueBefore(ctx, now.Add(reminderWindow))
	if err != nil {
		return 0, err
	}

	created := 0
	for _, t := range due {
		in := deadlineNotice(t, now)

		ok, err := c.sink.CreateUnlessRecent(ctx, t.UserID, in, now.Add(-dedupWindow))
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}

	if created > 0 {
		c.log.Info("deadline notifications created", "count", created, "scanned", len(due))
	}
	return created, nil
}

// Run checks on every tick until ctx is done.
func (c *Checker) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := c.Check(ctx); err != nil {
				c.log.Error("deadline check failed", "error", err)
			}
		}
	}
}

func deadlineNotice(t todos.DueTodo, now time.Time) CreateInput {
	if t.DueDate.Before(now) {
		return CreateInput{
			Title:   "Overdue Task",
			Message: fmt.Sprintf(`Task "%s" is overdue`, t.Title),
			Type:    TypeWarning,
		}
	}
	return CreateInput{
		Title:   "Upcoming Deadline",
		Message: fmt.Sprintf(`Task "%s" is due tomorrow`, t.Title),
		Type:    TypeInfo,
	}
}
