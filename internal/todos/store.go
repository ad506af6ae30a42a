package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"smart-todo-backend/internal/db"
	"smart-todo-backend/internal/triage"
)

const todoColumns = `id, title, description, completed, priority, category, due_date, user_id, created_at, updated_at`

type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewStore(dbx *sqlx.DB) *Store {
	return &Store{db: dbx, now: time.Now}
}

func (s *Store) List(ctx context.Context, userID string, f ListFilter) (ListResult, error) {
	f = f.normalized()

	where := []string{"user_id = $1"}
	args := []any{userID}
	if f.Completed != nil {
		args = append(args, *f.Completed)
		where = append(where, fmt.Sprintf("completed = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM todos WHERE `+clause, args...); err != nil {
		return ListResult{}, fmt.Errorf("count todos: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM todos
		WHERE %s
		ORDER BY completed ASC, priority DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, todoColumns, clause, len(args)+1, len(args)+2)

	todos := []Todo{}
	if err := s.db.SelectContext(ctx, &todos, query, append(args, f.Limit, f.Offset)...); err != nil {
		return ListResult{}, fmt.Errorf("list todos: %w", err)
	}

	return ListResult{Todos: todos, Total: total}, nil
}

func (s *Store) Create(ctx context.Context, userID string, in CreateInput) (Todo, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Todo{}, fmt.Errorf("%w: title is required", ErrInvalidArgs)
	}
	priority := 1
	if in.Priority != nil {
		priority = *in.Priority
	}
	now := s.now().UTC()

	var t Todo
	err := s.db.GetContext(ctx, &t, `
		INSERT INTO todos (title, description, priority, category, due_date, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING `+todoColumns,
		title, blankToNil(in.Description), priority, blankToNil(in.Category), in.DueDate, userID, now,
	)
	if err != nil {
		if db.IsCheckViolation(err) {
			return Todo{}, fmt.Errorf("%w: %v", ErrInvalidArgs, err)
		}
		return Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	return t, nil
}

// Update applies the fields present in in and bumps updated_at.
func (s *Store) Update(ctx context.Context, userID string, id int64, in UpdateInput) (Todo, error) {
	if in.Empty() {
		return Todo{}, fmt.Errorf("%w: no fields to update", ErrInvalidArgs)
	}

	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return Todo{}, fmt.Errorf("%w: title must not be empty", ErrInvalidArgs)
		}
		set("title", title)
	}
	if in.Description != nil {
		set("description", blankToNil(in.Description))
	}
	if in.Completed != nil {
		set("completed", *in.Completed)
	}
	if in.Priority != nil {
		set("priority", *in.Priority)
	}
	if in.Category != nil {
		set("category", blankToNil(in.Category))
	}
	if in.DueDate.Set {
		set("due_date", in.DueDate.Value)
	}
	set("updated_at", s.now().UTC())

	args = append(args, id, userID)
	query := fmt.Sprintf(`
		UPDATE todos
		SET %s
		WHERE id = $%d AND user_id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), len(args)-1, len(args), todoColumns)

	var t Todo
	if err := s.db.GetContext(ctx, &t, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Todo{}, ErrNotFound
		}
		if db.IsCheckViolation(err) {
			return Todo{}, fmt.Errorf("%w: %v", ErrInvalidArgs, err)
		}
		return Todo{}, fmt.Errorf("update todo: %w", err)
	}
	return t, nil
}

// Delete removes the todo and returns what was deleted.
func (s *Store) Delete(ctx context.Context, userID string, id int64) (Todo, error) {
	var t Todo
	err := s.db.GetContext(ctx, &t, `
		DELETE FROM todos
		WHERE id = $1 AND user_id = $2
		RETURNING `+todoColumns, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Todo{}, ErrNotFound
		}
		return Todo{}, fmt.Errorf("delete todo: %w", err)
	}
	return t, nil
}

func (s *Store) Stats(ctx context.Context, userID string) (Stats, error) {
	var st Stats
	err := s.db.GetContext(ctx, &st, `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE completed = true) AS completed,
			COUNT(*) FILTER (WHERE completed = false) AS pending,
			COUNT(*) FILTER (WHERE completed = false AND due_date < $2) AS overdue
		FROM todos
		WHERE user_id = $1
	`, userID, s.now().UTC())
	if err != nil {
		return Stats{}, fmt.Errorf("todo stats: %w", err)
	}
	return st, nil
}

// RecentTasks returns the newest todos first.
func (s *Store) RecentTasks(ctx context.Context, userID string, limit int) ([]triage.RecentTask, error) {
	out := []triage.RecentTask{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT title, COALESCE(category, '') AS category
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent tasks: %w", err)
	}
	return out, nil
}

func (s *Store) TaskRecordsSince(ctx context.Context, userID string, since time.Time) ([]triage.TaskRecord, error) {
	out := []triage.TaskRecord{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT completed, priority, COALESCE(category, '') AS category, created_at, updated_at, due_date
		FROM todos
		WHERE user_id = $1 AND created_at > $2
		ORDER BY created_at DESC
	`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("task records: %w", err)
	}
	return out, nil
}

// Overdue scans feed the deadline checker.
type DueTodo struct {
	ID      int64     `db:"id"`
	UserID  string    `db:"user_id"`
	Title   string    `db:"title"`
	DueDate time.Time `db:"due_date"`
}

// DueBefore lists incomplete todos of every user due before cutoff.
func (s *Store) DueBefore(ctx context.Context, cutoff time.Time) ([]DueTodo, error) {
	out := []DueTodo{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, user_id, title, due_date
		FROM todos
		WHERE completed = false AND due_date IS NOT NULL AND due_date < $1
		ORDER BY due_date ASC
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("due todos: %w", err)
	}
	return out, nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
