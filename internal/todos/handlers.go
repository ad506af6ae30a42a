package todos

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"smart-todo-backend/internal/activity"
	"smart-todo-backend/internal/auth"
	"smart-todo-backend/internal/res"
)

// Repository is the storage the handlers need; *Store implements it.
type Repository interface {
	List(ctx context.Context, userID string, f ListFilter) (ListResult, error)
	Create(ctx context.Context, userID string, in CreateInput) (Todo, error)
	Update(ctx context.Context, userID string, id int64, in UpdateInput) (Todo, error)
	Delete(ctx context.Context, userID string, id int64) (Todo, error)
	Stats(ctx context.Context, userID string) (Stats, error)
}

type Handlers struct {
	repo     Repository
	activity *activity.Recorder
	log      *slog.Logger
}

func NewHandlers(repo Repository, acts *activity.Recorder, log *slog.Logger) *Handlers {
	return &Handlers{repo: repo, activity: acts, log: log}
}

// GET /todos
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		res.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	f, err := parseListFilter(r)
	if err != nil {
		res.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	out, err := h.repo.List(r.Context(), uid, f)
	if err != nil {
		h.fail(w, "list todos failed", uid, err)
		return
	}
	res.JSON(w, out, http.StatusOK)
}

// POST /todos
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		res.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var in CreateInput
	if err := res.Decode(r, &in); err != nil {
		res.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	t, err := h.repo.Create(r.Context(), uid, in)
	if err != nil {
		h.fail(w, "create todo failed", uid, err)
		return
	}

	h.record(r, uid, activity.ActionCreated, t.ID, map[string]any{
		"title":    t.Title,
		"priority": t.Priority,
		"category": t.Category,
	})
	res.JSON(w, t, http.StatusCreated)
}

// PUT /todos/{id}
func (h *Handlers) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		res.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := pathID(r)
	if err != nil {
		res.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var in UpdateInput
	if err := res.Decode(r, &in); err != nil {
		res.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	t, err := h.repo.Update(r.Context(), uid, id, in)
	if err != nil {
		h.fail(w, "update todo failed", uid, err)
		return
	}

	action := activity.ActionUpdated
	if in.Completed != nil && *in.Completed {
		action = activity.ActionCompleted
	}
	h.record(r, uid, action, t.ID, map[string]any{"changes": in})
	res.JSON(w, t, http.StatusOK)
}

// DELETE /todos/{id}
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		res.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := pathID(r)
	if err != nil {
		res.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	t, err := h.repo.Delete(r.Context(), uid, id)
	if err != nil {
		h.fail(w, "delete todo failed", uid, err)
		return
	}

	h.record(r, uid, activity.ActionDeleted, t.ID, map[string]any{"title": t.Title})
	w.WriteHeader(http.StatusNoContent)
}

// GET /todos/stats
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		res.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	st, err := h.repo.Stats(r.Context(), uid)
	if err != nil {
		h.fail(w, "todo stats failed", uid, err)
		return
	}
	res.JSON(w, st, http.StatusOK)
}

func (h *Handlers) record(r *http.Request, uid, action string, id int64, details map[string]any) {
	env := activity.FromRequest(r)
	env.UserID = uid
	h.activity.Record(r.Context(), env, action, activity.EntityTodo, id, details)
}

func (h *Handlers) fail(w http.ResponseWriter, msg, uid string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		res.Error(w, ErrNotFound.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidArgs):
		res.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.log.Error(msg, "user_id", uid, "error", err)
		res.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidArgs
	}
	return id, nil
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	f := ListFilter{Category: strings.TrimSpace(q.Get("category"))}

	if v := q.Get("completed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return ListFilter{}, errors.New("completed must be true or false")
		}
		f.Completed = &b
	}

	for name, dst := range map[string]*int{"limit": &f.Limit, "offset": &f.Offset} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return ListFilter{}, errors.New(name + " must be a non-negative integer")
		}
		*dst = n
	}

	return f, nil
}
