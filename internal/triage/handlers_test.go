package triage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"smart-todo-backend/internal/ai"
	"smart-todo-backend/internal/auth"
)

type fakeHistory struct {
	recent    []RecentTask
	records   []TaskRecord
	err       error
	gotLimit  int
	gotSince  time.Time
	gotUserID string
}

func (f *fakeHistory) RecentTasks(_ context.Context, userID string, limit int) ([]RecentTask, error) {
	f.gotUserID, f.gotLimit = userID, limit
	return f.recent, f.err
}

func (f *fakeHistory) TaskRecordsSince(_ context.Context, userID string, since time.Time) ([]TaskRecord, error) {
	f.gotUserID, f.gotSince = userID, since
	return f.records, f.err
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func asUser(r *http.Request) *http.Request {
	return r.WithContext(auth.WithUserID(r.Context(), "user-1"))
}

func unavailableModel() *mockCompleter {
	m := new(mockCompleter)
	m.On("Complete", mock.Anything, mock.Anything).Return("", ai.ErrModelUnavailable)
	return m
}

func TestSuggestTasksHandler(t *testing.T) {
	store := &fakeHistory{err: errors.New("db down")}
	h := SuggestTasksHandler(newTestService(unavailableModel()), store, discard)

	w := httptest.NewRecorder()
	h(w, asUser(httptest.NewRequest(http.MethodPost, "/ai/suggest-tasks", strings.NewReader(`{"input":"get fit"}`))))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get(FallbackHeader))
	assert.Equal(t, "user-1", store.gotUserID)
	assert.Equal(t, maxHistoryItems, store.gotLimit)

	var body struct {
		Suggestions []TaskSuggestion `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Suggestions, 2)
	assert.Equal(t, "30-minute workout", body.Suggestions[0].Title)
}

func TestSuggestTasksHandler_BadRequest(t *testing.T) {
	h := SuggestTasksHandler(newTestService(unavailableModel()), &fakeHistory{}, discard)

	for body, msg := range map[string]string{
		`{}`:              `field Input failed`,
		`{"input":"   "}`: `input is required`,
		`not json`:        `invalid json`,
		`{"input":42}`:    `invalid json`,
	} {
		w := httptest.NewRecorder()
		h(w, asUser(httptest.NewRequest(http.MethodPost, "/ai/suggest-tasks", strings.NewReader(body))))
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Contains(t, w.Body.String(), msg, body)
	}
}

func TestSmartCategorizeHandler(t *testing.T) {
	model := new(mockCompleter)
	model.On("Complete", mock.Anything, mock.Anything).
		Return(`{"category":"Finance","priority":3,"reasoning":"tax deadline"}`, nil).Once()
	h := SmartCategorizeHandler(newTestService(model))

	w := httptest.NewRecorder()
	h(w, asUser(httptest.NewRequest(http.MethodPost, "/ai/smart-categorize", strings.NewReader(`{"title":"File taxes"}`))))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get(FallbackHeader))
	assert.JSONEq(t, `{"category":"Finance","priority":3,"reasoning":"tax deadline"}`, w.Body.String())
}

func TestSmartCategorizeHandler_EmptyTitle(t *testing.T) {
	model := new(mockCompleter)
	h := SmartCategorizeHandler(newTestService(model))

	w := httptest.NewRecorder()
	h(w, asUser(httptest.NewRequest(http.MethodPost, "/ai/smart-categorize", strings.NewReader(`{"title":"  ","description":"x"}`))))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "title is required")
	model.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestSmartCategorizeHandler_MalformedBody(t *testing.T) {
	model := new(mockCompleter)
	h := SmartCategorizeHandler(newTestService(model))

	for body, msg := range map[string]string{
		`{"title":`:           `invalid json`,
		`{"description":"x"}`: `field Title failed`,
	} {
		w := httptest.NewRecorder()
		h(w, asUser(httptest.NewRequest(http.MethodPost, "/ai/smart-categorize", strings.NewReader(body))))
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Contains(t, w.Body.String(), msg, body)
		assert.NotContains(t, w.Body.String(), "title is required", body)
	}
	model.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestSmartCategorizeHandler_Unauthorized(t *testing.T) {
	h := SmartCategorizeHandler(newTestService(new(mockCompleter)))

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodPost, "/ai/smart-categorize", strings.NewReader(`{"title":"x"}`)))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAnalyzeProductivityHandler(t *testing.T) {
	t.Run("no data", func(t *testing.T) {
		store := &fakeHistory{}
		model := new(mockCompleter)
		h := AnalyzeProductivityHandler(newTestService(model), store, discard)

		w := httptest.NewRecorder()
		h(w, asUser(httptest.NewRequest(http.MethodGet, "/ai/analyze-productivity", nil)))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get(FallbackHeader))
		assert.Equal(t, base.Add(-30*24*time.Hour), store.gotSince)

		var report ProductivityReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, NoDataAvailable, report.MostProductiveCategory)
		model.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})

	t.Run("fallback", func(t *testing.T) {
		store := &fakeHistory{records: []TaskRecord{completedAfter("Work", time.Hour)}}
		h := AnalyzeProductivityHandler(newTestService(unavailableModel()), store, discard)

		w := httptest.NewRecorder()
		h(w, asUser(httptest.NewRequest(http.MethodGet, "/ai/analyze-productivity", nil)))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1", w.Header().Get(FallbackHeader))

		var report ProductivityReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, 100, report.CompletionRate)
		assert.Equal(t, "1 hours", report.AverageCompletionTime)
	})

	t.Run("store error", func(t *testing.T) {
		h := AnalyzeProductivityHandler(newTestService(new(mockCompleter)), &fakeHistory{err: errors.New("db down")}, discard)

		w := httptest.NewRecorder()
		h(w, asUser(httptest.NewRequest(http.MethodGet, "/ai/analyze-productivity", nil)))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
