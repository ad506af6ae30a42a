package res

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title    string `json:"title" validate:"required"`
	Priority int    `json:"priority" validate:"omitempty,min=1,max=3"`
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"title":"x","priority":2}`},
		{name: "priority omitted", body: `{"title":"x"}`},
		{name: "missing title", body: `{"priority":2}`, wantErr: true},
		{name: "priority out of range", body: `{"title":"x","priority":9}`, wantErr: true},
		{name: "broken json", body: `{"title":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var s sample
			err := Decode(r, &s)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "x", s.Title)
		})
	}
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, "nope", http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"nope"}`, w.Body.String())
}
