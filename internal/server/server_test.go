package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellbot/internal/center"
	"wellbot/internal/reminder"
	"wellbot/internal/sink"
	"wellbot/internal/storage"
	logx "wellbot/pkg/logx"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	ctr, err := center.NewLocal(center.Config{Timezone: "UTC"}, sink.NewLog(logx.Nop()), clock.NewMock(), nil, logx.Nop())
	require.NoError(t, err)
	sched := reminder.New(ctr, storage.NewMemory(), reminder.Config{}, clock.NewMock(), nil, logx.Nop())
	return New("127.0.0.1:0", sched, ctr, logx.Nop()).Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestScheduleAndListRoundTrip(t *testing.T) {
	t.Parallel()
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/reminders", map[string]any{
		"category": "morning_greeting",
		"title":    "Good morning",
		"options":  map[string]any{"hour": 8, "minute": 0, "repeats": true},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	// The identical request returns the same identifier.
	rec = doJSON(t, h, http.MethodPost, "/reminders", map[string]any{
		"category": "morning_greeting",
		"title":    "Good morning",
		"options":  map[string]any{"hour": 8, "minute": 0, "repeats": true},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var dup struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dup))
	assert.Equal(t, created.ID, dup.ID)

	rec = doJSON(t, h, http.MethodGet, "/reminders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Reminders []registeredResponse `json:"reminders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Reminders, 1)
	assert.Equal(t, "morning_greeting:daily:8:0:s0", listed.Reminders[0].Key)
}

func TestScheduleRejectsBadRequests(t *testing.T) {
	t.Parallel()
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/reminders", map[string]any{
		"category": "naps",
		"title":    "zzz",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/reminders", map[string]any{
		"category": "hydration",
		"title":    "Hydrate",
		"options":  map[string]any{"hour": 10},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDefaultsAndCancelAll(t *testing.T) {
	t.Parallel()
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/reminders/defaults", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		IDs []string `json:"ids"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out.IDs, 9)

	rec = doJSON(t, h, http.MethodPost, "/reminders/defaults", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Empty(t, out.IDs)

	rec = doJSON(t, h, http.MethodDelete, "/reminders", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/reminders", nil)
	var listed struct {
		Reminders []registeredResponse `json:"reminders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Empty(t, listed.Reminders)
}

func TestCancelByID(t *testing.T) {
	t.Parallel()
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/reminders", map[string]any{
		"category": "evening_winddown",
		"title":    "Wind down",
		"options":  map[string]any{"hour": 21, "minute": 30, "repeats": true},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, h, http.MethodDelete, "/reminders/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Cancelling again is still 204; cancel failures are swallowed.
	rec = doJSON(t, h, http.MethodDelete, "/reminders/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
