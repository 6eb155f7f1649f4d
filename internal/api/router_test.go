package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugaemi/dragonboatrace-server/internal/store"
)

type fixedSessions int

func (n fixedSessions) SessionCount() int { return int(n) }

// failingStore fails ListSaves with err.
type failingStore struct {
	store.MemoryStore
	err error
}

func (s *failingStore) ListSaves(context.Context) ([]store.SaveRecord, error) { return nil, s.err }

func setupAPI(t *testing.T) (http.Handler, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, st.PutSave(ctx, &store.SaveRecord{Slot: "b", PlayerName: "PLAYER", Round: 2, Data: []byte(`{"version":1}`), SavedAt: time.Now()}))
	require.NoError(t, st.PutSave(ctx, &store.SaveRecord{Slot: "a", PlayerName: "PLAYER", Round: 1, Data: []byte(`{"version":1}`), SavedAt: time.Now()}))
	for round := 1; round <= 3; round++ {
		require.NoError(t, st.RecordResult(ctx, &store.ResultRecord{ID: string(rune('0' + round)), Round: round, Outcome: "finished"}))
	}
	return NewRouter(st, fixedSessions(2)), st
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := setupAPI(t)

	rec := do(t, h, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok","sessions":2}`, rec.Body.String())
}

func TestListSaves(t *testing.T) {
	h, _ := setupAPI(t)

	rec := do(t, h, http.MethodGet, "/api/v1/saves")
	require.Equal(t, http.StatusOK, rec.Code)

	var saves []store.SaveRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saves))
	require.Len(t, saves, 2)
	assert.Equal(t, "a", saves[0].Slot)
	assert.Equal(t, "b", saves[1].Slot)
	assert.Empty(t, saves[0].Data)
}

func TestGetSave(t *testing.T) {
	h, _ := setupAPI(t)

	rec := do(t, h, http.MethodGet, "/api/v1/saves/b")
	require.Equal(t, http.StatusOK, rec.Code)

	var save store.SaveRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &save))
	assert.Equal(t, 2, save.Round)
	assert.JSONEq(t, `{"version":1}`, string(save.Data))

	rec = do(t, h, http.MethodGet, "/api/v1/saves/zzz")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())
}

func TestDeleteSave(t *testing.T) {
	h, st := setupAPI(t)

	rec := do(t, h, http.MethodDelete, "/api/v1/saves/a")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err := st.GetSave(context.Background(), "a")
	assert.ErrorIs(t, err, store.ErrNotFound)

	rec = do(t, h, http.MethodDelete, "/api/v1/saves/a")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListResults(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantRounds []int
	}{
		{"default limit", "", http.StatusOK, []int{3, 2, 1}},
		{"limited", "?limit=2", http.StatusOK, []int{3, 2}},
		{"zero", "?limit=0", http.StatusBadRequest, nil},
		{"too large", "?limit=1000", http.StatusBadRequest, nil},
		{"not a number", "?limit=few", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupAPI(t)

			rec := do(t, h, http.MethodGet, "/api/v1/results"+tt.query)
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var results []store.ResultRecord
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
			rounds := make([]int, len(results))
			for i, r := range results {
				rounds[i] = r.Round
			}
			assert.Equal(t, tt.wantRounds, rounds)
		})
	}
}

func TestStoreFailure(t *testing.T) {
	st := &failingStore{err: errors.New("connection refused")}
	h := NewRouter(st, fixedSessions(0))

	rec := do(t, h, http.MethodGet, "/api/v1/saves")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}
