package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeyma/commitrank/internal/domain"
	apperrors "github.com/joeyma/commitrank/internal/errors"
)

// stubStore is an in-memory Store for handler tests
type stubStore struct {
	commits []*domain.CommitRecord
	ranked  []*domain.RankedCommit
	err     error

	gotRepository string
	gotLimit      int
}

func (s *stubStore) SaveRun(ctx context.Context, run *domain.Run) error { return nil }
func (s *stubStore) SaveCommits(ctx context.Context, runID string, commits []*domain.CommitRecord) error {
	return nil
}
func (s *stubStore) SaveRankings(ctx context.Context, runID string, ranked []*domain.RankedCommit) error {
	return nil
}
func (s *stubStore) Migrate(ctx context.Context) error { return nil }
func (s *stubStore) Close() error                      { return nil }

func (s *stubStore) GetCommits(ctx context.Context, repository string, limit int) ([]*domain.CommitRecord, error) {
	s.gotRepository = repository
	s.gotLimit = limit
	return s.commits, s.err
}

func (s *stubStore) GetTopRanked(ctx context.Context, limit int) ([]*domain.RankedCommit, error) {
	s.gotLimit = limit
	return s.ranked, s.err
}

func serve(t *testing.T, store *stubStore, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := SetupRoutes(NewHandler(store))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	rec := serve(t, &stubStore{}, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetCommits(t *testing.T) {
	store := &stubStore{commits: []*domain.CommitRecord{
		{Repository: "acme/widgets", SHA: "aaa", Author: "Jane", Date: time.Now(), Message: "fix"},
	}}

	rec := serve(t, store, http.MethodGet, "/api/v1/commits?repository=acme/widgets&limit=5")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "acme/widgets", store.gotRepository)
	assert.Equal(t, 5, store.gotLimit)

	var body struct {
		Data []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data, 1)
}

func TestGetCommitsDefaultLimit(t *testing.T) {
	store := &stubStore{}
	serve(t, store, http.MethodGet, "/api/v1/commits")
	assert.Equal(t, 100, store.gotLimit)
}

func TestGetTopRanked(t *testing.T) {
	score := 9
	store := &stubStore{ranked: []*domain.RankedCommit{
		{CommitRecord: domain.CommitRecord{Repository: "acme/widgets", SHA: "aaa", Date: time.Now()}, Score: &score},
	}}

	rec := serve(t, store, http.MethodGet, "/api/v1/rankings/top")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, store.gotLimit)
}

func TestRespondErrorMapsTaxonomy(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperrors.NewNotFoundError("run"), http.StatusNotFound},
		{apperrors.NewAuthError("nope"), http.StatusUnauthorized},
		{apperrors.NewTransientError("db busy", nil), http.StatusServiceUnavailable},
		{apperrors.NewInternalError("boom", nil), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		store := &stubStore{err: tc.err}
		rec := serve(t, store, http.MethodGet, "/api/v1/rankings/top")
		assert.Equal(t, tc.status, rec.Code, "error %v", tc.err)
	}
}
