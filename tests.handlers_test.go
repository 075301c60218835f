package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestAPIHandler returns an api handler wired onto the given mocks.
func newTestAPIHandler(library LibraryProvider, audit AuditStorage) *APIHandler {
	return NewAPIHandler(zap.NewNop(), nil, &Statistics{started: time.Now()}, NewMockClocker(), library, audit)
}

// decodeBody decodes a response body into a generic map.
func decodeBody(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	m := make(map[string]interface{})
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

// TestStatusHandler ensures api handler can provide its status.
func TestStatusHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	api := newTestAPIHandler(nil, nil)
	api.Status(w, req, httprouter.Params{})
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))

	m := decodeBody(t, res.Body)
	_, ok := m["requestid"]
	assert.True(t, ok)
	assert.Equal(t, "up & running since 0 mins", m["status"])
	assert.Equal(t, "Hello. Library catalog api is available. Enjoy :)", m["message"])
}

// TestIndexHandler ensures the root path redirects to the status.
func TestIndexHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	api := newTestAPIHandler(nil, nil)
	api.Index(w, req, httprouter.Params{})
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/status", res.Header.Get("Location"))
}

// TestMaintenanceHandler ensures the maintenance mode toggles and
// answers with 503 while enabled.
func TestMaintenanceHandler(t *testing.T) {
	api := newTestAPIHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/ops/maintenance?status=enable&msg=back+soon", nil)
	w := httptest.NewRecorder()
	api.Maintenance(w, req, httprouter.Params{})
	res := w.Result()
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, api.mode.enabled.Load())
	assert.Equal(t, "back soon", api.mode.message)

	req = httptest.NewRequest(http.MethodGet, "/v1/books", nil)
	w = httptest.NewRecorder()
	api.Maintenance(w, req, httprouter.Params{httprouter.Param{Key: "status", Value: "show"}})
	res = w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	m := decodeBody(t, res.Body)
	assert.Equal(t, "service currently unavailable.", m["message"])
	assert.Equal(t, "back soon", m["reason"])

	req = httptest.NewRequest(http.MethodGet, "/ops/maintenance?status=disable", nil)
	w = httptest.NewRecorder()
	api.Maintenance(w, req, httprouter.Params{})
	w.Result().Body.Close()
	assert.False(t, api.mode.enabled.Load())
}

// TestMapErrorStatus ensures each catalog error lands on its http
// status code.
func TestMapErrorStatus(t *testing.T) {
	testCases := []struct {
		err    error
		status int
	}{
		{ErrNothingFound, http.StatusNotFound},
		{ErrArguments, http.StatusBadRequest},
		{ErrInvalidBook, http.StatusBadRequest},
		{ErrInvalidUser, http.StatusBadRequest},
		{ErrReferencedCategory, http.StatusConflict},
		{ErrReferencedUser, http.StatusConflict},
		{ErrLogic, http.StatusConflict},
		{ErrLendingUserMayNotBorrow, http.StatusConflict},
		{ErrLendingBookNotBorrowable, http.StatusConflict},
		{ErrLendingBookAlreadyBorrowed, http.StatusConflict},
		{ErrLendingBookAlreadyBorrowedByUser, http.StatusConflict},
		{ErrLendingBookAlreadyReserved, http.StatusConflict},
		{ErrLendingBookNotBorrowed, http.StatusConflict},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		status, message := mapErrorStatus(tc.err)
		assert.Equal(t, tc.status, status)
		assert.NotEmpty(t, message)
	}
}

// TestGetAuditTrailHandler ensures the trail endpoint pages through
// the storage.
func TestGetAuditTrailHandler(t *testing.T) {
	storage := &MockAuditStorage{
		ListFunc: func(_ context.Context, limit int) ([]AuditEvent, error) {
			return []AuditEvent{
				{ID: "a:2", Kind: AuditBookDeleted, Entity: "FANT DOE 1", At: "2026-08-30T10:00:02Z"},
				{ID: "a:1", Kind: AuditBookCreated, Entity: "FANT DOE 1", At: "2026-08-30T10:00:01Z"},
			}, nil
		},
	}
	api := newTestAPIHandler(nil, storage)

	req := httptest.NewRequest(http.MethodGet, "/ops/audit?limit=10", nil)
	w := httptest.NewRecorder()
	api.GetAuditTrail(w, req, httprouter.Params{})
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	m := decodeBody(t, res.Body)
	assert.Equal(t, float64(2), m["total"])
	events, ok := m["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, events, 2)
	first, ok := events[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "a:2", first["id"])
}
