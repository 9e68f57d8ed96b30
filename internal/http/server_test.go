package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duitku/internal/core"
	"duitku/internal/history"
	"duitku/internal/manager"
	"duitku/internal/store"
	"duitku/internal/worker"
)

type testServer struct {
	*Server
	ts      *httptest.Server
	history *history.Logger
	poller  *worker.HistoryPoller
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	kv := store.NewMemory()
	hist := history.NewLogger(kv, nil)
	exp := manager.NewExpenseManager(ctx, kv, hist, nil)
	cat := manager.NewCategoryManager(ctx, kv, hist, nil)
	src := manager.NewSourceManager(ctx, kv, hist, nil)
	poller := worker.NewHistoryPoller(hist, time.Second, nil)

	s := NewServer(":0", exp, cat, src, hist, poller, nil)
	s.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }

	ts := httptest.NewServer(s.Handler)
	t.Cleanup(ts.Close)
	return &testServer{Server: s, ts: ts, history: hist, poller: poller}
}

func (s *testServer) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, s.ts.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

const expenseBody = `{
	"date": "2024-03-05",
	"amount": 50000,
	"category": {"id": "food-drinks", "name": "Food & Drinks", "icon": "🍽️", "color": "#FF6B6B"},
	"source": {"id": "cash", "name": "Cash", "type": "cash"}
}`

func TestCreateAndListExpenses(t *testing.T) {
	s := newTestServer(t)

	resp, raw := s.do(t, http.MethodPost, "/api/expenses", expenseBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created core.Expense
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, int64(50000), created.Amount.Rupiah)

	resp, raw = s.do(t, http.MethodGet, "/api/expenses?timeframe=month", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed []core.Expense
	require.NoError(t, json.Unmarshal(raw, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestCreateExpenseValidation(t *testing.T) {
	s := newTestServer(t)

	bad := strings.Replace(expenseBody, "50000", "0", 1)
	resp, _ := s.do(t, http.MethodPost, "/api/expenses", bad)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPost, "/api/expenses", "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPost, "/api/expenses", `{"bogus": true}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteExpense(t *testing.T) {
	s := newTestServer(t)

	resp, raw := s.do(t, http.MethodPost, "/api/expenses", expenseBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created core.Expense
	require.NoError(t, json.Unmarshal(raw, &created))

	resp, _ = s.do(t, http.MethodDelete, "/api/expenses/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = s.do(t, http.MethodDelete, "/api/expenses/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListExpensesRejectsInvalidTimeframe(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, http.MethodGet, "/api/expenses?timeframe=decade", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, http.MethodPost, "/api/expenses", expenseBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := s.do(t, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dash core.DashboardStats
	require.NoError(t, json.Unmarshal(raw, &dash))
	assert.Equal(t, int64(50000), dash.TotalThisMonth.Rupiah)
	assert.Equal(t, "Food & Drinks", dash.HighestCategory.Name)
}

func TestCategoryLifecycle(t *testing.T) {
	s := newTestServer(t)

	resp, raw := s.do(t, http.MethodPost, "/api/categories",
		`{"name": "Groceries", "icon": "🛒", "color": "#4ECDC4"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created core.Category
	require.NoError(t, json.Unmarshal(raw, &created))
	require.NotEmpty(t, created.ID)

	resp, _ = s.do(t, http.MethodPut, "/api/categories/"+created.ID,
		`{"name": "Weekly Groceries", "icon": "🛒", "color": "#4ECDC4"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPut, "/api/categories/ghost",
		`{"name": "Ghost", "icon": "👻", "color": "#FFFFFF"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPost, "/api/categories",
		`{"name": "Bad Color", "icon": "🎨", "color": "red"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = s.do(t, http.MethodDelete, "/api/categories/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = s.do(t, http.MethodDelete, "/api/categories/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSourceLifecycle(t *testing.T) {
	s := newTestServer(t)

	resp, raw := s.do(t, http.MethodPost, "/api/sources", `{"name": "BRI", "type": "bank"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created core.Source
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, core.Bank.Icon(), created.Icon)

	resp, _ = s.do(t, http.MethodPost, "/api/sources", `{"name": "Barter", "type": "barter"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = s.do(t, http.MethodDelete, "/api/sources/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestTrendChart(t *testing.T) {
	s := newTestServer(t)

	resp, raw := s.do(t, http.MethodGet, "/api/charts/trend?period=month", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var points []core.SeriesPoint
	require.NoError(t, json.Unmarshal(raw, &points))
	assert.Len(t, points, 31) // March

	resp, _ = s.do(t, http.MethodGet, "/api/charts/trend?period=week", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHistoryFeedAndClear(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, http.MethodPost, "/api/expenses", expenseBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// The feed serves the poller snapshot, so the write is invisible
	// until a refresh.
	resp, raw := s.do(t, http.MethodGet, "/api/history", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entries []history.Entry
	require.NoError(t, json.Unmarshal(raw, &entries))
	assert.Empty(t, entries)

	s.poller.Refresh(context.Background())
	resp, raw = s.do(t, http.MethodGet, "/api/history", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 1)

	resp, _ = s.do(t, http.MethodDelete, "/api/history", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, raw = s.do(t, http.MethodGet, "/api/history", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &entries))
	assert.Empty(t, entries)
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = s.do(t, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, http.MethodGet, "/api/dashboard", "")
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
}
