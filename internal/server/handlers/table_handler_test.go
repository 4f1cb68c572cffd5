package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sodiqltd/stockboard/internal/domain/models"
	"github.com/sodiqltd/stockboard/internal/server/handlers"
	"github.com/sodiqltd/stockboard/internal/server/router"
	"github.com/sodiqltd/stockboard/internal/service/table"
)

type stubMutator struct {
	items     []models.StockItem
	updateErr error
}

func (s *stubMutator) List(ctx context.Context) ([]models.StockItem, error) {
	return s.items, nil
}

func (s *stubMutator) Create(ctx context.Context, input models.CreateStockInput) (*models.StockItem, error) {
	return &models.StockItem{ID: "srv-1", Name: input.Name}, nil
}

func (s *stubMutator) Update(ctx context.Context, id string, req models.UpdateStockRequest) error {
	return s.updateErr
}

func (s *stubMutator) Delete(ctx context.Context, id string) error {
	return nil
}

func newServer(mut table.Mutator) *httptest.Server {
	gin.SetMode(gin.TestMode)
	sessions := table.NewManager(mut, 10, nil)
	engine := router.New(handlers.NewTableHandler(sessions, nil), nil)
	return httptest.NewServer(engine)
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func openSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, body := post(t, srv.URL+"/sessions", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, ok := body["session_id"].(string)
	require.True(t, ok)
	return id
}

func TestSessionRoundTrip(t *testing.T) {
	mut := &stubMutator{items: []models.StockItem{
		{ID: "r1", Name: "Widget A", Quantity: 10, CurrencyCode: "NGN"},
		{ID: "r2", Name: "Gadget B", SKU: "GB-01", Quantity: 3, CurrencyCode: "NGN"},
	}}
	srv := newServer(mut)
	defer srv.Close()

	id := openSession(t, srv)
	base := fmt.Sprintf("%s/sessions/%s", srv.URL, id)

	// Search narrows to one row.
	resp, view := post(t, base+"/search", `{"text":"wid"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, view["searching"])
	pagination := view["pagination"].(map[string]any)
	assert.Equal(t, float64(1), pagination["total_items"])

	// Begin edit, type a value, commit.
	resp, _ = post(t, base+"/search", `{"text":""}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = post(t, base+"/edit", `{"id":"r1","field":"quantity"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = post(t, base+"/edit/field", `{"field":"quantity","value":"50"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, view = post(t, base+"/edit/commit", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rows := view["rows"].([]any)
	first := rows[0].(map[string]any)["item"].(map[string]any)
	assert.Equal(t, float64(50), first["quantity"])
}

func TestCommitFailureRidesInView(t *testing.T) {
	mut := &stubMutator{
		items:     []models.StockItem{{ID: "r1", Name: "Widget A", Quantity: 10}},
		updateErr: errors.New("network down"),
	}
	srv := newServer(mut)
	defer srv.Close()

	id := openSession(t, srv)
	base := fmt.Sprintf("%s/sessions/%s", srv.URL, id)

	post(t, base+"/edit", `{"id":"r1","field":"quantity"}`)
	post(t, base+"/edit/field", `{"field":"quantity","value":"50"}`)
	resp, view := post(t, base+"/edit/commit", "")

	require.Equal(t, http.StatusOK, resp.StatusCode, "table stays interactive")
	notices := view["notices"].([]any)
	require.Len(t, notices, 1)

	rows := view["rows"].([]any)
	first := rows[0].(map[string]any)
	assert.Equal(t, true, first["editing"], "row back in editing for retry")
	item := first["item"].(map[string]any)
	assert.Equal(t, float64(10), item["quantity"], "store untouched")
}

func TestUnknownSessionIs404(t *testing.T) {
	srv := newServer(&stubMutator{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/sessions/nope/view")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCloseSessionThenGone(t *testing.T) {
	srv := newServer(&stubMutator{items: []models.StockItem{{ID: "r1", Name: "x"}}})
	defer srv.Close()

	id := openSession(t, srv)

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/sessions/%s", srv.URL, id), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	getResp, err := http.Get(fmt.Sprintf("%s/sessions/%s/view", srv.URL, id))
	require.NoError(t, err)
	getResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
}
