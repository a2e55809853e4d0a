package draft

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *fakeSubmitter) {
	t.Helper()
	submitter := &fakeSubmitter{}
	svc := NewService(newTestStore(t), newFakeCatalog(), submitter, nil)
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)

	r := chi.NewRouter()
	r.Route("/api/drafts", h.MountRoutes)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		http.DefaultClient.CloseIdleConnections()
		srv.Close()
	})
	return srv, submitter
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func openDraftHTTP(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/drafts", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var o Order
	decodeBody(t, resp, &o)
	return o.ID
}

func TestDraftLifecycleOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)
	id := openDraftHTTP(t, srv)
	base := srv.URL + "/api/drafts/" + id

	resp := doJSON(t, http.MethodPut, base+"/supplier", map[string]any{"supplierId": 7})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, base+"/items", map[string]any{"itemId": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var o Order
	decodeBody(t, resp, &o)
	require.Len(t, o.Items, 1)
	require.Equal(t, 1, o.Items[0].OrderQty)

	resp = doJSON(t, http.MethodPatch, base+"/items/0", map[string]any{"orderQty": 4})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &o)
	require.Equal(t, 4, o.Items[0].OrderQty)
	require.True(t, o.ItemTotal.Equal(o.Items[0].ItemAmount))
}

func TestDuplicateItemOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)
	id := openDraftHTTP(t, srv)
	base := srv.URL + "/api/drafts/" + id

	resp := doJSON(t, http.MethodPut, base+"/supplier", map[string]any{"supplierId": 7})
	resp.Body.Close()
	resp = doJSON(t, http.MethodPost, base+"/items", map[string]any{"itemId": 1})
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, base+"/items", map[string]any{"itemId": 1})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestSubmitValidationErrorsOverHTTP(t *testing.T) {
	srv, submitter := newTestServer(t)
	id := openDraftHTTP(t, srv)
	base := srv.URL + "/api/drafts/" + id

	resp := doJSON(t, http.MethodPut, base+"/supplier", map[string]any{"supplierId": 7})
	resp.Body.Close()
	resp = doJSON(t, http.MethodPost, base+"/items", map[string]any{"itemId": 1})
	resp.Body.Close()
	// Packing unit left empty, quantity invalid.
	resp = doJSON(t, http.MethodPatch, base+"/items/0", map[string]any{"orderQty": 0})
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var problem struct {
		Errors map[string]string `json:"errors"`
	}
	decodeBody(t, resp, &problem)
	require.Contains(t, problem.Errors, "items[0].orderQty")
	require.Contains(t, problem.Errors, "items[0].packingUnit")
	require.Zero(t, submitter.calls)
}

func TestSubmitSuccessOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)
	id := openDraftHTTP(t, srv)
	base := srv.URL + "/api/drafts/" + id

	resp := doJSON(t, http.MethodPut, base+"/supplier", map[string]any{"supplierId": 7})
	resp.Body.Close()
	resp = doJSON(t, http.MethodPost, base+"/items", map[string]any{"itemId": 1})
	resp.Body.Close()
	resp = doJSON(t, http.MethodPatch, base+"/items/0", map[string]any{"packingUnit": "box"})
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result SubmitResult
	decodeBody(t, resp, &result)
	require.Equal(t, "PO-101", result.OrderNo)

	resp = doJSON(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestExportCSVOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)
	id := openDraftHTTP(t, srv)
	base := srv.URL + "/api/drafts/" + id

	resp := doJSON(t, http.MethodPut, base+"/supplier", map[string]any{"supplierId": 7})
	resp.Body.Close()
	resp = doJSON(t, http.MethodPost, base+"/items", map[string]any{"itemId": 1})
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, base+"/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Contains(t, string(data), "Item No,Item Name")
	require.Contains(t, string(data), "ITM-1")
}

func TestUnknownDraftOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/drafts/%s", srv.URL, "missing"), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
