package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"composite/internal/keystore/handler"
	keystoreMetrics "composite/internal/keystore/metrics"
	"composite/internal/keystore/service"
	"composite/internal/keystore/store/entry"
	"composite/internal/keystore/store/set"
	"composite/internal/platform/config"
	"composite/internal/platform/metrics"
	"composite/pkg/platform/middleware/admin"
	request "composite/pkg/platform/middleware/request"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := metrics.NewRegistry()
	svc := service.New(entry.NewInMemory(), set.NewInMemory(),
		service.WithLogger(log),
		service.WithMetrics(keystoreMetrics.New(reg)),
	)
	cfg := config.Server{MaxBodyBytes: 256, AdminToken: "secret"}
	srv := httptest.NewServer(newRouter(cfg, log, reg, handler.New(svc, log)))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, body string, headers ...string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestKeystoreEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	resp, body := call(t, srv, http.MethodPut, "/v1/entries", `{"key": {"x": 1, "y": 2}, "value": "origin"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.NotEmpty(t, resp.Header.Get(request.HeaderRequestID))
	var put struct{ ID string }
	require.NoError(t, json.Unmarshal([]byte(body), &put))

	// Same structure, different key order and a fresh decode: same entry.
	resp, body = call(t, srv, http.MethodPut, "/v1/entries", `{"key": {"y": 2, "x": 1}, "value": "moved"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, put.ID)

	resp, body = call(t, srv, http.MethodPost, "/v1/entries/lookup", `{"key": {"x": 1, "y": 2}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"value":"moved"`)
	assert.Contains(t, body, `"key":{"x":1,"y":2}`, "the first stored key is kept")

	resp, _ = call(t, srv, http.MethodPost, "/v1/entries/lookup", `{"key": {"x": 1}}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = call(t, srv, http.MethodPost, "/v1/sets/pairs/members", `{"member": [1, 2]}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = call(t, srv, http.MethodPost, "/v1/sets/pairs/members", `{"member": [1, 2]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_, body = call(t, srv, http.MethodPost, "/v1/sets/pairs/contains", `{"member": [2, 1]}`)
	assert.JSONEq(t, `{"present": false}`, body)
	_, body = call(t, srv, http.MethodGet, "/v1/sets/pairs", "")
	assert.JSONEq(t, `{"name": "pairs", "members": [[1, 2]], "count": 1}`, body)

	_, body = call(t, srv, http.MethodGet, "/metrics", "")
	assert.Contains(t, body, `keystore_entries_written_total{outcome="created"} 1`)
	assert.Contains(t, body, `keystore_entry_lookups_total{result="miss"} 1`)

	resp, _ = call(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminEndpointsRequireToken(t *testing.T) {
	srv := newTestServer(t)
	call(t, srv, http.MethodPut, "/v1/entries", `{"key": 1, "value": 1}`)

	resp, _ := call(t, srv, http.MethodDelete, "/v1/entries", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := call(t, srv, http.MethodDelete, "/v1/entries", "", admin.HeaderAdminToken, "secret")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"removed": 1}`, body)
}

func TestBodyLimit(t *testing.T) {
	srv := newTestServer(t)
	big := `{"key": "` + string(bytes.Repeat([]byte("k"), 512)) + `", "value": 1}`

	resp, body := call(t, srv, http.MethodPut, "/v1/entries", big)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "request body too large")
}
