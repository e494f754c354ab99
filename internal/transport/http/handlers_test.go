package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordersight/internal/adapters"
	"ordersight/internal/config"
	"ordersight/internal/ingest"
	"ordersight/internal/sample"
	"ordersight/internal/services"
)

func newTestServer(t *testing.T, maxUpload int64) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Port: 8080, ReadTimeout: 15 * time.Second},
	}
	driver := ingest.NewDriver(adapters.DefaultRegistry(), nil)
	service := services.NewDashboardService(nil)
	ingestHandler := NewIngestHandler(driver, service, testLogger(), maxUpload)
	analyticsHandler := NewAnalyticsHandler(service, testLogger())

	srv := httptest.NewServer(NewRouter(cfg, ingestHandler, analyticsHandler, testLogger()))
	t.Cleanup(srv.Close)
	return srv
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// errorCode digs the error code out of the standard error envelope.
func errorCode(t *testing.T, body map[string]interface{}) string {
	t.Helper()
	inner, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "body: %v", body)
	code, _ := inner["error_code"].(string)
	return code
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func uploadSample(t *testing.T, srv *httptest.Server) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/ingest", "text/csv", bytes.NewReader(sample.WooCommerceCSV()))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestHealthAndVersion(t *testing.T) {
	srv := newTestServer(t, 1<<20)

	resp, err := http.Get(srv.URL + "/api/healthz")
	require.NoError(t, err)
	var health map[string]string
	decodeBody(t, resp, &health)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", health["status"])

	resp, err = http.Get(srv.URL + "/api/version")
	require.NoError(t, err)
	var version map[string]interface{}
	decodeBody(t, resp, &version)
	assert.NotEmpty(t, version["version"])
}

func TestAnalyticsRequiresDataset(t *testing.T) {
	srv := newTestServer(t, 1<<20)

	for _, path := range []string{
		"/api/analytics/dashboard",
		"/api/analytics/kpis",
		"/api/analytics/sales-over-time",
		"/api/analytics/cohorts",
		"/api/ingest",
	} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		var body map[string]interface{}
		decodeBody(t, resp, &body)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, "NO_DATASET", errorCode(t, body), path)
	}
}

func TestIngestUploadAndDashboard(t *testing.T) {
	srv := newTestServer(t, 1<<20)

	resp, err := http.Post(srv.URL+"/api/ingest", "text/csv", bytes.NewReader(sample.WooCommerceCSV()))
	require.NoError(t, err)
	var uploaded map[string]interface{}
	decodeBody(t, resp, &uploaded)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "WooCommerce", uploaded["platform"])
	assert.NotEmpty(t, uploaded["run_id"])
	assert.NotZero(t, uploaded["rows"])

	resp, err = http.Get(srv.URL + "/api/analytics/dashboard")
	require.NoError(t, err)
	var dash map[string]interface{}
	decodeBody(t, resp, &dash)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, dash, "kpis")
	assert.Contains(t, dash, "sales_over_time")
	assert.Contains(t, dash, "cohort_retention")
}

func TestIngestUnknownPlatform(t *testing.T) {
	srv := newTestServer(t, 1<<20)

	resp, err := http.Post(srv.URL+"/api/ingest", "text/csv",
		bytes.NewReader([]byte("foo,bar\n1,2\n")))
	require.NoError(t, err)
	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "UNKNOWN_PLATFORM", errorCode(t, body))
}

func TestIngestPayloadTooLarge(t *testing.T) {
	srv := newTestServer(t, 64)

	resp, err := http.Post(srv.URL+"/api/ingest", "text/csv", bytes.NewReader(sample.WooCommerceCSV()))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestIngestClear(t *testing.T) {
	srv := newTestServer(t, 1<<20)
	uploadSample(t, srv)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/ingest", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/analytics/kpis")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSalesOverTimeParams(t *testing.T) {
	srv := newTestServer(t, 1<<20)
	uploadSample(t, srv)

	resp, err := http.Get(srv.URL + "/api/analytics/sales-over-time?days=30&grain=week")
	require.NoError(t, err)
	var series map[string]interface{}
	decodeBody(t, resp, &series)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, series["labels"])

	for _, query := range []string{"days=abc", "days=-1", "grain=hour"} {
		resp, err := http.Get(srv.URL + "/api/analytics/sales-over-time?" + query)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, query)
	}
}

func TestAnomaliesParams(t *testing.T) {
	srv := newTestServer(t, 1<<20)
	uploadSample(t, srv)

	resp, err := http.Get(srv.URL + "/api/analytics/anomalies?window=90&k=2")
	require.NoError(t, err)
	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "anomalies")

	resp, err = http.Get(srv.URL + "/api/analytics/anomalies?k=0")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCategoricalEndpoints(t *testing.T) {
	srv := newTestServer(t, 1<<20)
	uploadSample(t, srv)

	for _, path := range []string{
		"/api/analytics/top-products",
		"/api/analytics/order-status",
		"/api/analytics/hour-of-day",
		"/api/analytics/day-of-week",
		"/api/analytics/customer-types",
		"/api/analytics/insights",
	} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}
