package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishal13230/BellCurve-Securities/internal/usecase"
	xhttp "github.com/vishal13230/BellCurve-Securities/pkg/http"
	xlogger "github.com/vishal13230/BellCurve-Securities/pkg/logger"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)

	analyzer := usecase.NewAnalyzer(usecase.AnalyzerOptions{Log: log})
	h := NewPortfolioEchoHandler(log, analyzer, nil)

	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

const inlinePricesJSON = `{
	"assets": ["AAA", "BBB"],
	"rows": [
		[100, 100], [102, 100.4], [101, 100.3], [103, 100.7],
		[102, 100.6], [104, 101.0], [103, 100.9], [105, 101.3],
		[104, 101.2], [106, 101.6], [105, 101.5], [107, 101.9]
	]
}`

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestFrontierEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/frontier",
		`{"portfolios": 5, "prices": `+inlinePricesJSON+`}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp xhttp.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"AAA", "BBB"}, data["assets"])
	frontier, ok := data["frontier"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 3, frontier["sweep_requested"])
}

func TestFrontierEndpointValidation(t *testing.T) {
	e := newTestServer(t)

	// Out-of-range risk-free rate fails validation before any computation.
	rec := doJSON(e, http.MethodPost, "/api/frontier",
		`{"risk_free_rate": 3, "prices": `+inlinePricesJSON+`}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp xhttp.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestFrontierEndpointInsufficientAssets(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/frontier",
		`{"prices": {"assets": ["AAA"], "rows": [[100], [101], [102]]}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp xhttp.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)

	b, _ := json.Marshal(resp.Data)
	assert.Contains(t, string(b), "ERR_INSUFFICIENT_ASSETS")
}

func TestSimulateEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/simulate",
		`{"portfolios": 4, "simulations": 10, "years": 0.5, "seed": 3, "prices": `+inlinePricesJSON+`}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp xhttp.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, http.StatusOK, resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "MaxSharpe", data["portfolio"])
	outcome, ok := data["outcome"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 10, outcome["paths"])
	assert.EqualValues(t, 126, outcome["days"])
}

func TestSimulateEndpointBadPortfolioLabel(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/simulate",
		`{"portfolio": "EqualWeight", "prices": `+inlinePricesJSON+`}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp xhttp.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestStatsEndpointRequiresSymbol(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp xhttp.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
