package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/bdtax/income-tax-calculator/internal/calculation"
	"github.com/bdtax/income-tax-calculator/internal/config"
	"github.com/bdtax/income-tax-calculator/internal/observability"
	"github.com/bdtax/income-tax-calculator/internal/server"
)

func newTestServer(t *testing.T, rulesFile string) *httptest.Server {
	t.Helper()
	rules, err := config.NewRuleLoader().LoadFromFile(rulesFile)
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)
	engine := calculation.NewTaxEngineWithRules(rules)
	engine.SetLogger(observability.NewEngineLogger(logger))

	router := server.NewRouter(server.NewTaxHandlers(engine, rules.DefaultYear), server.WithLogger(logger))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestServerCalculate(t *testing.T) {
	srv := newTestServer(t, "")

	resp, body := postJSON(t, srv.URL+"/api/v1/tax/calculate", map[string]any{
		"monthly_gross_salary":    "85000",
		"annual_bonuses":          "170000",
		"include_investments":     true,
		"total_annual_investment": "120000",
		"income_year":             "2025-2026",
		"category":                "women",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "22250", body["final_tax_due"])
	assert.Equal(t, "1855", body["monthly_tax_deduction"])
}

func TestServerCustomRules(t *testing.T) {
	srv := newTestServer(t, "../testdata/flat_rules.yaml")

	resp, body := postJSON(t, srv.URL+"/api/v1/tax/calculate", map[string]any{
		"annual_gross_income": "900000",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2026-2027", body["income_year"])
	assert.Equal(t, "30000", body["final_tax_due"])
}

func TestServerRejectsNegativeSalary(t *testing.T) {
	srv := newTestServer(t, "")

	resp, body := postJSON(t, srv.URL+"/api/v1/tax/calculate", map[string]any{
		"monthly_gross_salary": "-1",
		"income_year":          "2025-2026",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_input", body["error"])
}

func TestServerCurve(t *testing.T) {
	srv := newTestServer(t, "")

	resp, err := http.Get(srv.URL + "/api/v1/tax/curve?year=2025-2026&from=400000&to=600000&step=100000&user_income=450000")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Points []struct {
			AnnualIncome string `json:"annual_income"`
			IsUser       bool   `json:"is_user"`
		} `json:"points"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Points, 4)
	assert.Equal(t, "450000", body.Points[1].AnnualIncome)
	assert.True(t, body.Points[1].IsUser)
}
