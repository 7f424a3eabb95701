package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/iwvelando/solar-simulator/internal/config"
	"github.com/iwvelando/solar-simulator/internal/simulator"
	"github.com/iwvelando/solar-simulator/pkg/loans"
	"github.com/iwvelando/solar-simulator/pkg/testutil"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestHandler(t *testing.T, cfg *Config) http.Handler {
	t.Helper()
	engine := simulator.NewEngine(zap.NewNop(), config.DefaultSimulator()).WithClock(testutil.FixedClock)
	return NewHandler(zap.NewNop(), engine, cfg, "1.2.3")
}

func perform(t *testing.T, h http.Handler, method, target string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	switch p := payload.(type) {
	case nil:
		body = bytes.NewReader(nil)
	case string:
		body = bytes.NewReader([]byte(p))
	default:
		data, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandleSimulateSuccess(t *testing.T) {
	h := newTestHandler(t, nil)

	rr := perform(t, h, http.MethodPost, "/api/simulate", map[string]interface{}{
		"monthlyBill": 250,
		"tariff":      1.2,
		"irradiation": 5.5,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp simulateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Result == nil {
		t.Fatal("expected result in response")
	}
	testutil.AssertClose(t, "estimated cost", resp.Result.SystemSpecs.EstimatedCost, 8690, 0.005)
	if resp.Result.Payback.Years != 4 || resp.Result.Payback.Months != 10 {
		t.Errorf("expected payback 4y 10m, got %dy %dm", resp.Result.Payback.Years, resp.Result.Payback.Months)
	}
	if len(resp.Recommendations) != 2 {
		t.Errorf("expected 2 recommendations, got %v", resp.Recommendations)
	}
	if len(resp.Scenarios) != 4 {
		t.Fatalf("expected 4 scenarios, got %d", len(resp.Scenarios))
	}
	testutil.AssertClose(t, "10y payment", resp.Scenarios[2].MonthlyPayment, 124.68, 0.005)
}

func TestHandleSimulateTariffFlag(t *testing.T) {
	h := newTestHandler(t, nil)

	rr := perform(t, h, http.MethodPost, "/api/simulate", `{"monthlyBill": 250, "tariffFlag": "red1"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp simulateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Result.Input.TariffFlag != simulator.FlagRed1 {
		t.Errorf("expected red1 flag in resolved input, got %v", resp.Result.Input.TariffFlag)
	}
}

func TestHandleSimulateValidationError(t *testing.T) {
	h := newTestHandler(t, nil)

	rr := perform(t, h, http.MethodPost, "/api/simulate", map[string]interface{}{
		"monthlyBill": 0,
		"tariff":      6,
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp validationResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Errors) != 2 {
		t.Fatalf("expected bill and tariff errors, got %v", resp.Errors)
	}
	if resp.Violations[0].Field != simulator.FieldMonthlyBill || resp.Violations[1].Field != simulator.FieldTariff {
		t.Errorf("unexpected violation order: %+v", resp.Violations)
	}
}

func TestHandleSimulateBadRequest(t *testing.T) {
	h := newTestHandler(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"monthlyBill":`},
		{name: "wrong type", body: `{"monthlyBill": "lots"}`},
		{name: "unknown flag", body: `{"monthlyBill": 100, "tariffFlag": "purple"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := perform(t, h, http.MethodPost, "/api/simulate", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
			}
			var resp map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp["error"] == "" {
				t.Fatal("expected error message")
			}
		})
	}
}

func TestHandleSimulateBodyTooLarge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SetBodySizeBytes(16)
	h := newTestHandler(t, cfg)

	rr := perform(t, h, http.MethodPost, "/api/simulate",
		`{"monthlyBill": 250, "tariff": 1.2, "irradiation": 5.5}`)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleSimulateMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, nil)

	rr := perform(t, h, http.MethodGet, "/api/simulate", nil)
	if rr.Code == http.StatusOK {
		t.Fatalf("expected GET /api/simulate to be rejected, got %d", rr.Code)
	}
}

func TestHandleRecommendations(t *testing.T) {
	h := newTestHandler(t, nil)

	result := simulator.Result{
		Input:            simulator.ResolvedInput{MonthlyConsumption: 600},
		EstimatedSavings: simulator.Savings{Monthly: 400},
		Payback:          simulator.Payback{Years: 7},
		Financing:        simulator.Financing{MonthlyPayment: 500},
	}

	rr := perform(t, h, http.MethodPost, "/api/recommendations", result)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Recommendations []string `json:"recommendations"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Recommendations) != 2 {
		t.Fatalf("expected high consumption and CO2 recommendations, got %v", resp.Recommendations)
	}
	if !strings.Contains(resp.Recommendations[0], "High consumption") {
		t.Errorf("expected high consumption first, got %q", resp.Recommendations[0])
	}
}

func TestHandleScenarios(t *testing.T) {
	h := newTestHandler(t, nil)

	rr := perform(t, h, http.MethodGet, "/api/financing/scenarios?systemCost=8690", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Scenarios []simulator.FinancingScenario `json:"scenarios"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	want := []struct {
		years   int
		payment float64
	}{{5, 193.30}, {7, 153.40}, {10, 124.68}, {15, 104.29}}
	if len(resp.Scenarios) != len(want) {
		t.Fatalf("expected %d scenarios, got %d", len(want), len(resp.Scenarios))
	}
	for i, w := range want {
		if resp.Scenarios[i].Years != w.years {
			t.Errorf("scenario %d: expected %d years, got %d", i, w.years, resp.Scenarios[i].Years)
		}
		testutil.AssertClose(t, "monthly payment", resp.Scenarios[i].MonthlyPayment, w.payment, 0.005)
	}
}

func TestHandleScenariosInvalidCost(t *testing.T) {
	h := newTestHandler(t, nil)

	for _, target := range []string{
		"/api/financing/scenarios",
		"/api/financing/scenarios?systemCost=abc",
		"/api/financing/scenarios?systemCost=-5",
		"/api/financing/scenarios?systemCost=NaN",
		"/api/financing/schedule?systemCost=0",
	} {
		t.Run(target, func(t *testing.T) {
			rr := perform(t, h, http.MethodGet, target, nil)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestHandleSchedule(t *testing.T) {
	h := newTestHandler(t, nil)

	rr := perform(t, h, http.MethodGet, "/api/financing/schedule?systemCost=8690", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Years    int             `json:"years"`
		Payments []loans.Payment `json:"payments"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Years != 10 {
		t.Errorf("expected 10 years, got %d", resp.Years)
	}
	if len(resp.Payments) != 120 {
		t.Fatalf("expected 120 payments, got %d", len(resp.Payments))
	}
	if last := resp.Payments[len(resp.Payments)-1]; last.RemainingPrincipal != 0 {
		t.Errorf("expected loan to close at zero, got %v", last.RemainingPrincipal)
	}
}

func TestHandleExport(t *testing.T) {
	h := newTestHandler(t, nil)
	input := map[string]interface{}{"monthlyBill": 250}

	tests := []struct {
		format      string
		contentType string
		magic       string
	}{
		{format: "pdf", contentType: "application/pdf", magic: "%PDF"},
		{format: "xlsx", contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", magic: "PK"},
		{format: "csv", contentType: "text/csv; charset=utf-8", magic: "section,field,value"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rr := perform(t, h, http.MethodPost, "/api/export/"+tt.format, input)
			if rr.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
			}
			if got := rr.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("expected content type %q, got %q", tt.contentType, got)
			}
			if !strings.Contains(rr.Header().Get("Content-Disposition"), "."+tt.format) {
				t.Errorf("expected attachment filename with .%s, got %q", tt.format, rr.Header().Get("Content-Disposition"))
			}
			if !strings.HasPrefix(rr.Body.String(), tt.magic) {
				t.Errorf("expected body to start with %q", tt.magic)
			}
		})
	}
}

func TestHandleExportUnsupportedFormat(t *testing.T) {
	h := newTestHandler(t, nil)

	rr := perform(t, h, http.MethodPost, "/api/export/docx", map[string]interface{}{"monthlyBill": 250})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleExportValidationError(t *testing.T) {
	h := newTestHandler(t, nil)

	rr := perform(t, h, http.MethodPost, "/api/export/pdf", map[string]interface{}{"monthlyBill": -1})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleConfigAndVersion(t *testing.T) {
	h := newTestHandler(t, nil)

	rr := perform(t, h, http.MethodGet, "/api/config", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var conf config.Simulator
	if err := json.Unmarshal(rr.Body.Bytes(), &conf); err != nil {
		t.Fatalf("failed to decode config: %v", err)
	}
	if conf.SystemCostPerKwp != 5500 || conf.FinancingYears != 10 {
		t.Errorf("unexpected config %+v", conf)
	}

	rr = perform(t, h, http.MethodGet, "/api/version", nil)
	var version map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &version); err != nil {
		t.Fatalf("failed to decode version: %v", err)
	}
	if version["version"] != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %q", version["version"])
	}
}

func TestHandleVersionDefaultsToDev(t *testing.T) {
	engine := simulator.NewEngine(nil, config.DefaultSimulator())
	h := NewHandler(nil, engine, nil, "  ")

	rr := perform(t, h, http.MethodGet, "/api/version", nil)
	if !strings.Contains(rr.Body.String(), `"dev"`) {
		t.Fatalf("expected dev version, got %s", rr.Body.String())
	}
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestHandler(t, nil)

	rr := perform(t, h, http.MethodGet, "/health", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "ok") {
		t.Fatalf("unexpected health response %d: %s", rr.Code, rr.Body.String())
	}

	perform(t, h, http.MethodPost, "/api/simulate", map[string]interface{}{"monthlyBill": 250})

	rr = perform(t, h, http.MethodGet, "/metrics", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "solar_simulator_simulations_total") {
		t.Error("expected simulations counter in metrics output")
	}
}

func TestCORS(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowedOrigins = []string{"https://simulador.example.com"}
	h := newTestHandler(t, cfg)

	tests := []struct {
		name   string
		origin string
		want   string
	}{
		{name: "allowed origin", origin: "https://simulador.example.com", want: "https://simulador.example.com"},
		{name: "foreign origin", origin: "https://evil.example.com", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set("Origin", tt.origin)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Errorf("expected allow-origin %q, got %q", tt.want, got)
			}
		})
	}
}

func TestHandleSimulateUnrepresentableResult(t *testing.T) {
	h := newTestHandler(t, nil)

	rr := perform(t, h, http.MethodPost, "/api/simulate", map[string]interface{}{
		"monthlyBill":        250,
		"monthlyConsumption": 1e21,
	})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d: %s", rr.Code, rr.Body.String())
	}
	if strings.Contains(rr.Body.String(), "Fast payback") {
		t.Error("expected no recommendations for an unrepresentable result")
	}
}
