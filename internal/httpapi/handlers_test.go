package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/agri-advisor/internal/advisor"
	"github.com/danielpatrickdp/agri-advisor/internal/generation"
	"github.com/danielpatrickdp/agri-advisor/internal/insights"
)

// #region fakes
type fakeService struct {
	resp     advisor.Response
	lastReq  advisor.Request
	lastCond insights.Conditions
}

func (f *fakeService) Answer(_ context.Context, req advisor.Request) advisor.Response {
	f.lastReq = req
	return f.resp
}

func (f *fakeService) Insights(soil insights.SoilMeasurement, cond insights.Conditions) insights.Analysis {
	f.lastCond = cond
	return insights.Infer(soil, cond)
}

func serve(t *testing.T, svc Service, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := NewRouter(NewHandler(svc, nil))
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// #endregion fakes

// #region tests
func TestHealth(t *testing.T) {
	w := serve(t, &fakeService{}, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestAnswer_OK(t *testing.T) {
	svc := &fakeService{resp: advisor.Response{Success: true, Text: "Irrigate twice a week.", Confidence: 0.8}}
	w := serve(t, svc, http.MethodPost, "/v1/answer", `{"query":"when to irrigate?","language":"hi","profile_ref":3}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "when to irrigate?", svc.lastReq.Query)
	assert.Equal(t, "hi", svc.lastReq.Language)
	require.NotNil(t, svc.lastReq.ProfileRef)
	assert.Equal(t, int64(3), *svc.lastReq.ProfileRef)

	var got advisor.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Irrigate twice a week.", got.Text)
}

func TestAnswer_StatusMapping(t *testing.T) {
	cases := []struct {
		kind string
		want int
	}{
		{advisor.KindInvalidInput, http.StatusBadRequest},
		{string(generation.KindTimeout), http.StatusGatewayTimeout},
		{string(generation.KindQuota), http.StatusTooManyRequests},
		{string(generation.KindMalformed), http.StatusBadGateway},
		{string(generation.KindUnavailable), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			svc := &fakeService{resp: advisor.Response{Text: "sorry", ErrorKind: tc.kind}}
			w := serve(t, svc, http.MethodPost, "/v1/answer", `{"query":"q"}`)
			assert.Equal(t, tc.want, w.Code)
			assert.Contains(t, w.Body.String(), "sorry")
		})
	}
}

func TestAnswer_BadJSON(t *testing.T) {
	w := serve(t, &fakeService{}, http.MethodPost, "/v1/answer", `{"query":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInsights_WithConditions(t *testing.T) {
	svc := &fakeService{}
	body := `{"soil":{"bulk_density":{"0to5cm":1.3},"cation_exchange":{"0to5cm":18},"clay_content":{"0to5cm":25}},
	          "conditions":{"moisture":0.45,"temperature":28}}`
	w := serve(t, svc, http.MethodPost, "/v1/insights", body)
	require.Equal(t, http.StatusOK, w.Code)

	var got insights.Analysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, insights.RiskHigh, got.Insights.PestRisk.Level)
	assert.Equal(t, 0, got.Insights.Irrigation.AmountMM)
}

func TestInsights_DerivesConditions(t *testing.T) {
	svc := &fakeService{}
	body := `{"soil":{"bulk_density":{"0to5cm":1.3},"cation_exchange":{"0to5cm":18},"clay_content":{"0to5cm":25},
	          "moisture":{"0to5cm":0.2,"5to15cm":0.3},"skin_temperature":{"0to5cm":30}}}`
	w := serve(t, svc, http.MethodPost, "/v1/insights", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 0.25, svc.lastCond.Moisture, 1e-9)
	assert.InDelta(t, 30.0, svc.lastCond.Temperature, 1e-9)
}

func TestInsights_MissingConditions(t *testing.T) {
	w := serve(t, &fakeService{}, http.MethodPost, "/v1/insights", `{"soil":{"bulk_density":{"0to5cm":1.3}}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// #endregion tests
