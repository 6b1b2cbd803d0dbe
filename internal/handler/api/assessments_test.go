package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wczubal1/GreenAgentWitty/internal/service/classify"
	"github.com/wczubal1/GreenAgentWitty/internal/service/dates"
	"github.com/wczubal1/GreenAgentWitty/internal/usecase"
	applogger "github.com/wczubal1/GreenAgentWitty/pkg/logger"
)

type stubMessenger struct {
	reply string
}

func (s *stubMessenger) Send(context.Context, string, string) (string, error) {
	return s.reply, nil
}

type stubMetrics struct{}

func (stubMetrics) RecordAssessment(string, string)      {}
func (stubMetrics) RecordDiagnostic(string)              {}
func (stubMetrics) RecordPurpleLatency(string, float64)  {}
func (stubMetrics) RecordRejected()                      {}

func newTestHandler(t *testing.T, reply string) *AssessmentsHandler {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	assessor := usecase.NewAssessor(
		usecase.EngineConfig{MinAttempts: 3, QuantityTolerance: 1e-4, DeltaTolerance: 1e-6},
		classify.New(classify.DefaultConfig()),
		dates.NewResolver(2025),
		&stubMessenger{reply: reply},
		stubMetrics{},
		l,
		"", "",
	)
	return NewAssessmentsHandler(l, assessor)
}

func performRequest(t *testing.T, h *AssessmentsHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)
	req := httptest.NewRequest(http.MethodPost, "/api/assessments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAssessEndpointPass(t *testing.T) {
	reply := `{"symbol":"AAPL","currentShortPositionQuantity":100,
		"record":{"symbolCode":"AAPL","settlementDate":"2025-06-13"}}`
	h := newTestHandler(t, reply)
	body := `{"participants":{"purple":"http://purple.local"},
		"config":{"symbol":"AAPL","settlement_date":"2025-06-13"}}`

	rec := performRequest(t, h, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Status int `json:"status"`
		Data   struct {
			Summary string                 `json:"summary"`
			Updates []string               `json:"updates"`
			Result  map[string]interface{} `json:"result"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, http.StatusOK, envelope.Status)
	assert.Equal(t, "Short Interest lookup pass for AAPL on 2025-06-13.", envelope.Data.Summary)
	assert.Equal(t, "pass", envelope.Data.Result["status"])
	assert.Len(t, envelope.Data.Updates, 3)
}

func TestAssessEndpointRejectReturns400(t *testing.T) {
	h := newTestHandler(t, `{}`)
	body := `{"participants":{"purple":"http://purple.local"},
		"config":{"settlement_date":"2025-06-13"}}`

	rec := performRequest(t, h, body)
	require.Equal(t, http.StatusOK, rec.Code) // envelope carries the real status

	var envelope struct {
		Status int             `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, http.StatusBadRequest, envelope.Status)
	assert.Contains(t, string(envelope.Data), "Provide symbol or symbols in config.")
}

func TestAssessEndpointMissingBodyFields(t *testing.T) {
	h := newTestHandler(t, `{}`)
	rec := performRequest(t, h, `{"config":{"symbol":"AAPL","settlement_date":"2025-06-13"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Status int `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, http.StatusBadRequest, envelope.Status)
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHandler(t, `{}`)
	e := echo.New()
	h.RegisterRoutes(e)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
