package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rgehrsitz/roundup/internal/calculation"
	"github.com/rgehrsitz/roundup/internal/config"
	"github.com/rgehrsitz/roundup/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const returnsBody = `{
  "age": 29,
  "wage": 50000,
  "inflation": 5.5,
  "q": [{"fixed": 0, "start": "2023-07-01 00:00:00", "end": "2023-07-31 23:59:59"}],
  "p": [{"extra": 25, "start": "2023-10-01 08:00:00", "end": "2023-12-31 19:59:59"}],
  "k": [
    {"start": "2023-01-01 00:00:00", "end": "2023-12-31 23:59:59"},
    {"start": "2023-03-01 00:00:00", "end": "2023-11-30 23:59:59"}
  ],
  "transactions": [
    {"date": "2023-02-28 15:49:20", "amount": 375},
    {"date": "2023-07-01 21:59:00", "amount": 620},
    {"date": "2023-10-12 20:15:30", "amount": 250},
    {"date": "2023-12-17 08:09:45", "amount": 480},
    {"date": "2023-12-17 08:09:45", "amount": -10}
  ]
}`

func newTestServer(apiKey string) (*Server, *logging.MockLogger) {
	logger := logging.NewMockLogger()
	return NewServer(calculation.NewCalculationEngine(), Options{APIKey: apiKey}, logger), logger
}

func do(t *testing.T, s *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body
}

func TestParse(t *testing.T) {
	s, _ := newTestServer(config.DevAPIKey)

	rr := do(t, s, http.MethodPost, BasePath+"/transactions:parse",
		`[{"date":"2023-10-12 20:15:30","amount":250},{"date":"2023-02-28 15:49:20","amount":375}]`, nil)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var txns []map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &txns))
	require.Len(t, txns, 2)
	assert.Equal(t, "2023-10-12 20:15:30", txns[0]["date"])
	assert.Equal(t, 300.0, txns[0]["ceiling"])
	assert.Equal(t, 50.0, txns[0]["remanent"])
	assert.Equal(t, 25.0, txns[1]["remanent"])
}

func TestParse_EmptyList(t *testing.T) {
	s, _ := newTestServer(config.DevAPIKey)

	rr := do(t, s, http.MethodPost, BasePath+"/transactions:parse", `[]`, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestValidator(t *testing.T) {
	s, _ := newTestServer(config.DevAPIKey)
	body := `{"wage": 50000, "transactions": [
		{"date":"2023-01-01 10:00:00","amount":2000,"ceiling":2000,"remanent":0},
		{"date":"2023-01-02 10:00:00","amount":3500,"ceiling":3500,"remanent":0},
		{"date":"2023-01-03 10:00:00","amount":1500,"ceiling":1500,"remanent":0},
		{"date":"2023-01-04 10:00:00","amount":-250,"ceiling":-200,"remanent":50}]}`

	rr := do(t, s, http.MethodPost, BasePath+"/transactions:validator", body, nil)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	result := decode(t, rr)
	assert.Len(t, result["valid"], 3)
	invalid := result["invalid"].([]interface{})
	require.Len(t, invalid, 1)
	assert.Equal(t, "Negative amounts are not allowed", invalid[0].(map[string]interface{})["message"])
}

func TestFilter(t *testing.T) {
	s, _ := newTestServer(config.DevAPIKey)

	rr := do(t, s, http.MethodPost, BasePath+"/transactions:filter", returnsBody, nil)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	result := decode(t, rr)
	valid := result["valid"].([]interface{})
	require.Len(t, valid, 4)
	second := valid[1].(map[string]interface{})
	assert.Equal(t, 0.0, second["remanent"])
	assert.Equal(t, true, second["inKPeriod"])
	invalid := result["invalid"].([]interface{})
	require.Len(t, invalid, 1)
	assert.Equal(t, "Negative amounts are not allowed", invalid[0].(map[string]interface{})["message"])
}

func TestReturns(t *testing.T) {
	tests := []struct {
		path    string
		profits []float64
	}{
		{"/returns:nps", []float64{86.88, 44.94}},
		{"/returns:index", []float64{1684.51, 871.3}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			s, _ := newTestServer(config.DevAPIKey)

			rr := do(t, s, http.MethodPost, BasePath+tt.path, returnsBody, nil)

			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			result := decode(t, rr)
			assert.Equal(t, 1725.0, result["totalTransactionAmount"])
			assert.Equal(t, 1900.0, result["totalCeiling"])
			savings := result["savingsByDates"].([]interface{})
			require.Len(t, savings, 2)
			for i, want := range tt.profits {
				entry := savings[i].(map[string]interface{})
				assert.Equal(t, want, entry["profit"])
				assert.Equal(t, 0.0, entry["taxBenefit"])
			}
			assert.Equal(t, 145.0, savings[0].(map[string]interface{})["amount"])
			assert.Equal(t, 75.0, savings[1].(map[string]interface{})["amount"])
		})
	}
}

func TestReturns_UnknownStrategy(t *testing.T) {
	s, _ := newTestServer(config.DevAPIKey)

	rr := do(t, s, http.MethodPost, BasePath+"/returns:crypto", returnsBody, nil)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "unknown strategy 'crypto'. Available: index, nps", decode(t, rr)["detail"])
}

func TestErrorsAre422(t *testing.T) {
	s, _ := newTestServer(config.DevAPIKey)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"malformed json", "/transactions:parse", `[{"date": `},
		{"bad amount type", "/transactions:parse", `[{"date":"2023-01-01 00:00:00","amount":"abc"}]`},
		{"malformed k date", "/returns:nps", strings.Replace(returnsBody, "2023-03-01 00:00:00", "2023/03/01", 1)},
		{"malformed transaction date", "/transactions:filter", `{"q":[{"fixed":0,"start":"2023-01-01 00:00:00","end":"2023-12-31 23:59:59"}],"p":[],"k":[],"wage":1,"transactions":[{"date":"yesterday","amount":5}]}`},
		{"negative age", "/returns:index", strings.Replace(returnsBody, `"age": 29`, `"age": -1`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, s, http.MethodPost, BasePath+tt.path, tt.body, nil)

			assert.Equal(t, http.StatusUnprocessableEntity, rr.Code, rr.Body.String())
			assert.NotEmpty(t, decode(t, rr)["detail"])
		})
	}
}

func TestUnknownAction(t *testing.T) {
	s, _ := newTestServer(config.DevAPIKey)

	rr := do(t, s, http.MethodPost, BasePath+"/transactions:delete", `{}`, nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAPIKey(t *testing.T) {
	s, _ := newTestServer("s3cret")

	rr := do(t, s, http.MethodPost, BasePath+"/transactions:parse", `[]`, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "Invalid or missing API key", decode(t, rr)["detail"])

	rr = do(t, s, http.MethodGet, BasePath+"/performance", "", map[string]string{APIKeyHeader: "wrong"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = do(t, s, http.MethodPost, BasePath+"/transactions:parse", `[]`, map[string]string{APIKeyHeader: "s3cret"})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestPerformance(t *testing.T) {
	s, _ := newTestServer(config.DevAPIKey)

	rr := do(t, s, http.MethodGet, BasePath+"/performance", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.Regexp(t, `^1970-01-01 \d{2,}:\d{2}:\d{2}\.\d{3}$`, body["time"])
	assert.Regexp(t, `^\d+\.\d{2} MB$`, body["memory"])
	assert.Greater(t, body["threads"].(float64), 0.0)
}

func TestFormatUptimeAndMemory(t *testing.T) {
	assert.Equal(t, "1970-01-01 00:00:00.000", FormatUptime(0))
	assert.Equal(t, "1970-01-01 01:02:03.004", FormatUptime(time.Hour+2*time.Minute+3*time.Second+4*time.Millisecond))
	assert.Equal(t, "1970-01-01 26:00:00.000", FormatUptime(26*time.Hour))
	assert.Equal(t, "1970-01-01 00:00:00.000", FormatUptime(-time.Second))

	assert.Equal(t, "25.11 MB", FormatMemory(26329743))
	assert.Equal(t, "0.00 MB", FormatMemory(0))
}

func TestRequestLogging(t *testing.T) {
	s, logger := newTestServer(config.DevAPIKey)

	do(t, s, http.MethodPost, BasePath+"/transactions:parse", `[]`, nil)
	do(t, s, http.MethodGet, "/health", "", nil)

	entries := 0
	for _, e := range logger.Entries() {
		if e.Message == "request handled" {
			entries++
		}
	}
	assert.Equal(t, 1, entries, "only API paths are logged")
	status, ok := logger.FieldValue("request handled", logging.FieldStatus)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	path, _ := logger.FieldValue("request handled", logging.FieldPath)
	assert.Equal(t, BasePath+"/transactions:parse", path)
}

func TestRun_GracefulShutdown(t *testing.T) {
	s, _ := newTestServer(config.DevAPIKey)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Post("http://"+addr+BasePath+"/transactions:parse", "application/json", bytes.NewBufferString(`[]`))
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
