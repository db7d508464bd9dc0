package integration_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/docgate/internal/ingestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIngestionService(t *testing.T, handler http.HandlerFunc) *ingestion.Service {
	t.Helper()

	processor := httptest.NewServer(handler)
	t.Cleanup(processor.Close)

	fwd := ingestion.NewProtectedForwarder(
		ingestion.NewHTTPForwarder(processor.URL, time.Second),
		ingestion.ProtectedForwarderConfig{FailureThreshold: 1, Cooldown: time.Minute},
	)

	return ingestion.NewService(fwd, ingestion.NewMemoryStore(), nil)
}

func TestIngestion_TriggerAndStatus(t *testing.T) {
	svc := newIngestionService(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"accepted":true,"echo":` + string(body) + `}`))
	})
	app := setupApp(t, testConfig(), svc)

	w := doRequest(app.router, http.MethodPost, "/ingestion/trigger", "", `{"payload":{"source":"s3://bucket"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Accepted bool            `json:"accepted"`
		Echo     json.RawMessage `json:"echo"`
	}
	mustReadJSON(t, w, &resp)
	assert.True(t, resp.Accepted)
	assert.JSONEq(t, `{"source":"s3://bucket"}`, string(resp.Echo))

	w = doRequest(app.router, http.MethodGet, "/ingestion/status", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var records []ingestion.Record
	mustReadJSON(t, w, &records)
	require.Len(t, records, 1)
	assert.Equal(t, ingestion.StatusInProgress, records[0].Status)
	assert.JSONEq(t, `{"source":"s3://bucket"}`, string(records[0].Payload))
}

func TestIngestion_ProcessorFailure(t *testing.T) {
	svc := newIngestionService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	app := setupApp(t, testConfig(), svc)

	body := `{"payload":{"n":1}}`

	w := doRequest(app.router, http.MethodPost, "/ingestion/trigger", "", body)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	// threshold is one failure, so the circuit is now open
	w = doRequest(app.router, http.MethodPost, "/ingestion/trigger", "", body)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doRequest(app.router, http.MethodGet, "/ingestion/status", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var records []ingestion.Record
	mustReadJSON(t, w, &records)
	assert.Empty(t, records)
}
