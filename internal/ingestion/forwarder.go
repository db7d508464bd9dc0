package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const DefaultProcessorURL = "http://localhost:5000/ingest"

// cap on what we read back from the processor
const maxResponseBytes = 4 << 20

type Forwarder interface {
	Forward(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)
}

// HTTPForwarder posts payloads to the external ingestion processor.
type HTTPForwarder struct {
	url    string
	client *http.Client
}

func NewHTTPForwarder(url string, timeout time.Duration) *HTTPForwarder {
	if url == "" {
		url = DefaultProcessorURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPForwarder{
		url: url,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (f *HTTPForwarder) Forward(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(payload))

	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessor, err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))

	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrProcessor, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrProcessor, resp.StatusCode)
	}

	return asJSON(body), nil
}

// non-JSON bodies are passed back as a JSON string
func asJSON(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)

	if len(trimmed) == 0 {
		return json.RawMessage("null")
	}

	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}

	b, _ := json.Marshal(string(body))
	return json.RawMessage(b)
}
