package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single gateway round-trip when the caller does not
// configure one.
const DefaultTimeout = 15 * time.Second

// Client is an HTTP client for a classification gateway speaking the
// analyze protocol: POST {"text": ...} returns {"emotion": ..., "confidence": 0-100}.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient returns a Client for the gateway at url. A non-positive timeout
// falls back to DefaultTimeout.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// analyzeRequest is the gateway request body.
type analyzeRequest struct {
	Text string `json:"text"`
}

// analyzeResponse is the gateway response body. Fields beyond the label and
// confidence are ignored.
type analyzeResponse struct {
	Emotion    string   `json:"emotion"`
	Confidence *float64 `json:"confidence"`
	Error      string   `json:"error,omitempty"`
}

// Classify sends text to the gateway and returns the label and confidence.
// A response without an emotion label is an ErrEmptyResult.
func (c *Client) Classify(ctx context.Context, text string) (Result, error) {
	body, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return Result{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("calling gateway: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("reading gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("gateway returned status %d: %.200s", resp.StatusCode, string(respBytes))
	}

	var parsed analyzeResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return Result{}, fmt.Errorf("unmarshaling gateway response: %w", err)
	}

	if parsed.Emotion == "" {
		return Result{}, ErrEmptyResult
	}

	res := Result{EmotionType: parsed.Emotion}
	if parsed.Confidence != nil {
		res.Confidence = *parsed.Confidence
	}
	return res, nil
}
