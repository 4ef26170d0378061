// Package weather fetches a small current-conditions snapshot from the
// Open-Meteo forecast API. The snapshot is attached to journal entries at
// write time; a failed lookup never blocks an entry write.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/blackwell-systems/daymark/internal/journal"
)

const defaultBaseURL = "https://api.open-meteo.com/v1"

// Client queries Open-Meteo. The API needs no key.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a weather client. An empty baseURL uses the public
// Open-Meteo endpoint.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// forecastResponse is the subset of the Open-Meteo payload we read.
type forecastResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// Current returns the current conditions at the given coordinates.
func (c *Client) Current(ctx context.Context, latitude, longitude float64) (*journal.Weather, error) {
	url := fmt.Sprintf("%s/forecast?latitude=%.4f&longitude=%.4f&current_weather=true",
		c.baseURL, latitude, longitude)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling weather api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading weather response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather api returned status %d", resp.StatusCode)
	}

	var parsed forecastResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshaling weather response: %w", err)
	}

	desc, icon := describeCode(parsed.CurrentWeather.WeatherCode)
	return &journal.Weather{
		Description: desc,
		Icon:        icon,
		TempC:       parsed.CurrentWeather.Temperature,
	}, nil
}

// describeCode maps a WMO weather code to a short description and icon name.
func describeCode(code int) (string, string) {
	switch {
	case code == 0:
		return "clear", "sun"
	case code <= 3:
		return "cloudy", "cloud"
	case code == 45 || code == 48:
		return "foggy", "fog"
	case code >= 51 && code <= 67:
		return "rainy", "rain"
	case code >= 71 && code <= 77:
		return "snowy", "snow"
	case code >= 80 && code <= 82:
		return "rainy", "rain"
	case code >= 85 && code <= 86:
		return "snowy", "snow"
	case code >= 95:
		return "stormy", "storm"
	default:
		return "cloudy", "cloud"
	}
}
