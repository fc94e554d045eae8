package providers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"calendario.app/config"
	"calendario.app/errors"
	"calendario.app/models"
)

// WorldTidesProvider implements TideProvider for worldtides.info
type WorldTidesProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewWorldTidesProvider creates a new WorldTides provider
func NewWorldTidesProvider(config *config.ProvidersConfig) *WorldTidesProvider {
	return &WorldTidesProvider{
		apiKey:  config.WorldTidesAPIKey,
		baseURL: config.WorldTidesBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// GetTideExtremes retrieves the high/low tide extremes for a coordinate and day
func (p *WorldTidesProvider) GetTideExtremes(lat, lng float64, day time.Time) ([]models.TideExtreme, error) {
	if p.apiKey == "" {
		return nil, errors.NewConfigurationError("WorldTides API key is not configured", nil)
	}

	url := fmt.Sprintf("%s?extremes&date=%s&lat=%f&lon=%f&key=%s",
		p.baseURL, day.Format("2006-01-02"), lat, lng, p.apiKey)

	resp, err := p.client.Get(url)
	if err != nil {
		return nil, errors.NewExternalAPIError("failed to get tide extremes", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewExternalAPIError(fmt.Sprintf("WorldTides API returned status code %d", resp.StatusCode), nil)
	}

	var result struct {
		Status   int `json:"status"`
		Extremes []struct {
			Dt     int64   `json:"dt"`
			Type   string  `json:"type"`
			Height float64 `json:"height"`
		} `json:"extremes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.NewExternalAPIError("failed to decode tide data", err)
	}

	if result.Status != http.StatusOK {
		return nil, errors.NewExternalAPIError(fmt.Sprintf("WorldTides API returned status %d", result.Status), nil)
	}

	extremes := make([]models.TideExtreme, 0, len(result.Extremes))
	for _, extreme := range result.Extremes {
		extremes = append(extremes, models.TideExtreme{
			Time:   time.Unix(extreme.Dt, 0).UTC(),
			Type:   extreme.Type,
			Height: extreme.Height,
		})
	}

	return extremes, nil
}
