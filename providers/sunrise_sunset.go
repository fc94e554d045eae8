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

// SunriseSunsetProvider implements AstronomyProvider for sunrise-sunset.org
type SunriseSunsetProvider struct {
	baseURL string
	client  *http.Client
}

// NewSunriseSunsetProvider creates a new sunrise-sunset.org provider
func NewSunriseSunsetProvider(config *config.ProvidersConfig) *SunriseSunsetProvider {
	return &SunriseSunsetProvider{
		baseURL: config.SunriseSunsetBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// GetSunTimes retrieves sunrise and sunset instants for a coordinate and date
func (p *SunriseSunsetProvider) GetSunTimes(lat, lng float64, date time.Time) (*models.SunTimes, error) {
	url := fmt.Sprintf("%s/json?lat=%f&lng=%f&date=%s&formatted=0",
		p.baseURL, lat, lng, date.Format("2006-01-02"))

	resp, err := p.client.Get(url)
	if err != nil {
		return nil, errors.NewExternalAPIError("failed to get sun times", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewExternalAPIError(fmt.Sprintf("sunrise-sunset API returned status code %d", resp.StatusCode), nil)
	}

	var result struct {
		Status  string `json:"status"`
		Results struct {
			Sunrise string `json:"sunrise"`
			Sunset  string `json:"sunset"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.NewExternalAPIError("failed to decode sun times", err)
	}

	if result.Status != "OK" {
		return nil, errors.NewExternalAPIError(fmt.Sprintf("sunrise-sunset API returned status %s", result.Status), nil)
	}

	sunrise, err := time.Parse(time.RFC3339, result.Results.Sunrise)
	if err != nil {
		return nil, errors.NewExternalAPIError("invalid sunrise timestamp", err)
	}
	sunset, err := time.Parse(time.RFC3339, result.Results.Sunset)
	if err != nil {
		return nil, errors.NewExternalAPIError("invalid sunset timestamp", err)
	}

	return &models.SunTimes{
		Sunrise: sunrise,
		Sunset:  sunset,
	}, nil
}
