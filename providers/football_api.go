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

// League identifiers in the fixtures API
const (
	LeaguePrimeiraLiga = 94
	LeagueChampions    = 2
	LeagueWorldCup     = 1
)

const fixturesPerLeague = 10

// FootballAPIProvider implements FixtureProvider for an api-football style service
type FootballAPIProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewFootballAPIProvider creates a new football fixtures provider
func NewFootballAPIProvider(config *config.ProvidersConfig) *FootballAPIProvider {
	return &FootballAPIProvider{
		apiKey:  config.FootballAPIKey,
		baseURL: config.FootballBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// GetUpcomingFixtures retrieves the next fixtures scheduled for a league
func (p *FootballAPIProvider) GetUpcomingFixtures(leagueID int) ([]models.Fixture, error) {
	if p.apiKey == "" {
		return nil, errors.NewConfigurationError("football API key is not configured", nil)
	}

	url := fmt.Sprintf("%s/fixtures?league=%d&next=%d", p.baseURL, leagueID, fixturesPerLeague)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewExternalAPIError("failed to build fixtures request", err)
	}
	req.Header.Set("x-apisports-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.NewExternalAPIError("failed to get fixtures", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewExternalAPIError(fmt.Sprintf("fixtures API returned status code %d", resp.StatusCode), nil)
	}

	var result struct {
		Response []struct {
			Fixture struct {
				Date string `json:"date"`
			} `json:"fixture"`
			League struct {
				Name string `json:"name"`
			} `json:"league"`
			Teams struct {
				Home struct {
					Name string `json:"name"`
				} `json:"home"`
				Away struct {
					Name string `json:"name"`
				} `json:"away"`
			} `json:"teams"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.NewExternalAPIError("failed to decode fixtures", err)
	}

	fixtures := make([]models.Fixture, 0, len(result.Response))
	for _, item := range result.Response {
		kickOff, err := time.Parse(time.RFC3339, item.Fixture.Date)
		if err != nil {
			continue
		}
		fixtures = append(fixtures, models.Fixture{
			HomeTeam:    item.Teams.Home.Name,
			AwayTeam:    item.Teams.Away.Name,
			Competition: item.League.Name,
			KickOff:     kickOff,
		})
	}

	return fixtures, nil
}
