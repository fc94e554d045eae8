package service

import (
	"fmt"
	"log"
	"time"

	"calendario.app/config"
	"calendario.app/errors"
	"calendario.app/models"
	"calendario.app/providers"
)

// PreferenceService handles notification preference business logic
type PreferenceService struct {
	preferenceRepo PreferenceRepositoryInterface
}

// NewPreferenceService creates a new preference service
func NewPreferenceService(preferenceRepo PreferenceRepositoryInterface) *PreferenceService {
	return &PreferenceService{preferenceRepo: preferenceRepo}
}

// GetPreferences returns a user's preferences, creating defaults on first read
func (s *PreferenceService) GetPreferences(userID uint) (*models.NotificationPreferences, error) {
	if userID == 0 {
		return nil, errors.NewValidationError("user id is required")
	}

	preferences, err := s.preferenceRepo.GetByUserID(userID)
	if err != nil {
		if errors.IsValidationError(err) {
			return nil, err
		}
		return nil, errors.NewDatabaseError("failed to load preferences", err)
	}

	return preferences, nil
}

// UpdatePreferences applies a partial update on top of the stored preferences
func (s *PreferenceService) UpdatePreferences(userID uint, req *models.PreferencesRequest) (*models.NotificationPreferences, error) {
	log.Printf("[DEBUG] PreferenceService.UpdatePreferences called for userID=%d\n", userID)

	if userID == 0 {
		return nil, errors.NewValidationError("user id is required")
	}
	if err := validatePreferencesRequest(req); err != nil {
		return nil, err
	}

	preferences, err := s.GetPreferences(userID)
	if err != nil {
		return nil, err
	}

	applyPreferencesRequest(preferences, req)

	if err := s.preferenceRepo.Upsert(preferences); err != nil {
		if errors.IsValidationError(err) {
			return nil, err
		}
		return nil, errors.NewDatabaseError("failed to store preferences", err)
	}

	return preferences, nil
}

func validatePreferencesRequest(req *models.PreferencesRequest) error {
	frequencies := []string{
		req.TidesFrequency, req.SportsFrequency, req.AstronomyFrequency,
		req.AgricultureFrequency, req.CulturalFrequency, req.HolidaysFrequency,
	}
	for _, frequency := range frequencies {
		if frequency == "" {
			continue
		}
		switch frequency {
		case models.FrequencyImmediate, models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyNever:
		default:
			return errors.NewValidationError(fmt.Sprintf("invalid frequency %q", frequency))
		}
	}

	times := []string{req.PreferredNotificationTime, req.QuietHoursStart, req.QuietHoursEnd}
	for _, value := range times {
		if value == "" {
			continue
		}
		if _, err := time.Parse("15:04", value); err != nil {
			return errors.NewValidationError(fmt.Sprintf("invalid time %q: expected HH:MM", value))
		}
	}

	return nil
}

func applyPreferencesRequest(preferences *models.NotificationPreferences, req *models.PreferencesRequest) {
	if req.TidesEnabled != nil {
		preferences.TidesEnabled = *req.TidesEnabled
	}
	if req.TidesFrequency != "" {
		preferences.TidesFrequency = req.TidesFrequency
	}
	if req.SportsEnabled != nil {
		preferences.SportsEnabled = *req.SportsEnabled
	}
	if req.SportsFrequency != "" {
		preferences.SportsFrequency = req.SportsFrequency
	}
	if req.AstronomyEnabled != nil {
		preferences.AstronomyEnabled = *req.AstronomyEnabled
	}
	if req.AstronomyFrequency != "" {
		preferences.AstronomyFrequency = req.AstronomyFrequency
	}
	if req.AgricultureEnabled != nil {
		preferences.AgricultureEnabled = *req.AgricultureEnabled
	}
	if req.AgricultureFrequency != "" {
		preferences.AgricultureFrequency = req.AgricultureFrequency
	}
	if req.CulturalEnabled != nil {
		preferences.CulturalEnabled = *req.CulturalEnabled
	}
	if req.CulturalFrequency != "" {
		preferences.CulturalFrequency = req.CulturalFrequency
	}
	if req.HolidaysEnabled != nil {
		preferences.HolidaysEnabled = *req.HolidaysEnabled
	}
	if req.HolidaysFrequency != "" {
		preferences.HolidaysFrequency = req.HolidaysFrequency
	}
	if req.PreferredNotificationTime != "" {
		preferences.PreferredNotificationTime = req.PreferredNotificationTime
	}
	if req.QuietHoursStart != "" {
		preferences.QuietHoursStart = req.QuietHoursStart
	}
	if req.QuietHoursEnd != "" {
		preferences.QuietHoursEnd = req.QuietHoursEnd
	}
}

// SubscriptionService handles push registration business logic
type SubscriptionService struct {
	subscriptionRepo PushSubscriptionRepositoryInterface
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(subscriptionRepo PushSubscriptionRepositoryInterface) *SubscriptionService {
	return &SubscriptionService{subscriptionRepo: subscriptionRepo}
}

// Subscribe registers a device, refreshing keys when the endpoint already exists
func (s *SubscriptionService) Subscribe(req *models.PushSubscribeRequest) error {
	log.Printf("[DEBUG] SubscriptionService.Subscribe called for userID=%d\n", req.UserID)

	if req.UserID == 0 {
		return errors.NewValidationError("user id is required")
	}
	if req.Endpoint == "" {
		return errors.NewValidationError("endpoint is required")
	}
	if req.Keys.P256dh == "" || req.Keys.Auth == "" {
		return errors.NewValidationError("subscription keys are required")
	}

	subscription := &models.PushSubscription{
		UserID:    req.UserID,
		Endpoint:  req.Endpoint,
		P256dh:    req.Keys.P256dh,
		Auth:      req.Keys.Auth,
		UserAgent: req.UserAgent,
	}

	if err := s.subscriptionRepo.Upsert(subscription); err != nil {
		if errors.IsValidationError(err) {
			return err
		}
		return errors.NewDatabaseError("failed to store subscription", err)
	}

	return nil
}

// Unsubscribe removes a device registration by endpoint
func (s *SubscriptionService) Unsubscribe(endpoint string) error {
	log.Printf("[DEBUG] SubscriptionService.Unsubscribe called\n")

	if endpoint == "" {
		return errors.NewValidationError("endpoint is required")
	}

	if err := s.subscriptionRepo.DeleteByEndpoint(endpoint); err != nil {
		if errors.IsValidationError(err) {
			return err
		}
		return errors.NewDatabaseError("failed to delete subscription", err)
	}

	return nil
}

// EventService handles calendar event queries and provider imports
type EventService struct {
	eventRepo EventRepositoryInterface
	astronomy providers.AstronomyProvider
	tides     providers.TideProvider
	fixtures  providers.FixtureProvider
	location  config.LocationConfig
}

// NewEventService creates a new event service
func NewEventService(
	eventRepo EventRepositoryInterface,
	astronomy providers.AstronomyProvider,
	tides providers.TideProvider,
	fixtures providers.FixtureProvider,
	location config.LocationConfig,
) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		astronomy: astronomy,
		tides:     tides,
		fixtures:  fixtures,
		location:  location,
	}
}

// allEventTypes is the full set queried when no filter is given
var allEventTypes = []string{
	models.EventTypeTide, models.EventTypeMatchLiga, models.EventTypeUEFA,
	models.EventTypeFIFA, models.EventTypeAstronomy, models.EventTypeMoon,
	models.EventTypeEventPT, models.EventTypeCultural, models.EventTypeHoliday,
	models.EventTypeCustom,
}

// UpcomingEvents returns events starting within the horizon
func (s *EventService) UpcomingEvents(types []string, horizon time.Duration, limit int) ([]models.Event, error) {
	if len(types) == 0 {
		types = allEventTypes
	}
	if horizon <= 0 {
		horizon = 24 * time.Hour
	}

	now := time.Now()
	events, err := s.eventRepo.Query(types, now, now.Add(horizon), limit)
	if err != nil {
		if errors.IsValidationError(err) {
			return nil, err
		}
		return nil, errors.NewDatabaseError("failed to query events", err)
	}

	return events, nil
}

// ImportAstronomyEvents stores sunrise/sunset events for the next week
func (s *EventService) ImportAstronomyEvents() error {
	now := time.Now()

	for day := 0; day < 7; day++ {
		date := now.AddDate(0, 0, day)

		sunTimes, err := s.astronomy.GetSunTimes(s.location.Latitude, s.location.Longitude, date)
		if err != nil {
			log.Printf("[WARNING] Failed to fetch sun times for %s: %v\n", date.Format("2006-01-02"), err)
			continue
		}

		entries := []models.Event{
			{Title: "Nascer do sol", Type: models.EventTypeAstronomy, StartAt: sunTimes.Sunrise, Location: s.location.Name},
			{Title: "Pôr do sol", Type: models.EventTypeAstronomy, StartAt: sunTimes.Sunset, Location: s.location.Name},
		}
		for i := range entries {
			if err := s.eventRepo.CreateIfAbsent(&entries[i]); err != nil {
				log.Printf("[WARNING] Failed to store astronomy event: %v\n", err)
			}
		}
	}

	return nil
}

// ImportTideEvents stores tide extremes for the next three days
func (s *EventService) ImportTideEvents() error {
	now := time.Now()

	for day := 0; day < 3; day++ {
		date := now.AddDate(0, 0, day)

		extremes, err := s.tides.GetTideExtremes(s.location.Latitude, s.location.Longitude, date)
		if err != nil {
			log.Printf("[WARNING] Failed to fetch tides for %s: %v\n", date.Format("2006-01-02"), err)
			continue
		}

		for _, extreme := range extremes {
			title := fmt.Sprintf("Maré baixa (%.1fm)", extreme.Height)
			if extreme.Type == "High" {
				title = fmt.Sprintf("Maré alta (%.1fm)", extreme.Height)
			}
			event := models.Event{
				Title:    title,
				Type:     models.EventTypeTide,
				StartAt:  extreme.Time,
				Location: s.location.Name,
			}
			if err := s.eventRepo.CreateIfAbsent(&event); err != nil {
				log.Printf("[WARNING] Failed to store tide event: %v\n", err)
			}
		}
	}

	return nil
}

// leagueEventTypes maps fixture API leagues to stored event type codes
var leagueEventTypes = map[int]string{
	providers.LeaguePrimeiraLiga: models.EventTypeMatchLiga,
	providers.LeagueChampions:    models.EventTypeUEFA,
	providers.LeagueWorldCup:     models.EventTypeFIFA,
}

// ImportFixtureEvents stores upcoming fixtures for the tracked competitions
func (s *EventService) ImportFixtureEvents() error {
	for leagueID, eventType := range leagueEventTypes {
		fixtures, err := s.fixtures.GetUpcomingFixtures(leagueID)
		if err != nil {
			log.Printf("[WARNING] Failed to fetch fixtures for league %d: %v\n", leagueID, err)
			continue
		}

		for _, fixture := range fixtures {
			event := models.Event{
				Title:   fmt.Sprintf("%s x %s", fixture.HomeTeam, fixture.AwayTeam),
				Type:    eventType,
				StartAt: fixture.KickOff,
			}
			if err := s.eventRepo.CreateIfAbsent(&event); err != nil {
				log.Printf("[WARNING] Failed to store fixture event: %v\n", err)
			}
		}
	}

	return nil
}

// CleanupPastEvents removes events older than a day
func (s *EventService) CleanupPastEvents() error {
	if err := s.eventRepo.DeleteEndedBefore(time.Now().Add(-24 * time.Hour)); err != nil {
		return errors.NewDatabaseError("failed to clean up past events", err)
	}
	return nil
}
