package providers

import (
	"time"

	"calendario.app/models"
)

// AstronomyProvider returns sun times for a coordinate and date
type AstronomyProvider interface {
	GetSunTimes(lat, lng float64, date time.Time) (*models.SunTimes, error)
}

// TideProvider returns the tide extremes for a coordinate and day
type TideProvider interface {
	GetTideExtremes(lat, lng float64, day time.Time) ([]models.TideExtreme, error)
}

// FixtureProvider returns upcoming fixtures for a league
type FixtureProvider interface {
	GetUpcomingFixtures(leagueID int) ([]models.Fixture, error)
}

// DeliveryResult classifies the outcome of a single push delivery attempt
type DeliveryResult int

const (
	// DeliveryDelivered means the push service accepted the notification
	DeliveryDelivered DeliveryResult = iota
	// DeliveryExpired means the registration is permanently gone and should
	// be pruned
	DeliveryExpired
	// DeliveryTransient means the attempt failed but the registration is
	// still valid; the next tick retries naturally
	DeliveryTransient
)

// PushProvider delivers an encrypted payload to one device registration
type PushProvider interface {
	Deliver(subscription models.PushSubscription, payload []byte) (DeliveryResult, error)
	PublicKey() string
}
