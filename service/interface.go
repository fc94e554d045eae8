package service

import (
	"time"

	"calendario.app/models"
	"calendario.app/notification"
)

// PreferenceServiceInterface defines the interface for preference operations
type PreferenceServiceInterface interface {
	GetPreferences(userID uint) (*models.NotificationPreferences, error)
	UpdatePreferences(userID uint, req *models.PreferencesRequest) (*models.NotificationPreferences, error)
}

// SubscriptionServiceInterface handles push registration and removal
type SubscriptionServiceInterface interface {
	Subscribe(req *models.PushSubscribeRequest) error
	Unsubscribe(endpoint string) error
}

// EventServiceInterface defines the interface for event operations
type EventServiceInterface interface {
	UpcomingEvents(types []string, horizon time.Duration, limit int) ([]models.Event, error)
	ImportAstronomyEvents() error
	ImportTideEvents() error
	ImportFixtureEvents() error
	CleanupPastEvents() error
}

// PushServiceInterface fans a notification out to a user's devices
type PushServiceInterface interface {
	SendToUser(userID uint, payload notification.PushPayload) error
	PublicKey() string
}

// PreferenceRepositoryInterface defines the interface for preference data operations
type PreferenceRepositoryInterface interface {
	GetAll() ([]models.NotificationPreferences, error)
	GetByUserID(userID uint) (*models.NotificationPreferences, error)
	Upsert(preferences *models.NotificationPreferences) error
}

// PushSubscriptionRepositoryInterface defines the interface for push registration data operations
type PushSubscriptionRepositoryInterface interface {
	GetByUserID(userID uint) ([]models.PushSubscription, error)
	Upsert(subscription *models.PushSubscription) error
	DeleteByEndpoint(endpoint string) error
}

// EventRepositoryInterface defines the interface for event data operations
type EventRepositoryInterface interface {
	Query(types []string, startAfter, startBefore time.Time, limit int) ([]models.Event, error)
	CreateIfAbsent(event *models.Event) error
	DeleteEndedBefore(cutoff time.Time) error
}

// Ensure implementations satisfy interfaces
var _ PreferenceServiceInterface = (*PreferenceService)(nil)
var _ SubscriptionServiceInterface = (*SubscriptionService)(nil)
var _ EventServiceInterface = (*EventService)(nil)
var _ PushServiceInterface = (*PushService)(nil)
var _ notification.PushChannel = (*PushService)(nil)
