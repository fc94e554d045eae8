// Package repository implements data access layer for the application
package repository

import (
	stderrors "errors"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"calendario.app/errors"
	"calendario.app/models"
)

// PreferenceRepository handles data access operations for notification preferences
type PreferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository creates a new repository for preference data
func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// GetAll retrieves every stored preference row
func (r *PreferenceRepository) GetAll() ([]models.NotificationPreferences, error) {
	var preferences []models.NotificationPreferences
	result := r.db.Find(&preferences)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when listing preferences: %v\n", result.Error)
		return nil, result.Error
	}

	log.Printf("[DEBUG] Found %d preference rows\n", len(preferences))
	return preferences, nil
}

// GetByUserID retrieves a user's preferences, creating the default row lazily
// on first read
func (r *PreferenceRepository) GetByUserID(userID uint) (*models.NotificationPreferences, error) {
	log.Printf("[DEBUG] PreferenceRepository.GetByUserID: userID=%d\n", userID)

	if userID == 0 {
		return nil, errors.NewValidationError("user id cannot be zero")
	}

	var preferences models.NotificationPreferences
	result := r.db.Where("user_id = ?", userID).First(&preferences)
	if result.Error != nil {
		if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
			defaults := models.DefaultNotificationPreferences(userID)
			if err := r.db.Create(defaults).Error; err != nil {
				log.Printf("[ERROR] Database error when creating default preferences: %v\n", err)
				return nil, err
			}
			log.Printf("[DEBUG] Created default preferences for userID=%d\n", userID)
			return defaults, nil
		}
		log.Printf("[ERROR] Database error when finding preferences: %v\n", result.Error)
		return nil, result.Error
	}

	return &preferences, nil
}

// Upsert stores a user's preferences, replacing any existing row
func (r *PreferenceRepository) Upsert(preferences *models.NotificationPreferences) error {
	log.Printf("[DEBUG] PreferenceRepository.Upsert: userID=%d\n", preferences.UserID)

	if preferences.UserID == 0 {
		return errors.NewValidationError("user id cannot be zero")
	}

	var existing models.NotificationPreferences
	result := r.db.Where("user_id = ?", preferences.UserID).First(&existing)
	if result.Error != nil {
		if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
			if err := r.db.Create(preferences).Error; err != nil {
				log.Printf("[ERROR] Database error when creating preferences: %v\n", err)
				return err
			}
			return nil
		}
		log.Printf("[ERROR] Database error when finding preferences for upsert: %v\n", result.Error)
		return result.Error
	}

	preferences.ID = existing.ID
	preferences.CreatedAt = existing.CreatedAt
	if err := r.db.Save(preferences).Error; err != nil {
		log.Printf("[ERROR] Database error when updating preferences: %v\n", err)
		return err
	}

	log.Println("[DEBUG] Updated preferences successfully")
	return nil
}

// PushSubscriptionRepository handles data access operations for push registrations
type PushSubscriptionRepository struct {
	db *gorm.DB
}

// NewPushSubscriptionRepository creates a new repository for push subscriptions
func NewPushSubscriptionRepository(db *gorm.DB) *PushSubscriptionRepository {
	return &PushSubscriptionRepository{db: db}
}

// GetByUserID retrieves all device registrations for a user
func (r *PushSubscriptionRepository) GetByUserID(userID uint) ([]models.PushSubscription, error) {
	if userID == 0 {
		return nil, errors.NewValidationError("user id cannot be zero")
	}

	var subscriptions []models.PushSubscription
	result := r.db.Where("user_id = ?", userID).Find(&subscriptions)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when listing subscriptions: %v\n", result.Error)
		return nil, result.Error
	}

	return subscriptions, nil
}

// Upsert stores a device registration. The endpoint is the natural key: a
// re-subscribe with the same endpoint refreshes the encryption keys in place.
func (r *PushSubscriptionRepository) Upsert(subscription *models.PushSubscription) error {
	log.Printf("[DEBUG] PushSubscriptionRepository.Upsert: userID=%d\n", subscription.UserID)

	if subscription.Endpoint == "" {
		return errors.NewValidationError("endpoint cannot be empty")
	}

	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "p256dh", "auth", "user_agent", "updated_at"}),
	}).Create(subscription)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when upserting subscription: %v\n", result.Error)
		return result.Error
	}

	return nil
}

// DeleteByEndpoint removes a device registration. Deleting an endpoint that
// no longer exists is not an error, so concurrent pruning stays safe.
func (r *PushSubscriptionRepository) DeleteByEndpoint(endpoint string) error {
	log.Printf("[DEBUG] PushSubscriptionRepository.DeleteByEndpoint: endpoint=%s\n", endpoint)

	if endpoint == "" {
		return errors.NewValidationError("endpoint cannot be empty")
	}

	result := r.db.Where("endpoint = ?", endpoint).Delete(&models.PushSubscription{})
	if result.Error != nil {
		log.Printf("[ERROR] Database error when deleting subscription: %v\n", result.Error)
		return result.Error
	}

	log.Printf("[DEBUG] Deleted %d subscription(s)\n", result.RowsAffected)
	return nil
}

// EventRepository handles data access operations for calendar events
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new repository for event data
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Query retrieves events of the given types starting inside [startAfter, startBefore)
func (r *EventRepository) Query(types []string, startAfter, startBefore time.Time, limit int) ([]models.Event, error) {
	if len(types) == 0 {
		return nil, errors.NewValidationError("at least one event type is required")
	}
	if !startBefore.After(startAfter) {
		return nil, errors.NewValidationError("query window must not be empty")
	}

	var events []models.Event
	query := r.db.Where("type IN ? AND start_at >= ? AND start_at < ?", types, startAfter, startBefore).
		Order("start_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&events).Error; err != nil {
		log.Printf("[ERROR] Database error when querying events: %v\n", err)
		return nil, err
	}

	log.Printf("[DEBUG] Found %d events for types %v\n", len(events), types)
	return events, nil
}

// CreateIfAbsent stores an event unless one with the same type, start time and
// title already exists. Import jobs run daily over overlapping horizons, so
// this is the dedupe point.
func (r *EventRepository) CreateIfAbsent(event *models.Event) error {
	if event.Title == "" || event.Type == "" {
		return errors.NewValidationError("event title and type are required")
	}

	result := r.db.Where(models.Event{
		Type:    event.Type,
		StartAt: event.StartAt,
		Title:   event.Title,
	}).FirstOrCreate(event)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when storing event: %v\n", result.Error)
		return result.Error
	}

	return nil
}

// DeleteEndedBefore removes events that started before the cutoff
func (r *EventRepository) DeleteEndedBefore(cutoff time.Time) error {
	result := r.db.Where("start_at < ?", cutoff).Delete(&models.Event{})
	if result.Error != nil {
		log.Printf("[ERROR] Database error when cleaning up events: %v\n", result.Error)
		return result.Error
	}

	log.Printf("[DEBUG] Deleted %d past events\n", result.RowsAffected)
	return nil
}
