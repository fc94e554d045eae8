package notification

import (
	"log"

	"calendario.app/models"
)

// DeliveryContext is the per-tick working set for one eligible user. It is
// assembled fresh on every tick and discarded afterwards.
type DeliveryContext struct {
	UserID        uint
	Preferences   models.NotificationPreferences
	Subscriptions []models.PushSubscription
}

// PreferenceStore loads the notification preferences of the whole user population
type PreferenceStore interface {
	GetAll() ([]models.NotificationPreferences, error)
}

// SubscriptionStore loads a user's registered push devices
type SubscriptionStore interface {
	GetByUserID(userID uint) ([]models.PushSubscription, error)
}

// Resolver assembles the delivery candidates for one scheduler tick
type Resolver struct {
	preferences   PreferenceStore
	subscriptions SubscriptionStore
	clock         Clock
}

// NewResolver creates a resolver over the given stores
func NewResolver(preferences PreferenceStore, subscriptions SubscriptionStore, clock Clock) *Resolver {
	return &Resolver{
		preferences:   preferences,
		subscriptions: subscriptions,
		clock:         clock,
	}
}

// ResolveDeliveryCandidates returns one context per user that is currently
// outside quiet hours and has at least one registered device. A failure for
// one user never aborts the others: that user is logged and skipped, and the
// next tick retries naturally.
func (r *Resolver) ResolveDeliveryCandidates() ([]DeliveryContext, error) {
	rows, err := r.preferences.GetAll()
	if err != nil {
		return nil, err
	}

	now := r.clock.Now()
	contexts := make([]DeliveryContext, 0, len(rows))

	for _, prefs := range rows {
		quiet, err := IsWithinQuietHours(prefs.QuietHoursStart, prefs.QuietHoursEnd, now)
		if err != nil {
			// Malformed time strings fail closed for this user only
			log.Printf("[WARNING] Skipping user %d: unparseable quiet hours: %v\n", prefs.UserID, err)
			continue
		}
		if quiet {
			continue
		}

		subscriptions, err := r.subscriptions.GetByUserID(prefs.UserID)
		if err != nil {
			log.Printf("[WARNING] Skipping user %d: failed to load subscriptions: %v\n", prefs.UserID, err)
			continue
		}
		if len(subscriptions) == 0 {
			continue
		}

		contexts = append(contexts, DeliveryContext{
			UserID:        prefs.UserID,
			Preferences:   prefs,
			Subscriptions: subscriptions,
		})
	}

	return contexts, nil
}
