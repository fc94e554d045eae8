package service

import (
	"encoding/json"
	"log"
	"sync"

	"calendario.app/errors"
	"calendario.app/metrics"
	"calendario.app/models"
	"calendario.app/notification"
	"calendario.app/providers"
)

// PushService fans notifications out to every device a user has registered.
// Per-device failures never propagate to the caller: expired registrations
// are pruned, transient failures are logged and left for the next tick.
type PushService struct {
	provider         providers.PushProvider
	subscriptionRepo PushSubscriptionRepositoryInterface
	metrics          *metrics.NotificationMetrics
}

// NewPushService creates a new push delivery service
func NewPushService(provider providers.PushProvider, subscriptionRepo PushSubscriptionRepositoryInterface) *PushService {
	return &PushService{
		provider:         provider,
		subscriptionRepo: subscriptionRepo,
		metrics:          metrics.NewNotificationMetrics(),
	}
}

// PublicKey returns the VAPID public key clients subscribe with
func (s *PushService) PublicKey() string {
	return s.provider.PublicKey()
}

// SendToUser delivers a payload to all of the user's registered devices.
// Devices are independent, so delivery fans out concurrently.
func (s *PushService) SendToUser(userID uint, payload notification.PushPayload) error {
	subscriptions, err := s.subscriptionRepo.GetByUserID(userID)
	if err != nil {
		return errors.NewDatabaseError("failed to load subscriptions", err)
	}
	if len(subscriptions) == 0 {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return errors.NewPushError("failed to marshal payload", err)
	}

	var wg sync.WaitGroup
	for _, subscription := range subscriptions {
		wg.Add(1)
		go func(sub models.PushSubscription) {
			defer wg.Done()
			s.deliverToDevice(sub, data)
		}(subscription)
	}
	wg.Wait()

	return nil
}

func (s *PushService) deliverToDevice(subscription models.PushSubscription, payload []byte) {
	result, err := s.provider.Deliver(subscription, payload)

	switch result {
	case providers.DeliveryDelivered:
		s.metrics.RecordDelivery(metrics.DeliveryResultDelivered)
	case providers.DeliveryExpired:
		s.metrics.RecordDelivery(metrics.DeliveryResultExpired)
		log.Printf("[DEBUG] Pruning expired push registration for user %d\n", subscription.UserID)
		if err := s.subscriptionRepo.DeleteByEndpoint(subscription.Endpoint); err != nil {
			log.Printf("[WARNING] Failed to prune expired registration: %v\n", err)
			return
		}
		s.metrics.RecordSubscriptionPruned()
	case providers.DeliveryTransient:
		s.metrics.RecordDelivery(metrics.DeliveryResultTransient)
		log.Printf("[WARNING] Push delivery failed for user %d: %v\n", subscription.UserID, err)
	}
}
