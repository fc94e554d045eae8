package providers

import (
	"fmt"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"calendario.app/config"
	"calendario.app/errors"
	"calendario.app/models"
)

// WebPushProvider implements PushProvider over the Web Push protocol with
// VAPID authentication
type WebPushProvider struct {
	publicKey  string
	privateKey string
	subscriber string
	client     *http.Client
}

// NewWebPushProvider creates a new Web Push provider. Missing VAPID keys are
// a configuration error: the notification subsystem cannot run without them.
func NewWebPushProvider(config *config.PushConfig) (*WebPushProvider, error) {
	if !config.Configured() {
		return nil, errors.NewConfigurationError("VAPID keys are not configured", nil)
	}

	return &WebPushProvider{
		publicKey:  config.VAPIDPublicKey,
		privateKey: config.VAPIDPrivateKey,
		subscriber: config.Subscriber,
		client:     &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// PublicKey returns the VAPID public key clients use to subscribe
func (p *WebPushProvider) PublicKey() string {
	return p.publicKey
}

// Deliver sends an encrypted payload to one device registration. A 404 or
// 410 response marks the registration as permanently gone; everything else
// that fails is transient.
func (p *WebPushProvider) Deliver(subscription models.PushSubscription, payload []byte) (DeliveryResult, error) {
	resp, err := webpush.SendNotification(payload, &webpush.Subscription{
		Endpoint: subscription.Endpoint,
		Keys: webpush.Keys{
			P256dh: subscription.P256dh,
			Auth:   subscription.Auth,
		},
	}, &webpush.Options{
		HTTPClient:      p.client,
		VAPIDPublicKey:  p.publicKey,
		VAPIDPrivateKey: p.privateKey,
		Subscriber:      p.subscriber,
		TTL:             86400,
	})
	if err != nil {
		return DeliveryTransient, errors.NewPushError("failed to send push notification", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
		return DeliveryExpired, nil
	case resp.StatusCode >= 400:
		return DeliveryTransient, errors.NewPushError(fmt.Sprintf("push service returned status code %d", resp.StatusCode), nil)
	default:
		return DeliveryDelivered, nil
	}
}
