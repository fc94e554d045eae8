package notification

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"calendario.app/errors"
	"calendario.app/metrics"
	"calendario.app/models"
)

const (
	// DefaultSendWindowMinutes bounds the digest delivery window after a
	// user's preferred time. Together with the matching tick interval it is
	// what keeps the digest to one send per day: there is no persisted
	// "already sent" marker, so a delayed or skipped tick simply misses the
	// day, and a second tick landing inside the window re-sends the same
	// digest.
	DefaultSendWindowMinutes = 15

	digestTag     = "daily-digest"
	digestMaxBody = 3
)

// PushPayload is the notification content handed to the push channel
type PushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag"`
}

// PushChannel fans a payload out to all of a user's registered devices
type PushChannel interface {
	SendToUser(userID uint, payload PushPayload) error
}

// CandidateResolver yields the per-tick delivery candidates
type CandidateResolver interface {
	ResolveDeliveryCandidates() ([]DeliveryContext, error)
}

// RelevanceFetcher retrieves the events relevant to a candidate
type RelevanceFetcher interface {
	DigestEvents(ctx DeliveryContext) ([]models.Event, error)
	ImmediateTideEvents(ctx DeliveryContext) ([]models.Event, error)
}

// Gate is the per-tick decision core: it combines the time-window checks,
// candidate resolution and relevance fetching to decide who gets a digest or
// an immediate alert on this tick.
type Gate struct {
	resolver          CandidateResolver
	fetcher           RelevanceFetcher
	channel           PushChannel
	clock             Clock
	sendWindowMinutes int
	metrics           *metrics.NotificationMetrics
}

// NewGate creates the delivery gate. A sendWindowMinutes of zero falls back
// to the default window.
func NewGate(resolver CandidateResolver, fetcher RelevanceFetcher, channel PushChannel, clock Clock, sendWindowMinutes int) *Gate {
	if sendWindowMinutes <= 0 {
		sendWindowMinutes = DefaultSendWindowMinutes
	}
	return &Gate{
		resolver:          resolver,
		fetcher:           fetcher,
		channel:           channel,
		clock:             clock,
		sendWindowMinutes: sendWindowMinutes,
		metrics:           metrics.NewNotificationMetrics(),
	}
}

// RunDigestTick processes one scheduler tick of the daily digest path. Per
// candidate: check the send window, fetch relevant events, compose and send.
// A user with no matching events is skipped silently; that is policy, not an
// error. Per-user failures are logged and isolated.
func (g *Gate) RunDigestTick() error {
	tickID := uuid.New().String()[:8]

	contexts, err := g.resolver.ResolveDeliveryCandidates()
	if err != nil {
		return errors.NewDatabaseError("failed to resolve delivery candidates", err)
	}

	log.Printf("[DEBUG] Digest tick %s: %d candidates\n", tickID, len(contexts))

	for _, ctx := range contexts {
		within, err := IsWithinSendWindow(ctx.Preferences.PreferredNotificationTime, g.clock.Now(), g.sendWindowMinutes)
		if err != nil {
			log.Printf("[WARNING] Tick %s: user %d has unparseable preferred time: %v\n", tickID, ctx.UserID, err)
			continue
		}
		if !within {
			continue
		}

		events, err := g.fetcher.DigestEvents(ctx)
		if err != nil {
			log.Printf("[WARNING] Tick %s: failed to fetch digest events for user %d: %v\n", tickID, ctx.UserID, err)
			continue
		}
		if len(events) == 0 {
			continue
		}

		payload := composeDigestPayload(events)
		if err := g.channel.SendToUser(ctx.UserID, payload); err != nil {
			log.Printf("[WARNING] Tick %s: failed to send digest to user %d: %v\n", tickID, ctx.UserID, err)
			continue
		}
		g.metrics.RecordDigestSent()
	}

	return nil
}

// RunImmediateTick processes one scheduler tick of the immediate alert path.
// Unlike the digest it ignores the preferred send time: only quiet hours
// (already applied by the resolver) gate it. Each matching tide event gets
// its own notification with a distinct tag so alerts coexist on the client.
func (g *Gate) RunImmediateTick() error {
	tickID := uuid.New().String()[:8]

	contexts, err := g.resolver.ResolveDeliveryCandidates()
	if err != nil {
		return errors.NewDatabaseError("failed to resolve delivery candidates", err)
	}

	log.Printf("[DEBUG] Immediate tick %s: %d candidates\n", tickID, len(contexts))

	for _, ctx := range contexts {
		events, err := g.fetcher.ImmediateTideEvents(ctx)
		if err != nil {
			log.Printf("[WARNING] Tick %s: failed to fetch tide events for user %d: %v\n", tickID, ctx.UserID, err)
			continue
		}

		for _, event := range events {
			payload := composeTidePayload(event)
			if err := g.channel.SendToUser(ctx.UserID, payload); err != nil {
				log.Printf("[WARNING] Tick %s: failed to send tide alert to user %d: %v\n", tickID, ctx.UserID, err)
				continue
			}
			g.metrics.RecordImmediateAlertSent()
		}
	}

	return nil
}

// composeDigestPayload builds the batched notification: the title announces
// the event count and the body joins the first three titles. No "+N more"
// marker is added; the cut is silent.
func composeDigestPayload(events []models.Event) PushPayload {
	titles := make([]string, 0, digestMaxBody)
	for i, event := range events {
		if i == digestMaxBody {
			break
		}
		titles = append(titles, event.Title)
	}

	title := fmt.Sprintf("%d eventos para hoje", len(events))
	if len(events) == 1 {
		title = "1 evento para hoje"
	}

	return PushPayload{
		Title: title,
		Body:  strings.Join(titles, ", "),
		Tag:   digestTag,
	}
}

func composeTidePayload(event models.Event) PushPayload {
	return PushPayload{
		Title: "Maré em breve",
		Body:  fmt.Sprintf("%s às %s", event.Title, event.StartAt.Format("15:04")),
		Tag:   fmt.Sprintf("tide-%d", event.ID),
	}
}
