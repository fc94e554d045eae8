package notification

import (
	"time"

	"calendario.app/models"
)

const (
	digestHorizon = 24 * time.Hour
	digestLimit   = 10

	immediateHorizon = time.Hour
	immediateLimit   = 5
)

// EventStore is the read-only projection over the events table the core needs
type EventStore interface {
	Query(types []string, startAfter, startBefore time.Time, limit int) ([]models.Event, error)
}

// Fetcher retrieves the events relevant to one delivery context
type Fetcher struct {
	events EventStore
	clock  Clock
}

// NewFetcher creates a fetcher over the given event store
func NewFetcher(events EventStore, clock Clock) *Fetcher {
	return &Fetcher{events: events, clock: clock}
}

// DigestEvents returns up to 10 events starting in the next 24 hours across
// every category the user has enabled with a frequency other than "never".
// If no category qualifies the store is not queried at all.
func (f *Fetcher) DigestEvents(ctx DeliveryContext) ([]models.Event, error) {
	var types []string
	for _, category := range models.AllCategories {
		setting := ctx.Preferences.CategorySettings()[category]
		if !setting.Enabled || setting.Frequency == models.FrequencyNever {
			continue
		}
		types = append(types, category.EventTypes()...)
	}
	if len(types) == 0 {
		return nil, nil
	}

	now := f.clock.Now()
	return f.events.Query(types, now, now.Add(digestHorizon), digestLimit)
}

// ImmediateTideEvents returns up to 5 tide events starting within the next
// hour, but only when the user has tides enabled at immediate frequency.
func (f *Fetcher) ImmediateTideEvents(ctx DeliveryContext) ([]models.Event, error) {
	setting := ctx.Preferences.CategorySettings()[models.CategoryTides]
	if !setting.Enabled || setting.Frequency != models.FrequencyImmediate {
		return nil, nil
	}

	now := f.clock.Now()
	return f.events.Query(models.CategoryTides.EventTypes(), now, now.Add(immediateHorizon), immediateLimit)
}
