// Package models defines data structures used throughout the application
package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification frequency tiers for a category
const (
	FrequencyImmediate = "immediate"
	FrequencyDaily     = "daily"
	FrequencyWeekly    = "weekly"
	FrequencyNever     = "never"
)

// Event type codes stored in the events table
const (
	EventTypeTide      = "tide"
	EventTypeMatchLiga = "match_liga"
	EventTypeUEFA      = "uefa"
	EventTypeFIFA      = "fifa"
	EventTypeAstronomy = "astronomy"
	EventTypeMoon      = "moon"
	EventTypeEventPT   = "event_pt"
	EventTypeCultural  = "cultural"
	EventTypeHoliday   = "holiday"
	EventTypeCustom    = "custom"
)

// Category identifies one of the six notification preference categories
type Category int

const (
	CategoryTides Category = iota
	CategorySports
	CategoryAstronomy
	CategoryAgriculture
	CategoryCultural
	CategoryHolidays
)

// AllCategories lists every category in a stable order
var AllCategories = []Category{
	CategoryTides,
	CategorySports,
	CategoryAstronomy,
	CategoryAgriculture,
	CategoryCultural,
	CategoryHolidays,
}

// String returns the category name used in logs and API payloads
func (c Category) String() string {
	switch c {
	case CategoryTides:
		return "tides"
	case CategorySports:
		return "sports"
	case CategoryAstronomy:
		return "astronomy"
	case CategoryAgriculture:
		return "agriculture"
	case CategoryCultural:
		return "cultural"
	case CategoryHolidays:
		return "holidays"
	default:
		return "unknown"
	}
}

// EventTypes returns the event type codes that belong to the category
func (c Category) EventTypes() []string {
	switch c {
	case CategoryTides:
		return []string{EventTypeTide}
	case CategorySports:
		return []string{EventTypeMatchLiga, EventTypeUEFA, EventTypeFIFA}
	case CategoryAstronomy:
		return []string{EventTypeAstronomy, EventTypeMoon}
	case CategoryAgriculture:
		return []string{EventTypeEventPT}
	case CategoryCultural:
		return []string{EventTypeCultural, EventTypeCustom}
	case CategoryHolidays:
		return []string{EventTypeHoliday}
	default:
		return nil
	}
}

// CategorySetting is the (enabled, frequency) pair for a single category
type CategorySetting struct {
	Enabled   bool
	Frequency string
}

// NotificationPreferences holds one user's per-category notification settings
type NotificationPreferences struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"uniqueIndex;not null"`

	TidesEnabled         bool   `json:"tides_enabled" gorm:"default:true"`
	TidesFrequency       string `json:"tides_frequency" gorm:"default:daily"`
	SportsEnabled        bool   `json:"sports_enabled" gorm:"default:true"`
	SportsFrequency      string `json:"sports_frequency" gorm:"default:daily"`
	AstronomyEnabled     bool   `json:"astronomy_enabled" gorm:"default:true"`
	AstronomyFrequency   string `json:"astronomy_frequency" gorm:"default:daily"`
	AgricultureEnabled   bool   `json:"agriculture_enabled" gorm:"default:true"`
	AgricultureFrequency string `json:"agriculture_frequency" gorm:"default:weekly"`
	CulturalEnabled      bool   `json:"cultural_enabled" gorm:"default:true"`
	CulturalFrequency    string `json:"cultural_frequency" gorm:"default:daily"`
	HolidaysEnabled      bool   `json:"holidays_enabled" gorm:"default:true"`
	HolidaysFrequency    string `json:"holidays_frequency" gorm:"default:daily"`

	PreferredNotificationTime string `json:"preferred_notification_time" gorm:"default:09:00"`
	QuietHoursStart           string `json:"quiet_hours_start" gorm:"default:22:00"`
	QuietHoursEnd             string `json:"quiet_hours_end" gorm:"default:08:00"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// DefaultNotificationPreferences returns the preferences applied when a user
// has never stored any
func DefaultNotificationPreferences(userID uint) *NotificationPreferences {
	return &NotificationPreferences{
		UserID:                    userID,
		TidesEnabled:              true,
		TidesFrequency:            FrequencyDaily,
		SportsEnabled:             true,
		SportsFrequency:           FrequencyDaily,
		AstronomyEnabled:          true,
		AstronomyFrequency:        FrequencyDaily,
		AgricultureEnabled:        true,
		AgricultureFrequency:      FrequencyWeekly,
		CulturalEnabled:           true,
		CulturalFrequency:         FrequencyDaily,
		HolidaysEnabled:           true,
		HolidaysFrequency:         FrequencyDaily,
		PreferredNotificationTime: "09:00",
		QuietHoursStart:           "22:00",
		QuietHoursEnd:             "08:00",
	}
}

// CategorySettings maps every category to its (enabled, frequency) pair.
// The mapping is explicit so the six categories stay exhaustively checked at
// compile time instead of being reached through constructed field names.
func (p *NotificationPreferences) CategorySettings() map[Category]CategorySetting {
	return map[Category]CategorySetting{
		CategoryTides:       {Enabled: p.TidesEnabled, Frequency: p.TidesFrequency},
		CategorySports:      {Enabled: p.SportsEnabled, Frequency: p.SportsFrequency},
		CategoryAstronomy:   {Enabled: p.AstronomyEnabled, Frequency: p.AstronomyFrequency},
		CategoryAgriculture: {Enabled: p.AgricultureEnabled, Frequency: p.AgricultureFrequency},
		CategoryCultural:    {Enabled: p.CulturalEnabled, Frequency: p.CulturalFrequency},
		CategoryHolidays:    {Enabled: p.HolidaysEnabled, Frequency: p.HolidaysFrequency},
	}
}

// PushSubscription represents one registered browser/device push endpoint
type PushSubscription struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Endpoint  string    `json:"endpoint" gorm:"uniqueIndex;not null"`
	P256dh    string    `json:"p256dh" gorm:"not null"`
	Auth      string    `json:"auth" gorm:"not null"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Event is a typed, timestamped calendar item
type Event struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null"`
	Type      string    `json:"type" gorm:"index;not null"`
	StartAt   time.Time `json:"start_at" gorm:"index;not null"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

// PreferencesRequest represents the body of a preference update
type PreferencesRequest struct {
	TidesEnabled         *bool  `json:"tides_enabled"`
	TidesFrequency       string `json:"tides_frequency" binding:"omitempty,oneof=immediate daily weekly never"`
	SportsEnabled        *bool  `json:"sports_enabled"`
	SportsFrequency      string `json:"sports_frequency" binding:"omitempty,oneof=immediate daily weekly never"`
	AstronomyEnabled     *bool  `json:"astronomy_enabled"`
	AstronomyFrequency   string `json:"astronomy_frequency" binding:"omitempty,oneof=immediate daily weekly never"`
	AgricultureEnabled   *bool  `json:"agriculture_enabled"`
	AgricultureFrequency string `json:"agriculture_frequency" binding:"omitempty,oneof=immediate daily weekly never"`
	CulturalEnabled      *bool  `json:"cultural_enabled"`
	CulturalFrequency    string `json:"cultural_frequency" binding:"omitempty,oneof=immediate daily weekly never"`
	HolidaysEnabled      *bool  `json:"holidays_enabled"`
	HolidaysFrequency    string `json:"holidays_frequency" binding:"omitempty,oneof=immediate daily weekly never"`

	PreferredNotificationTime string `json:"preferred_notification_time" binding:"omitempty,datetime=15:04"`
	QuietHoursStart           string `json:"quiet_hours_start" binding:"omitempty,datetime=15:04"`
	QuietHoursEnd             string `json:"quiet_hours_end" binding:"omitempty,datetime=15:04"`
}

// SubscriptionKeys carries the encryption key pair of a push registration
type SubscriptionKeys struct {
	P256dh string `json:"p256dh" binding:"required"`
	Auth   string `json:"auth" binding:"required"`
}

// PushSubscribeRequest represents data required to register a device
type PushSubscribeRequest struct {
	UserID    uint             `json:"user_id" binding:"required"`
	Endpoint  string           `json:"endpoint" binding:"required,url"`
	Keys      SubscriptionKeys `json:"keys" binding:"required"`
	UserAgent string           `json:"user_agent"`
}

// PushUnsubscribeRequest removes a device registration by endpoint
type PushUnsubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required,url"`
}

// SunTimes holds sunrise/sunset instants returned by the astronomy provider
type SunTimes struct {
	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`
}

// TideExtreme is a single high or low tide returned by the tide provider
type TideExtreme struct {
	Time   time.Time `json:"time"`
	Type   string    `json:"type"` // "High" or "Low"
	Height float64   `json:"height"`
}

// Fixture is an upcoming football match returned by the fixtures provider
type Fixture struct {
	HomeTeam    string    `json:"home_team"`
	AwayTeam    string    `json:"away_team"`
	Competition string    `json:"competition"`
	KickOff     time.Time `json:"kick_off"`
}

// ErrorResponse represents an error message structure for API responses
type ErrorResponse struct {
	Error string `json:"error"`
}
