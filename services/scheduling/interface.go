package scheduling

import (
	"context"

	"plinio/config"
	"plinio/models"
)

// Settings captures the calendar-facing configuration shared by the
// availability and booking services.
type Settings struct {
	Enabled         bool
	CalendarID      string
	Timezone        string
	DefaultDuration int
	InviteClient    bool
	SendUpdates     string
}

// SettingsFromConfig projects the loaded application config.
func SettingsFromConfig() Settings {
	return Settings{
		Enabled:         config.AppConfig.CalendarEnabled,
		CalendarID:      config.AppConfig.CalendarID,
		Timezone:        config.AppConfig.CalendarTimezone,
		DefaultDuration: config.AppConfig.CalendarDefaultDuration,
		InviteClient:    config.AppConfig.CalendarInviteClient,
		SendUpdates:     config.AppConfig.CalendarSendUpdates,
	}
}

// Configured reports whether the booking engine can serve requests at all.
func (s Settings) Configured() bool {
	return s.Enabled && s.CalendarID != ""
}

// AvailabilityService answers which slots are free on a given day.
type AvailabilityService interface {
	GetAvailability(ctx context.Context, date string) (*models.AvailabilityResponse, error)
}

// BookingService validates and confirms appointment requests.
type BookingService interface {
	Book(ctx context.Context, req models.BookingRequest) (*models.BookingConfirmation, error)
}
