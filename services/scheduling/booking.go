package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	bookingRepo "plinio/database/repository/booking"
	"plinio/models"
	"plinio/services/calendar"
	"plinio/services/notification"
	"plinio/utils"
)

// pastGrace absorbs clock and submission latency skew: a request whose
// start is at most this far in the past is still accepted.
const pastGrace = 5 * time.Minute

// DefaultBookingService validates a request, re-checks the calendar for
// conflicts, creates the event and writes a best-effort audit record. The
// calendar event is the source of truth; the record and the confirmation
// email are secondary.
type DefaultBookingService struct {
	Gateway  calendar.Gateway
	Repo     bookingRepo.BookingRepository
	Notifier notification.NotificationService
	Settings Settings
	Cache    *redis.Client

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultBookingService) Book(ctx context.Context, req models.BookingRequest) (*models.BookingConfirmation, error) {
	if !s.Settings.Configured() {
		return nil, ErrNotConfigured
	}

	if req.Service == "" || req.Date == "" || req.Time == "" ||
		req.Name == "" || req.Email == "" || req.Phone == "" {
		return nil, fmt.Errorf("%w: missing required fields", ErrInvalidInput)
	}

	tz, err := time.LoadLocation(s.Settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: bad timezone %q", ErrNotConfigured, s.Settings.Timezone)
	}

	start, err := time.ParseInLocation("2006-01-02T15:04", req.Date+"T"+req.Time, tz)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date or time", ErrInvalidInput)
	}
	if start.Before(s.now().In(tz).Add(-pastGrace)) {
		return nil, ErrInPast
	}
	end := start.Add(time.Duration(s.Settings.DefaultDuration) * time.Minute)

	// Re-query the day; the slot list the client saw may be stale.
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, tz)
	dayEnd := dayStart.AddDate(0, 0, 1)
	events, err := s.Gateway.ListEvents(ctx, s.Settings.CalendarID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	for _, b := range BusyFromEvents(events, dayStart, dayEnd) {
		if Overlaps(start, end, b.Start, b.End) {
			return nil, ErrSlotTaken
		}
	}

	input := calendar.EventInput{
		Summary:     fmt.Sprintf("Appuntamento %s - %s", req.Service, req.Name),
		Description: buildDescription(req),
		Start:       start,
		End:         end,
		Timezone:    s.Settings.Timezone,
		SendUpdates: s.Settings.SendUpdates,
	}
	if s.Settings.InviteClient {
		input.AttendeeEmail = req.Email
		input.AttendeeName = req.Name
	}

	eventID, err := s.Gateway.CreateEvent(ctx, s.Settings.CalendarID, input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	// The event exists; everything below is best-effort and must not
	// contradict the confirmation already owed to the caller.
	rec := models.BookingRecord{
		ExternalEventID: eventID,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Service:         req.Service,
		StartAt:         start,
		EndAt:           end,
		Notes:           req.Notes,
		Status:          "confirmed",
	}
	if s.Repo != nil {
		if err := s.Repo.Create(ctx, &rec); err != nil {
			utils.GetLogger().Error("booking: audit record write failed",
				zap.String("eventId", eventID), zap.Error(err))
		}
	}

	InvalidateAvailability(ctx, s.Cache, req.Date)

	if s.Notifier != nil {
		if err := s.Notifier.EnqueueBookingConfirmation(rec); err != nil {
			utils.GetLogger().Warn("booking: confirmation email enqueue failed",
				zap.String("eventId", eventID), zap.Error(err))
		}
	}

	return &models.BookingConfirmation{EventID: eventID, Start: start, End: end}, nil
}

// buildDescription assembles the event body from the contact fields. The
// notes line is omitted entirely when blank, not rendered empty.
func buildDescription(req models.BookingRequest) string {
	lines := []string{
		"Nome: " + req.Name,
		"Email: " + req.Email,
		"Telefono: " + req.Phone,
	}
	if strings.TrimSpace(req.Notes) != "" {
		lines = append(lines, "", "Note: "+req.Notes)
	}
	return strings.Join(lines, "\n")
}
