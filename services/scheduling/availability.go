package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"plinio/models"
	"plinio/services/calendar"
	"plinio/utils"
)

const availabilityCacheTTL = 30 * time.Second

// DefaultAvailabilityService composes the interval model with the calendar
// gateway. Reads only; the sole side effect is the short-lived Redis cache.
type DefaultAvailabilityService struct {
	Gateway  calendar.Gateway
	Settings Settings
	Cache    *redis.Client
}

func availabilityCacheKey(date string) string {
	return "availability:" + date
}

func (s *DefaultAvailabilityService) GetAvailability(ctx context.Context, date string) (*models.AvailabilityResponse, error) {
	if !s.Settings.Configured() {
		return nil, ErrNotConfigured
	}

	tz, err := time.LoadLocation(s.Settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: bad timezone %q", ErrNotConfigured, s.Settings.Timezone)
	}
	day, err := time.ParseInLocation("2006-01-02", date, tz)
	if err != nil {
		return nil, ErrInvalidDate
	}

	if cached := s.readCache(ctx, date); cached != nil {
		return cached, nil
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, tz)
	dayEnd := dayStart.AddDate(0, 0, 1)

	events, err := s.Gateway.ListEvents(ctx, s.Settings.CalendarID, dayStart, dayEnd)
	if err != nil {
		utils.GetLogger().Error("availability: calendar list failed",
			zap.String("date", date), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	busy := BusyFromEvents(events, dayStart, dayEnd)
	slots := ExcludeBusy(BuildSlots(date, OpenHour, CloseHour, s.Settings.DefaultDuration, tz), busy)
	if slots == nil {
		slots = []models.TimeSlot{}
	}

	resp := &models.AvailabilityResponse{
		Date:     date,
		Timezone: s.Settings.Timezone,
		Duration: s.Settings.DefaultDuration,
		Slots:    slots,
	}
	s.writeCache(ctx, date, resp)
	return resp, nil
}

// BusyFromEvents converts gateway events into busy intervals for the
// queried day. All-day events become a day-granular block; malformed events
// are dropped.
func BusyFromEvents(events []calendar.Event, dayStart, dayEnd time.Time) []models.BusyInterval {
	busy := make([]models.BusyInterval, 0, len(events))
	for _, ev := range events {
		if ev.AllDay {
			busy = append(busy, models.BusyInterval{Start: dayStart, End: dayEnd})
			continue
		}
		if ev.Start.IsZero() || ev.End.IsZero() {
			continue
		}
		busy = append(busy, models.BusyInterval{Start: ev.Start, End: ev.End})
	}
	return busy
}

func (s *DefaultAvailabilityService) readCache(ctx context.Context, date string) *models.AvailabilityResponse {
	if s.Cache == nil {
		return nil
	}
	raw, err := s.Cache.Get(ctx, availabilityCacheKey(date)).Result()
	if err != nil {
		return nil
	}
	var resp models.AvailabilityResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil
	}
	return &resp
}

func (s *DefaultAvailabilityService) writeCache(ctx context.Context, date string, resp *models.AvailabilityResponse) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, availabilityCacheKey(date), raw, availabilityCacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("availability: cache write failed", zap.Error(err))
	}
}

// InvalidateAvailability drops the cached slot list for a day after a
// booking lands on it.
func InvalidateAvailability(ctx context.Context, cache *redis.Client, date string) {
	if cache == nil {
		return
	}
	if err := cache.Del(ctx, availabilityCacheKey(date)).Err(); err != nil {
		utils.GetLogger().Warn("availability: cache invalidation failed",
			zap.String("date", date), zap.Error(err))
	}
}
