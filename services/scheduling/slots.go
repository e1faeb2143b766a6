package scheduling

import (
	"time"

	"plinio/models"
)

// Opening window for appointments, in the business timezone.
const (
	OpenHour  = 9
	CloseHour = 18
)

// BuildSlots generates the consecutive appointment slots for a business day.
// Slots start at openHour:00 and a slot is emitted only if it ends by
// closeHour:00. The result is a pure function of the inputs; an unparsable
// date yields no slots.
func BuildSlots(dateISO string, openHour, closeHour, durationMin int, tz *time.Location) []models.TimeSlot {
	day, err := time.ParseInLocation("2006-01-02", dateISO, tz)
	if err != nil {
		return nil
	}

	duration := time.Duration(durationMin) * time.Minute
	cursor := time.Date(day.Year(), day.Month(), day.Day(), openHour, 0, 0, 0, tz)
	closeAt := time.Date(day.Year(), day.Month(), day.Day(), closeHour, 0, 0, 0, tz)

	var slots []models.TimeSlot
	for !cursor.Add(duration).After(closeAt) {
		end := cursor.Add(duration)
		slots = append(slots, models.TimeSlot{
			Start: cursor,
			End:   end,
			Label: cursor.Format("15:04"),
		})
		cursor = end
	}
	return slots
}

// Overlaps is the single tie-break rule for interval conflicts: two
// half-open intervals overlap iff they share at least one instant. Touching
// intervals (a ends exactly when b starts) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ExcludeBusy filters out the slots that overlap any busy interval. With no
// busy intervals the input is returned unchanged.
func ExcludeBusy(slots []models.TimeSlot, busy []models.BusyInterval) []models.TimeSlot {
	if len(busy) == 0 {
		return slots
	}

	free := make([]models.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		conflict := false
		for _, b := range busy {
			if Overlaps(slot.Start, slot.End, b.Start, b.End) {
				conflict = true
				break
			}
		}
		if !conflict {
			free = append(free, slot)
		}
	}
	return free
}
