package calendar

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const callTimeout = 10 * time.Second

// GoogleGateway talks to Google Calendar with a service account whose JSON
// key arrives base64-encoded in configuration.
type GoogleGateway struct {
	credentialsB64 string

	once sync.Once
	svc  *gcal.Service
	err  error
}

// NewGoogleGateway builds the gateway. The API client itself is created
// lazily on first use so a misconfigured deployment fails per request, not
// at startup.
func NewGoogleGateway(credentialsB64 string) *GoogleGateway {
	return &GoogleGateway{credentialsB64: credentialsB64}
}

func (g *GoogleGateway) service(ctx context.Context) (*gcal.Service, error) {
	g.once.Do(func() {
		if g.credentialsB64 == "" {
			g.err = ErrAuth
			return
		}
		creds, err := base64.StdEncoding.DecodeString(g.credentialsB64)
		if err != nil {
			g.err = fmt.Errorf("%w: %v", ErrAuth, err)
			return
		}
		svc, err := gcal.NewService(ctx,
			option.WithCredentialsJSON(creds),
			option.WithScopes(gcal.CalendarScope),
		)
		if err != nil {
			g.err = fmt.Errorf("%w: %v", ErrAuth, err)
			return
		}
		g.svc = svc
	})
	return g.svc, g.err
}

func (g *GoogleGateway) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]Event, error) {
	svc, err := g.service(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := svc.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	events := make([]Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Start == nil || item.End == nil {
			continue
		}
		if item.Start.DateTime != "" && item.End.DateTime != "" {
			start, errStart := time.Parse(time.RFC3339, item.Start.DateTime)
			end, errEnd := time.Parse(time.RFC3339, item.End.DateTime)
			if errStart != nil || errEnd != nil {
				continue
			}
			events = append(events, Event{Start: start, End: end})
			continue
		}
		if item.Start.Date != "" && item.End.Date != "" {
			// All-day event: the caller widens it to the queried day.
			events = append(events, Event{AllDay: true})
		}
	}
	return events, nil
}

func (g *GoogleGateway) CreateEvent(ctx context.Context, calendarID string, input EventInput) (string, error) {
	svc, err := g.service(ctx)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	event := &gcal.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Start: &gcal.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
			TimeZone: input.Timezone,
		},
		End: &gcal.EventDateTime{
			DateTime: input.End.Format(time.RFC3339),
			TimeZone: input.Timezone,
		},
	}
	if input.AttendeeEmail != "" {
		event.Attendees = []*gcal.EventAttendee{
			{Email: input.AttendeeEmail, DisplayName: input.AttendeeName},
		}
	}

	call := svc.Events.Insert(calendarID, event).Context(ctx)
	if input.SendUpdates != "" {
		call = call.SendUpdates(input.SendUpdates)
	}
	created, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return created.Id, nil
}
