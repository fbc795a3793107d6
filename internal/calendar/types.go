package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// Event represents a Google Calendar event
type Event struct {
	ID        string
	Summary   string
	Start     time.Time
	End       time.Time
	AllDay    bool
	Location  string
	Organizer string
	Attendees []string
	HangoutLink string
	HTMLLink  string
}

// EventInput represents the input for creating an event
type EventInput struct {
	Summary     string
	Start       time.Time
	End         time.Time
	Location    string
	Description string
	Attendees   []string
}

// toEvent converts a Google Calendar event to our Event type
func toEvent(e *calendar.Event) Event {
	if e == nil {
		return Event{}
	}

	result := Event{
		ID:          e.Id,
		Summary:     e.Summary,
		Location:    e.Location,
		HangoutLink: e.HangoutLink,
		HTMLLink:    e.HtmlLink,
	}

	if e.Organizer != nil {
		result.Organizer = e.Organizer.Email
	}

	for _, a := range e.Attendees {
		if a.Email != "" {
			result.Attendees = append(result.Attendees, a.Email)
		}
	}

	result.Start, result.AllDay = parseEventTime(e.Start)
	result.End, _ = parseEventTime(e.End)

	return result
}

// parseEventTime handles both timed events (DateTime) and all-day events
// (Date only).
func parseEventTime(edt *calendar.EventDateTime) (time.Time, bool) {
	if edt == nil {
		return time.Time{}, false
	}
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return t, false
		}
		return time.Time{}, false
	}
	if edt.Date != "" {
		if t, err := time.Parse("2006-01-02", edt.Date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
