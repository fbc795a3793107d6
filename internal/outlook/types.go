package outlook

import "time"

// Message represents an Outlook mail message
type Message struct {
	ID         string
	Subject    string
	From       string
	Preview    string
	Received   time.Time
	IsRead     bool
	WebLink    string
	HasAttachments bool
}

// MessageInput represents the input for sending a message
type MessageInput struct {
	To      []string
	Subject string
	Body    string
}

// Event represents an Outlook calendar event
type Event struct {
	ID        string
	Subject   string
	Start     time.Time
	End       time.Time
	Location  string
	Organizer string
	IsOnline  bool
	WebLink   string
}

// EventInput represents the input for creating an event
type EventInput struct {
	Subject   string
	Start     time.Time
	End       time.Time
	Location  string
	Attendees []string
	Body      string
}

// Microsoft Graph response types. Collections arrive in a "value" envelope.
type valueEnvelope[T any] struct {
	Value []T `json:"value"`
}

type graphMessage struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	From    struct {
		EmailAddress struct {
			Address string `json:"address"`
		} `json:"emailAddress"`
	} `json:"from"`
	BodyPreview          string    `json:"bodyPreview"`
	ReceivedDateTime     time.Time `json:"receivedDateTime"`
	IsRead               bool      `json:"isRead"`
	WebLink              string    `json:"webLink"`
	HasAttachments       bool      `json:"hasAttachments"`
}

type graphDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type graphEvent struct {
	ID       string        `json:"id"`
	Subject  string        `json:"subject"`
	Start    graphDateTime `json:"start"`
	End      graphDateTime `json:"end"`
	Location struct {
		DisplayName string `json:"displayName"`
	} `json:"location"`
	Organizer struct {
		EmailAddress struct {
			Address string `json:"address"`
		} `json:"emailAddress"`
	} `json:"organizer"`
	IsOnlineMeeting bool   `json:"isOnlineMeeting"`
	WebLink         string `json:"webLink"`
}

// graphTimeLayout is the fractional-seconds format Graph uses for event
// start and end times.
const graphTimeLayout = "2006-01-02T15:04:05.9999999"

// toMessage converts a Graph message to our Message type
func toMessage(m graphMessage) Message {
	return Message{
		ID:             m.ID,
		Subject:        m.Subject,
		From:           m.From.EmailAddress.Address,
		Preview:        m.BodyPreview,
		Received:       m.ReceivedDateTime,
		IsRead:         m.IsRead,
		WebLink:        m.WebLink,
		HasAttachments: m.HasAttachments,
	}
}

// toEvent converts a Graph event to our Event type
func toEvent(e graphEvent) Event {
	result := Event{
		ID:        e.ID,
		Subject:   e.Subject,
		Location:  e.Location.DisplayName,
		Organizer: e.Organizer.EmailAddress.Address,
		IsOnline:  e.IsOnlineMeeting,
		WebLink:   e.WebLink,
	}
	if t, err := parseGraphTime(e.Start); err == nil {
		result.Start = t
	}
	if t, err := parseGraphTime(e.End); err == nil {
		result.End = t
	}
	return result
}

func parseGraphTime(dt graphDateTime) (time.Time, error) {
	loc := time.UTC
	if dt.TimeZone != "" && dt.TimeZone != "UTC" {
		if l, err := time.LoadLocation(dt.TimeZone); err == nil {
			loc = l
		}
	}
	return time.ParseInLocation(graphTimeLayout, dt.DateTime, loc)
}
