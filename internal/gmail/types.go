package gmail

import (
	"encoding/base64"
	"time"

	gmail "google.golang.org/api/gmail/v1"
)

// Message represents a Gmail message
type Message struct {
	ID       string
	ThreadID string
	From     string
	To       string
	Subject  string
	Snippet  string
	Date     time.Time
	Labels   []string
	Body     string // Plain-text body, only populated by GetMessage
}

// MessageInput represents the input for sending a message
type MessageInput struct {
	To      []string
	Subject string
	Body    string
}

// toMessage converts a Gmail API message to our Message type
func toMessage(m *gmail.Message) Message {
	if m == nil {
		return Message{}
	}

	result := Message{
		ID:       m.Id,
		ThreadID: m.ThreadId,
		Snippet:  m.Snippet,
		Labels:   m.LabelIds,
	}

	if m.InternalDate > 0 {
		result.Date = time.UnixMilli(m.InternalDate)
	}

	if m.Payload != nil {
		for _, h := range m.Payload.Headers {
			switch h.Name {
			case "From":
				result.From = h.Value
			case "To":
				result.To = h.Value
			case "Subject":
				result.Subject = h.Value
			}
		}
		result.Body = extractBody(m.Payload)
	}

	return result
}

// extractBody finds the first text/plain part in the message payload.
func extractBody(p *gmail.MessagePart) string {
	if p == nil {
		return ""
	}

	if p.MimeType == "text/plain" && p.Body != nil && p.Body.Data != "" {
		decoded, err := base64.URLEncoding.DecodeString(p.Body.Data)
		if err != nil {
			return ""
		}
		return string(decoded)
	}

	for _, part := range p.Parts {
		if body := extractBody(part); body != "" {
			return body
		}
	}

	return ""
}
