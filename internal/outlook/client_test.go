package outlook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func staticToken(token string) TokenFunc {
	return func(ctx context.Context) (string, error) {
		return token, nil
	}
}

func TestListMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer graph-token" {
			t.Errorf("expected bearer token header, got %q", got)
		}
		if r.URL.Path != "/me/messages" {
			t.Errorf("expected path /me/messages, got %s", r.URL.Path)
		}
		w.Write([]byte(`{"value":[
			{"id":"m1","subject":"Weekly sync","from":{"emailAddress":{"address":"boss@corp.example"}},"bodyPreview":"Agenda attached","receivedDateTime":"2026-08-20T08:30:00Z","isRead":false,"hasAttachments":true}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticToken("graph-token"), srv.Client())

	messages, err := client.ListMessages(t.Context(), 25)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0].From != "boss@corp.example" || !messages[0].HasAttachments {
		t.Errorf("unexpected message: %+v", messages[0])
	}
}

func TestSendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/sendMail" {
			t.Errorf("expected path /me/sendMail, got %s", r.URL.Path)
		}

		var body struct {
			Message struct {
				Subject      string `json:"subject"`
				ToRecipients []struct {
					EmailAddress struct {
						Address string `json:"address"`
					} `json:"emailAddress"`
				} `json:"toRecipients"`
			} `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		if body.Message.Subject != "Hello" {
			t.Errorf("expected subject 'Hello', got %q", body.Message.Subject)
		}
		if len(body.Message.ToRecipients) != 1 || body.Message.ToRecipients[0].EmailAddress.Address != "dana@example.com" {
			t.Errorf("unexpected recipients: %+v", body.Message.ToRecipients)
		}

		// Graph answers sendMail with 202 and no body
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticToken("tok"), srv.Client())

	err := client.SendMessage(t.Context(), MessageInput{
		To:      []string{"dana@example.com"},
		Subject: "Hello",
		Body:    "Hi there",
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
}

func TestListEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/calendarView" {
			t.Errorf("expected path /me/calendarView, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("startDateTime") == "" {
			t.Error("expected startDateTime query parameter")
		}
		w.Write([]byte(`{"value":[
			{"id":"e1","subject":"Standup","start":{"dateTime":"2026-08-21T09:00:00.0000000","timeZone":"UTC"},"end":{"dateTime":"2026-08-21T09:15:00.0000000","timeZone":"UTC"},"location":{"displayName":"Room 4"},"organizer":{"emailAddress":{"address":"lead@corp.example"}},"isOnlineMeeting":true}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticToken("tok"), srv.Client())

	from := time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)
	events, err := client.ListEvents(t.Context(), from, from.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	want := time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC)
	if !events[0].Start.Equal(want) {
		t.Errorf("expected start %v, got %v", want, events[0].Start)
	}
	if events[0].Location != "Room 4" || !events[0].IsOnline {
		t.Errorf("unexpected event: %+v", events[0])
	}
}

func TestCreateEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/me/events" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"e9","subject":"Planning","start":{"dateTime":"2026-08-22T14:00:00.0000000","timeZone":"UTC"},"end":{"dateTime":"2026-08-22T15:00:00.0000000","timeZone":"UTC"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticToken("tok"), srv.Client())

	start := time.Date(2026, 8, 22, 14, 0, 0, 0, time.UTC)
	event, err := client.CreateEvent(t.Context(), EventInput{
		Subject: "Planning",
		Start:   start,
		End:     start.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if event.ID != "e9" {
		t.Errorf("expected event id 'e9', got %q", event.ID)
	}
}

func TestTokenError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server when the token fails")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, func(ctx context.Context) (string, error) {
		return "", errors.New("not connected")
	}, srv.Client())

	_, err := client.ListMessages(t.Context(), 10)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"InvalidAuthenticationToken"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticToken("stale"), srv.Client())

	_, err := client.ListMessages(t.Context(), 10)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("expected error to mention status 401, got: %v", err)
	}
}
