package tempmailbox

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/tempmailbox/client-go/internal/api"
)

var fixedNow = func() time.Time {
	return time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
}

func TestNormalizeSubjectFallback(t *testing.T) {
	msg := normalizeMessage(api.RawMessage{ID: "a"}, fixedNow)
	if msg.Subject != "No Subject" {
		t.Errorf("Subject = %q, want %q", msg.Subject, "No Subject")
	}

	msg = normalizeMessage(api.RawMessage{ID: "a", Subject: "Hi"}, fixedNow)
	if msg.Subject != "Hi" {
		t.Errorf("Subject = %q, want %q", msg.Subject, "Hi")
	}
}

func TestNormalizePreviewChain(t *testing.T) {
	t.Run("upstream preview wins", func(t *testing.T) {
		msg := normalizeMessage(api.RawMessage{Preview: "short intro", TextOnly: "full body"}, fixedNow)
		if msg.Preview != "short intro" {
			t.Errorf("Preview = %q", msg.Preview)
		}
	})

	t.Run("ellipsis-only preview is treated as missing", func(t *testing.T) {
		long := strings.Repeat("A", 200)
		msg := normalizeMessage(api.RawMessage{Preview: "...", TextOnly: long}, fixedNow)
		want := strings.Repeat("A", 100) + "..."
		if msg.Preview != want {
			t.Errorf("Preview = %q (len %d), want 100 chars plus ellipsis", msg.Preview, len(msg.Preview))
		}
	})

	t.Run("short body is not truncated", func(t *testing.T) {
		msg := normalizeMessage(api.RawMessage{TextOnly: "hello"}, fixedNow)
		if msg.Preview != "hello..." {
			t.Errorf("Preview = %q", msg.Preview)
		}
	})

	t.Run("nothing available", func(t *testing.T) {
		msg := normalizeMessage(api.RawMessage{}, fixedNow)
		if msg.Preview != "No preview" {
			t.Errorf("Preview = %q", msg.Preview)
		}
	})
}

func TestNormalizeTextCrossFill(t *testing.T) {
	msg := normalizeMessage(api.RawMessage{TextOnly: "plain"}, fixedNow)
	if msg.Text != "plain" || msg.TextOnly != "plain" {
		t.Errorf("Text = %q, TextOnly = %q, both should be filled", msg.Text, msg.TextOnly)
	}

	msg = normalizeMessage(api.RawMessage{Text: "body"}, fixedNow)
	if msg.Text != "body" || msg.TextOnly != "body" {
		t.Errorf("Text = %q, TextOnly = %q, both should be filled", msg.Text, msg.TextOnly)
	}
}

func TestNormalizeTimestampChain(t *testing.T) {
	t.Run("unix seconds win", func(t *testing.T) {
		msg := normalizeMessage(api.RawMessage{
			Timestamp: 1700000000,
			CreatedAt: &api.CreatedAt{Milliseconds: 1600000000000},
		}, fixedNow)
		if !msg.ReceivedAt.Equal(time.Unix(1700000000, 0)) {
			t.Errorf("ReceivedAt = %v", msg.ReceivedAt)
		}
	})

	t.Run("createdAt milliseconds next", func(t *testing.T) {
		msg := normalizeMessage(api.RawMessage{
			CreatedAt: &api.CreatedAt{Milliseconds: 1600000000000},
		}, fixedNow)
		if !msg.ReceivedAt.Equal(time.Unix(1600000000, 0)) {
			t.Errorf("ReceivedAt = %v", msg.ReceivedAt)
		}
	})

	t.Run("receipt time as last resort", func(t *testing.T) {
		msg := normalizeMessage(api.RawMessage{}, fixedNow)
		if !msg.ReceivedAt.Equal(fixedNow()) {
			t.Errorf("ReceivedAt = %v, want %v", msg.ReceivedAt, fixedNow())
		}
	})
}

func TestNormalizeNegativeAttachmentCount(t *testing.T) {
	msg := normalizeMessage(api.RawMessage{AttachmentsCount: -1}, fixedNow)
	if msg.AttachmentCount != 0 {
		t.Errorf("AttachmentCount = %d, want 0", msg.AttachmentCount)
	}
}

func TestMessagesFetch(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/request/mail/id/": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"mail_id":"m1","mail_from":"a@b.com","mail_subject":"One"},
				{"mail_id":"m2","mail_from":"c@d.com"}]`))
		},
	})
	client := New(WithBaseURL(server.URL))

	messages, err := client.Messages(context.Background(), "d41d8cd98f00b204e9800998ecf8427e")
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if messages[0].Subject != "One" {
		t.Errorf("messages[0].Subject = %q", messages[0].Subject)
	}
	if messages[1].Subject != "No Subject" {
		t.Errorf("messages[1].Subject = %q", messages[1].Subject)
	}
}

func TestMessagesFetchError(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/request/mail/id/": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
	})
	client := New(WithBaseURL(server.URL))

	_, err := client.Messages(context.Background(), "d41d8cd98f00b204e9800998ecf8427e")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("error = %v, want public 401 *APIError", err)
	}
}

func TestAttachmentsInvalidID(t *testing.T) {
	var calls int
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/": func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Write([]byte(`[]`))
		},
	})
	client := New(WithBaseURL(server.URL))

	_, err := client.Attachments(context.Background(), "not-a-hex-id")
	if !errors.Is(err, ErrInvalidMessageID) {
		t.Fatalf("error = %v, want ErrInvalidMessageID", err)
	}
	if calls != 0 {
		t.Errorf("server called %d times, want 0", calls)
	}
}
