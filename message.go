package tempmailbox

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/tempmailbox/client-go/internal/api"
	"github.com/tempmailbox/client-go/internal/token"
)

// Placeholder values used when the upstream omits a field.
const (
	noSubject = "No Subject"
	noPreview = "No preview"
)

// previewLength is how many characters of body text feed the derived
// preview when the upstream's own preview is missing.
const previewLength = 100

// Message is a normalized inbox message. At most one of the content
// fields is authoritative; the rest are filled by fallback so callers
// never see an upstream shape quirk.
type Message struct {
	ID              string
	From            string
	Subject         string
	Preview         string
	TextOnly        string
	Text            string
	HTML            string
	ReceivedAt      time.Time
	AttachmentCount int
}

// Messages fetches and normalizes the current message set for a token.
// Unlike the provisioning path this does not degrade silently: an
// inbox-fetch failure is user-visible and must be surfaced so the
// caller can retry. It is stateless and safe to call concurrently.
func (c *Client) Messages(ctx context.Context, tok string) ([]Message, error) {
	raws, err := c.api.GetMessages(ctx, tok)
	if err != nil {
		return nil, wrapError(err)
	}

	messages := make([]Message, 0, len(raws))
	for _, raw := range raws {
		messages = append(messages, normalizeMessage(raw, c.now))
	}
	return messages, nil
}

// Attachments lists attachment descriptors for a message, passed
// through undecoded. The ID is validated locally first.
func (c *Client) Attachments(ctx context.Context, messageID string) ([]json.RawMessage, error) {
	if !token.Valid(messageID) {
		return nil, ErrInvalidMessageID
	}

	descriptors, err := c.api.GetAttachments(ctx, messageID)
	if err != nil {
		return nil, wrapError(err)
	}
	return descriptors, nil
}

// normalizeMessage maps a raw upstream object to a Message, applying
// the per-field fallback chains.
func normalizeMessage(raw api.RawMessage, now func() time.Time) Message {
	msg := Message{
		ID:              raw.ID,
		From:            raw.From,
		Subject:         raw.Subject,
		HTML:            raw.HTML,
		AttachmentCount: raw.AttachmentsCount,
	}

	if msg.Subject == "" {
		msg.Subject = noSubject
	}
	if msg.AttachmentCount < 0 {
		msg.AttachmentCount = 0
	}

	// Populate both text fields if either upstream field exists.
	msg.TextOnly = raw.TextOnly
	if msg.TextOnly == "" {
		msg.TextOnly = raw.Text
	}
	msg.Text = raw.Text
	if msg.Text == "" {
		msg.Text = raw.TextOnly
	}

	switch {
	case raw.Preview != "" && raw.Preview != "...":
		msg.Preview = raw.Preview
	case raw.TextOnly != "":
		msg.Preview = truncate(raw.TextOnly, previewLength) + "..."
	default:
		msg.Preview = noPreview
	}

	switch {
	case raw.Timestamp != 0:
		msg.ReceivedAt = timeFromSeconds(raw.Timestamp)
	case raw.CreatedAt != nil && raw.CreatedAt.Milliseconds != 0:
		msg.ReceivedAt = timeFromSeconds(raw.CreatedAt.Milliseconds / 1000)
	default:
		msg.ReceivedAt = now()
	}

	return msg
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func timeFromSeconds(s float64) time.Time {
	sec, frac := math.Modf(s)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}
