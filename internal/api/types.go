package api

import (
	"bytes"
	"encoding/json"
)

// RawMessage is one message object as the upstream returns it. Fields
// are optional; the upstream omits or nulls them freely, so callers
// apply their own fallback chains on top of the zero values here.
type RawMessage struct {
	ID               string     `json:"mail_id"`
	AddressID        string     `json:"mail_address_id"`
	From             string     `json:"mail_from"`
	Subject          string     `json:"mail_subject"`
	Preview          string     `json:"mail_preview"`
	TextOnly         string     `json:"mail_text_only"`
	Text             string     `json:"mail_text"`
	HTML             string     `json:"mail_html"`
	Timestamp        float64    `json:"mail_timestamp"`
	AttachmentsCount int        `json:"mail_attachments_count"`
	CreatedAt        *CreatedAt `json:"createdAt"`
}

// CreatedAt is the upstream's alternate timestamp representation.
type CreatedAt struct {
	Milliseconds float64 `json:"milliseconds"`
}

// MessageList normalizes the three body shapes the message-list
// endpoint is known to return: a bare array of message objects, an
// object wrapping a "messages" array, or a single message object.
// None of the three leaks past this type.
type MessageList struct {
	Messages []RawMessage
}

// UnmarshalJSON implements the shape union. A body that is valid JSON
// but none of the three shapes decodes to an empty list.
func (l *MessageList) UnmarshalJSON(data []byte) error {
	l.Messages = nil

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var arr []RawMessage
	if err := json.Unmarshal(trimmed, &arr); err == nil {
		l.Messages = arr
		return nil
	}

	var wrapped struct {
		Messages []RawMessage `json:"messages"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err == nil && wrapped.Messages != nil {
		l.Messages = wrapped.Messages
		return nil
	}

	var single RawMessage
	if err := json.Unmarshal(trimmed, &single); err == nil {
		l.Messages = []RawMessage{single}
		return nil
	}

	return nil
}

// DomainList normalizes the two body shapes of the domain endpoint:
// a bare array of strings or an object with a "domains" field.
type DomainList struct {
	Domains []string
}

// UnmarshalJSON implements the shape union.
func (l *DomainList) UnmarshalJSON(data []byte) error {
	l.Domains = nil

	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		l.Domains = arr
		return nil
	}

	var wrapped struct {
		Domains []string `json:"domains"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil {
		l.Domains = wrapped.Domains
		return nil
	}

	return nil
}
