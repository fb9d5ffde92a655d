package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
)

// GetDomains lists the mailbox domains the service currently offers.
func (c *Client) GetDomains(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/request/domains/")
	if err != nil {
		return nil, err
	}

	var list DomainList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decode domains: %w", err)
	}
	return list.Domains, nil
}

// GetMessages fetches the current message set for a token. A non-2xx
// status is an error; a body that does not parse as any known shape
// is an empty list, since the upstream sometimes answers an empty
// inbox with non-JSON text.
func (c *Client) GetMessages(ctx context.Context, token string) ([]RawMessage, error) {
	path := fmt.Sprintf("/request/mail/id/%s/", url.PathEscape(token))
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var list MessageList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, nil
	}
	return list.Messages, nil
}

// DeleteMessage deletes a single message. A 404 is success: the
// message is already gone, which is the state the caller wanted.
func (c *Client) DeleteMessage(ctx context.Context, messageID string) error {
	path := fmt.Sprintf("/request/delete/id/%s/", url.PathEscape(messageID))
	_, err := c.get(ctx, path)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
			return nil
		}
		return err
	}
	return nil
}

// GetAttachments lists attachment descriptors for a message. The
// descriptors are passed through undecoded; their shape is not part
// of this client's contract.
func (c *Client) GetAttachments(ctx context.Context, messageID string) ([]json.RawMessage, error) {
	path := fmt.Sprintf("/request/attachments/id/%s/", url.PathEscape(messageID))
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var descriptors []json.RawMessage
	if err := json.Unmarshal(body, &descriptors); err != nil {
		return nil, nil
	}
	return descriptors, nil
}
