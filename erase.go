package tempmailbox

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/tempmailbox/client-go/internal/token"
)

// DeleteMessage deletes a single message. A malformed ID is rejected
// locally with ErrInvalidMessageID, before any network call. Deleting
// a message that is already gone is success, not failure.
func (c *Client) DeleteMessage(ctx context.Context, messageID string) error {
	if !token.Valid(messageID) {
		return ErrInvalidMessageID
	}
	return wrapError(c.api.DeleteMessage(ctx, messageID))
}

// PurgeMailbox deletes every message in the mailbox and returns how
// many deletions succeeded. Deletions run in parallel and are not
// transactional; the upstream delete endpoint is unreliable, so the
// purge counts as successful once at least half (rounded up) of the
// messages are gone. Below that threshold it returns
// ErrPurgeIncomplete. If the initial fetch fails, no deletes are
// attempted.
func (c *Client) PurgeMailbox(ctx context.Context, tok string) (int, error) {
	if !token.Valid(tok) {
		return 0, ErrInvalidToken
	}

	messages, err := c.Messages(ctx, tok)
	if err != nil {
		return 0, fmt.Errorf("fetch before purge: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	var deleted atomic.Int32
	var wg sync.WaitGroup
	for _, msg := range messages {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := c.DeleteMessage(ctx, id); err != nil {
				c.logger.Debug("purge: delete failed", zap.String("message_id", id), zap.Error(err))
				return
			}
			deleted.Add(1)
		}(msg.ID)
	}
	wg.Wait()

	got := int(deleted.Load())
	need := (len(messages) + 1) / 2
	if got < need {
		return got, fmt.Errorf("%w: %d of %d deleted", ErrPurgeIncomplete, got, len(messages))
	}
	return got, nil
}
