package tempmailbox

import (
	"github.com/tempmailbox/client-go/internal/token"
)

// MailboxSession identifies one temporary inbox: the generated address
// and the access token derived from it. Sessions are immutable; a new
// mailbox means a new session, never a mutated one.
type MailboxSession struct {
	address string
	token   string
}

// NewSession builds a session for an address. The token is always the
// derived digest of the address; it cannot be set independently.
func NewSession(address string) *MailboxSession {
	return &MailboxSession{
		address: address,
		token:   token.Derive(address),
	}
}

// Address returns the mailbox address.
func (s *MailboxSession) Address() string {
	return s.address
}

// Token returns the access token for all inbox operations. Anyone
// holding the token can read and delete this mailbox's messages.
func (s *MailboxSession) Token() string {
	return s.token
}
