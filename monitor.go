package tempmailbox

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// NewMessagesCallback is called when a poll observes messages that
// were not in the previous snapshot.
type NewMessagesCallback func(session *MailboxSession, fresh []Message)

// Monitor owns the polling lifecycle for one mailbox session: an
// initial poll shortly after the session opens, a recurring poll while
// it stays open, and on-demand refreshes. Opening a new session
// replaces the old one wholesale; in-flight polls for the old session
// are detected and discarded rather than applied.
type Monitor struct {
	client       *Client
	logger       *zap.Logger
	initialDelay time.Duration
	pollInterval time.Duration

	mu      sync.Mutex
	session *MailboxSession
	cancel  context.CancelFunc

	store    *messageStore
	inFlight atomic.Bool

	cbMu      sync.Mutex
	callbacks []NewMessagesCallback
}

// NewMonitor creates a Monitor bound to this client. The Monitor is
// idle until Open is called.
func (c *Client) NewMonitor(opts ...MonitorOption) *Monitor {
	cfg := &monitorConfig{
		initialDelay: DefaultInitialDelay,
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Monitor{
		client:       c,
		logger:       c.logger,
		initialDelay: cfg.initialDelay,
		pollInterval: cfg.pollInterval,
		store:        newMessageStore(),
	}
}

// Open makes session the active session and starts polling it. Any
// previous session's polling is cancelled and the store is cleared
// unconditionally, before any poll against the new token has run.
func (m *Monitor) Open(session *MailboxSession) {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
	}
	m.store.clear()
	m.session = session

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.mu.Unlock()

	m.logger.Debug("session opened", zap.String("address", session.Address()))
	go m.loop(ctx, session)
}

// Close stops polling and clears the store. Safe to call multiple
// times; the Monitor can be reused with another Open.
func (m *Monitor) Close() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.session = nil
	m.store.clear()
	m.mu.Unlock()

	m.cbMu.Lock()
	m.callbacks = nil
	m.cbMu.Unlock()
}

// Session returns the active session, or nil.
func (m *Monitor) Session() *MailboxSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Messages returns the current snapshot for the active session.
func (m *Monitor) Messages() []Message {
	return m.store.snapshot()
}

// Refresh polls immediately, bypassing the in-flight guard since the
// caller asked for it. Fetch errors are returned so the caller can
// surface them; the previous snapshot is kept on failure.
func (m *Monitor) Refresh(ctx context.Context) error {
	m.mu.Lock()
	session := m.session
	m.mu.Unlock()

	if session == nil {
		return ErrNoActiveSession
	}
	return m.poll(ctx, session)
}

// OnNewMessages registers a callback invoked with newly arrived
// messages. The returned function unregisters it.
func (m *Monitor) OnNewMessages(fn NewMessagesCallback) func() {
	m.cbMu.Lock()
	m.callbacks = append(m.callbacks, fn)
	index := len(m.callbacks) - 1
	m.cbMu.Unlock()

	return func() {
		m.cbMu.Lock()
		defer m.cbMu.Unlock()
		// Mark as nil rather than reslice, to preserve indices.
		if index < len(m.callbacks) {
			m.callbacks[index] = nil
		}
	}
}

func (m *Monitor) loop(ctx context.Context, session *MailboxSession) {
	initial := time.NewTimer(m.initialDelay)
	defer initial.Stop()

	select {
	case <-ctx.Done():
		return
	case <-initial.C:
		m.tickPoll(ctx, session)
	}

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tickPoll(ctx, session)
		}
	}
}

// tickPoll is the scheduled variant of poll: it skips the tick when a
// previous poll is still in flight, so slow responses never stack.
func (m *Monitor) tickPoll(ctx context.Context, session *MailboxSession) {
	if !m.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer m.inFlight.Store(false)

	if err := m.poll(ctx, session); err != nil {
		m.logger.Warn("inbox poll failed",
			zap.String("address", session.Address()),
			zap.Error(err),
		)
	}
}

func (m *Monitor) poll(ctx context.Context, session *MailboxSession) error {
	messages, err := m.client.Messages(ctx, session.Token())
	if err != nil {
		return err
	}
	m.apply(session, messages)
	return nil
}

// apply installs a poll result, unless the session it belongs to is no
// longer active. A stale in-flight poll completing after a session
// switch must not touch the new session's store.
func (m *Monitor) apply(session *MailboxSession, messages []Message) {
	m.mu.Lock()
	if m.session == nil || m.session.Token() != session.Token() {
		m.mu.Unlock()
		m.logger.Debug("discarding poll result for replaced session",
			zap.String("address", session.Address()))
		return
	}
	fresh := m.store.replace(messages)
	m.mu.Unlock()

	if len(fresh) == 0 {
		return
	}

	m.cbMu.Lock()
	callbacks := make([]NewMessagesCallback, len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.cbMu.Unlock()

	// Low volume expected; spawning per callback is fine.
	for _, fn := range callbacks {
		if fn != nil {
			go fn(session, fresh)
		}
	}
}
