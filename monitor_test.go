package tempmailbox

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"
)

// inboxServer serves a mutable inbox keyed by mailbox token.
type inboxServer struct {
	mu     sync.Mutex
	bodies map[string]string
}

func newInboxServer() *inboxServer {
	return &inboxServer{bodies: make(map[string]string)}
}

func (s *inboxServer) set(token, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies[token] = body
}

func (s *inboxServer) handler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, body := range s.bodies {
		if r.URL.Path == "/request/mail/id/"+token+"/" {
			w.Write([]byte(body))
			return
		}
	}
	w.Write([]byte(`[]`))
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestMonitorInitialPollAndCallback(t *testing.T) {
	inbox := newInboxServer()
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/request/mail/id/": inbox.handler,
	})
	client := New(WithBaseURL(server.URL))

	session := NewSession("watch@1secmail.com")
	inbox.set(session.Token(), `[{"mail_id":"m1","mail_subject":"First"}]`)

	monitor := client.NewMonitor(
		WithInitialDelay(10*time.Millisecond),
		WithPollInterval(20*time.Millisecond),
	)
	defer monitor.Close()

	var mu sync.Mutex
	var arrived []string
	monitor.OnNewMessages(func(s *MailboxSession, fresh []Message) {
		mu.Lock()
		defer mu.Unlock()
		for _, m := range fresh {
			arrived = append(arrived, m.ID)
		}
	})

	monitor.Open(session)

	waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(arrived) == 1 && arrived[0] == "m1"
	})

	// A second arrival fires the callback with only the new ID.
	inbox.set(session.Token(), `[{"mail_id":"m1"},{"mail_id":"m2"}]`)
	waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(arrived) == 2 && arrived[1] == "m2"
	})

	if got := len(monitor.Messages()); got != 2 {
		t.Errorf("snapshot has %d messages, want 2", got)
	}
}

func TestMonitorCallbackNotRepeatedForSeenMessages(t *testing.T) {
	inbox := newInboxServer()
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/request/mail/id/": inbox.handler,
	})
	client := New(WithBaseURL(server.URL))

	session := NewSession("repeat@1secmail.com")
	inbox.set(session.Token(), `[{"mail_id":"m1"}]`)

	monitor := client.NewMonitor(
		WithInitialDelay(5*time.Millisecond),
		WithPollInterval(10*time.Millisecond),
	)
	defer monitor.Close()

	var mu sync.Mutex
	fires := 0
	monitor.OnNewMessages(func(s *MailboxSession, fresh []Message) {
		mu.Lock()
		defer mu.Unlock()
		fires++
	})

	monitor.Open(session)

	waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return fires >= 1
	})

	// Let several more polls of the unchanged inbox run.
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if fires != 1 {
		t.Errorf("callback fired %d times for an unchanged inbox, want 1", fires)
	}
}

func TestMonitorOpenReplacesSession(t *testing.T) {
	inbox := newInboxServer()
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/request/mail/id/": inbox.handler,
	})
	client := New(WithBaseURL(server.URL))

	first := NewSession("first@1secmail.com")
	second := NewSession("second@1secmail.com")
	inbox.set(first.Token(), `[{"mail_id":"old1"},{"mail_id":"old2"}]`)
	inbox.set(second.Token(), `[{"mail_id":"new1"}]`)

	monitor := client.NewMonitor(
		WithInitialDelay(5*time.Millisecond),
		WithPollInterval(10*time.Millisecond),
	)
	defer monitor.Close()

	monitor.Open(first)
	waitFor(t, 2*time.Second, func() bool {
		return len(monitor.Messages()) == 2
	})

	monitor.Open(second)
	if got := monitor.Messages(); len(got) != 0 {
		// The old snapshot must be gone immediately, before the new
		// session's first poll lands.
		for _, m := range got {
			if m.ID == "old1" || m.ID == "old2" {
				t.Fatalf("old session messages survived Open: %v", msgIDs(got))
			}
		}
	}

	waitFor(t, 2*time.Second, func() bool {
		snap := monitor.Messages()
		return len(snap) == 1 && snap[0].ID == "new1"
	})

	if got := monitor.Session(); got != second {
		t.Errorf("Session() = %v, want the second session", got)
	}
}

func TestMonitorStalePollDiscarded(t *testing.T) {
	inbox := newInboxServer()
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/request/mail/id/": inbox.handler,
	})
	client := New(WithBaseURL(server.URL))

	first := NewSession("stale@1secmail.com")
	second := NewSession("fresh@1secmail.com")
	inbox.set(second.Token(), `[]`)

	// Long delays so no scheduled poll interferes.
	monitor := client.NewMonitor(
		WithInitialDelay(time.Hour),
		WithPollInterval(time.Hour),
	)
	defer monitor.Close()

	monitor.Open(second)

	// A poll result for the replaced first session must not land in
	// the second session's store.
	monitor.apply(first, []Message{{ID: "stale1"}})

	if got := monitor.Messages(); len(got) != 0 {
		t.Errorf("stale poll result was applied: %v", msgIDs(got))
	}
}

func TestMonitorRefresh(t *testing.T) {
	inbox := newInboxServer()
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/request/mail/id/": inbox.handler,
	})
	client := New(WithBaseURL(server.URL))

	session := NewSession("refresh@1secmail.com")
	inbox.set(session.Token(), `[{"mail_id":"m1"}]`)

	monitor := client.NewMonitor(
		WithInitialDelay(time.Hour),
		WithPollInterval(time.Hour),
	)
	defer monitor.Close()
	monitor.Open(session)

	if err := monitor.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got := monitor.Messages(); len(got) != 1 || got[0].ID != "m1" {
		t.Errorf("snapshot after Refresh = %v", msgIDs(got))
	}
}

func TestMonitorRefreshNoSession(t *testing.T) {
	client := New(WithBaseURL("http://127.0.0.1:0"))
	monitor := client.NewMonitor()

	if err := monitor.Refresh(context.Background()); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("Refresh without session = %v, want ErrNoActiveSession", err)
	}
}

func TestMonitorRefreshSurfacesFetchError(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/request/mail/id/": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
	})
	client := New(WithBaseURL(server.URL))

	monitor := client.NewMonitor(
		WithInitialDelay(time.Hour),
		WithPollInterval(time.Hour),
	)
	defer monitor.Close()
	monitor.Open(NewSession("err@1secmail.com"))

	err := monitor.Refresh(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Refresh error = %v, want 401 *APIError", err)
	}
	if got := monitor.Messages(); len(got) != 0 {
		t.Errorf("failed refresh changed the snapshot: %v", msgIDs(got))
	}
}

func TestMonitorCloseAndReuse(t *testing.T) {
	inbox := newInboxServer()
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/request/mail/id/": inbox.handler,
	})
	client := New(WithBaseURL(server.URL))

	session := NewSession("reuse@1secmail.com")
	inbox.set(session.Token(), `[{"mail_id":"m1"}]`)

	monitor := client.NewMonitor(
		WithInitialDelay(time.Hour),
		WithPollInterval(time.Hour),
	)
	monitor.Open(session)
	if err := monitor.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	monitor.Close()
	if monitor.Session() != nil {
		t.Error("Session() not nil after Close")
	}
	if got := monitor.Messages(); len(got) != 0 {
		t.Errorf("snapshot survived Close: %v", msgIDs(got))
	}
	monitor.Close() // second Close is a no-op

	monitor.Open(session)
	defer monitor.Close()
	if err := monitor.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh after reuse: %v", err)
	}
	if got := monitor.Messages(); len(got) != 1 {
		t.Errorf("snapshot after reuse = %v", msgIDs(got))
	}
}

func TestMonitorUnsubscribe(t *testing.T) {
	inbox := newInboxServer()
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/request/mail/id/": inbox.handler,
	})
	client := New(WithBaseURL(server.URL))

	session := NewSession("unsub@1secmail.com")
	inbox.set(session.Token(), `[{"mail_id":"m1"}]`)

	monitor := client.NewMonitor(
		WithInitialDelay(time.Hour),
		WithPollInterval(time.Hour),
	)
	defer monitor.Close()

	var mu sync.Mutex
	fired := false
	unsubscribe := monitor.OnNewMessages(func(s *MailboxSession, fresh []Message) {
		mu.Lock()
		defer mu.Unlock()
		fired = true
	})
	unsubscribe()

	monitor.Open(session)
	if err := monitor.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if fired {
		t.Error("unsubscribed callback still fired")
	}
}
