package callback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Rrens/honeypot/internal/config"
	"github.com/Rrens/honeypot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sink struct {
	mu       sync.Mutex
	payloads []Payload
}

func (s *sink) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var p Payload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))

		s.mu.Lock()
		s.payloads = append(s.payloads, p)
		s.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}
}

func (s *sink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payloads)
}

func newSession(id string, turns int, handles ...string) *domain.Session {
	sess := domain.NewSession(id, time.Now())
	for i := 0; i < turns; i++ {
		rec := domain.TurnRecord{UserText: "u", AgentText: "a", Verdict: &domain.Verdict{IsScam: true, Rationale: "asks for upi"}}
		if i == 0 {
			rec.Indicators = domain.NewIntelligence()
			rec.Indicators.PaymentHandles.Add(handles...)
		}
		sess.Apply(rec, time.Now())
	}
	return sess
}

func newTestReporter(url string) *Reporter {
	return NewReporter(config.CallbackConfig{
		URL:           url,
		Timeout:       time.Second,
		MinIndicators: 2,
		MinMessages:   4,
		OnTermination: true,
	}, nil)
}

func TestReporter_ThresholdReportedOnce(t *testing.T) {
	s := &sink{}
	srv := httptest.NewServer(s.handler(t))
	defer srv.Close()

	r := newTestReporter(srv.URL)

	r.Observe(newSession("s1", 1, "a@upi", "b@upi"))
	r.Wait()
	assert.Equal(t, 0, s.count(), "below message threshold")

	r.Observe(newSession("s1", 2, "a@upi", "b@upi"))
	r.Wait()
	r.Observe(newSession("s1", 3, "a@upi", "b@upi"))
	r.Wait()
	require.Equal(t, 1, s.count())

	p := s.payloads[0]
	assert.Equal(t, "s1", p.SessionID)
	assert.True(t, p.ScamDetected)
	assert.Equal(t, 4, p.TotalMessages)
	assert.Equal(t, []string{"a@upi", "b@upi"}, p.Intelligence.PaymentHandles.Values())
	assert.Equal(t, "asks for upi", p.AgentNotes)
}

func TestReporter_TerminationReported(t *testing.T) {
	s := &sink{}
	srv := httptest.NewServer(s.handler(t))
	defer srv.Close()

	r := newTestReporter(srv.URL)

	sess := newSession("s2", 2, "a@upi", "b@upi")
	r.Observe(sess)

	final := sess.Clone()
	final.Terminated = true
	r.Observe(final)
	r.Wait()

	assert.Equal(t, 2, s.count())
}

// blockingLedger holds every claim until release is closed
type blockingLedger struct {
	release chan struct{}
}

func (l *blockingLedger) Claim(ctx context.Context, sessionID string) (bool, error) {
	select {
	case <-l.release:
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (l *blockingLedger) Release(ctx context.Context, sessionID string) error {
	return nil
}

func TestReporter_ObserveDoesNotWaitForLedger(t *testing.T) {
	s := &sink{}
	srv := httptest.NewServer(s.handler(t))
	defer srv.Close()

	ledger := &blockingLedger{release: make(chan struct{})}
	r := NewReporter(config.CallbackConfig{
		URL:           srv.URL,
		Timeout:       5 * time.Second,
		MinIndicators: 2,
		MinMessages:   4,
	}, ledger)

	returned := make(chan struct{})
	go func() {
		r.Observe(newSession("slow", 2, "a@upi", "b@upi"))
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Observe blocked on the ledger")
	}
	assert.Equal(t, 0, s.count())

	close(ledger.release)
	r.Wait()
	assert.Equal(t, 1, s.count())
}

func TestReporter_BenignTerminationSkipped(t *testing.T) {
	s := &sink{}
	srv := httptest.NewServer(s.handler(t))
	defer srv.Close()

	r := newTestReporter(srv.URL)
	sess := domain.NewSession("s3", time.Now())
	sess.Apply(domain.TurnRecord{UserText: "hi"}, time.Now())
	sess.Terminated = true

	r.Observe(sess)
	r.Wait()
	assert.Equal(t, 0, s.count())
}

func TestReporter_Disabled(t *testing.T) {
	r := newTestReporter("")
	assert.False(t, r.Enabled())

	r.Observe(newSession("s4", 5, "a@upi", "b@upi"))
	r.Wait()
}

func TestReporter_SendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := newTestReporter(srv.URL)
	err := r.Send(context.Background(), NewPayload(newSession("s5", 1)))
	assert.ErrorContains(t, err, "status 500")
}

func TestNewPayload_DefaultNotes(t *testing.T) {
	sess := domain.NewSession("s6", time.Now())
	sess.Apply(domain.TurnRecord{UserText: "hi", AgentText: ""}, time.Now())

	p := NewPayload(sess)
	assert.Equal(t, "2 messages exchanged, 0 indicators extracted", p.AgentNotes)
	assert.False(t, p.ScamDetected)
}

func TestMemoryLedger_Claim(t *testing.T) {
	ledger := NewMemoryLedger(time.Hour)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ledger.now = func() time.Time { return clock }
	ctx := context.Background()

	ok, err := ledger.Claim(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = ledger.Claim(ctx, "a")
	assert.False(t, ok)

	// claims lapse after the retention window
	clock = clock.Add(2 * time.Hour)
	ok, _ = ledger.Claim(ctx, "a")
	assert.True(t, ok)

	require.NoError(t, ledger.Release(ctx, "a"))
	ok, _ = ledger.Claim(ctx, "a")
	assert.True(t, ok)
}
