package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Rrens/honeypot/internal/config"
	"github.com/Rrens/honeypot/internal/domain"
	"github.com/rs/zerolog/log"
)

// ReportedRetention bounds how long a threshold report is remembered for a
// session that never terminates
const ReportedRetention = 2 * time.Hour

// Ledger records which sessions already had their threshold report
type Ledger interface {
	Claim(ctx context.Context, sessionID string) (bool, error)
	Release(ctx context.Context, sessionID string) error
}

// Payload is the final-result document posted to the evaluation endpoint
type Payload struct {
	SessionID     string              `json:"sessionId"`
	ScamDetected  bool                `json:"scamDetected"`
	TotalMessages int                 `json:"totalMessagesExchanged"`
	Intelligence  domain.Intelligence `json:"extractedIntelligence"`
	AgentNotes    string              `json:"agentNotes"`
}

// Policy decides when a session is worth reporting
type Policy struct {
	MinIndicators int
	MinMessages   int
	OnTermination bool
}

// Reporter posts session results to an external consumer. Each session is
// reported at most once when it crosses the policy thresholds and once more
// when it terminates.
type Reporter struct {
	url     string
	timeout time.Duration
	policy  Policy
	client  *http.Client
	ledger  Ledger
	wg      sync.WaitGroup
}

// NewReporter creates a reporter. An empty URL yields a disabled reporter and
// a nil ledger keeps claims in process memory.
func NewReporter(cfg config.CallbackConfig, ledger Ledger) *Reporter {
	if ledger == nil {
		ledger = NewMemoryLedger(ReportedRetention)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Reporter{
		url:     cfg.URL,
		timeout: cfg.Timeout,
		policy: Policy{
			MinIndicators: cfg.MinIndicators,
			MinMessages:   cfg.MinMessages,
			OnTermination: cfg.OnTermination,
		},
		client: &http.Client{},
		ledger: ledger,
	}
}

// Enabled reports whether a callback URL is configured
func (r *Reporter) Enabled() bool {
	return r.url != ""
}

// Observe inspects a committed snapshot and reports it in the background
// when the policy says so. Ledger round trips happen off the caller's path.
func (r *Reporter) Observe(sess *domain.Session) {
	if !r.Enabled() || sess == nil || !r.eligible(sess) {
		return
	}

	payload := NewPayload(sess)
	terminated := sess.Terminated
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if !r.claim(ctx, payload.SessionID, terminated) {
			return
		}
		if err := r.Send(ctx, payload); err != nil {
			log.Error().Err(err).Str("session_id", payload.SessionID).Msg("final result callback failed")
			return
		}
		log.Info().
			Str("session_id", payload.SessionID).
			Int("messages", payload.TotalMessages).
			Msg("final result callback delivered")
	}()
}

// Wait blocks until in-flight reports finish
func (r *Reporter) Wait() {
	r.wg.Wait()
}

// Send posts one payload synchronously
func (r *Reporter) Send(ctx context.Context, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("callback returned status %d", resp.StatusCode)
	}
	return nil
}

// NewPayload builds the report document for a session snapshot
func NewPayload(sess *domain.Session) Payload {
	notes := sess.LastRationale
	if notes == "" {
		notes = fmt.Sprintf("%d messages exchanged, %d indicators extracted", len(sess.History), sess.Intelligence.Len())
	}
	return Payload{
		SessionID:     sess.ID,
		ScamDetected:  sess.ScamDetected,
		TotalMessages: len(sess.History),
		Intelligence:  sess.Intelligence.Clone(),
		AgentNotes:    notes,
	}
}

// eligible applies the policy to a snapshot without touching the ledger
func (r *Reporter) eligible(sess *domain.Session) bool {
	if sess.Terminated {
		return r.policy.OnTermination && (sess.ScamDetected || !sess.Intelligence.IsEmpty())
	}
	return sess.ScamDetected &&
		sess.Intelligence.Len() >= r.policy.MinIndicators &&
		len(sess.History) >= r.policy.MinMessages
}

// claim takes the threshold report slot for a live session so concurrent
// observers never double report. A terminated session always reports and
// frees its slot.
func (r *Reporter) claim(ctx context.Context, sessionID string, terminated bool) bool {
	if terminated {
		if err := r.ledger.Release(ctx, sessionID); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to release report claim")
		}
		return true
	}

	claimed, err := r.ledger.Claim(ctx, sessionID)
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to claim report")
		return false
	}
	return claimed
}

// MemoryLedger keeps claims in process memory
type MemoryLedger struct {
	mu        sync.Mutex
	retention time.Duration
	claims    map[string]time.Time
	now       func() time.Time
}

// NewMemoryLedger creates a ledger whose claims lapse after retention
func NewMemoryLedger(retention time.Duration) *MemoryLedger {
	return &MemoryLedger{
		retention: retention,
		claims:    make(map[string]time.Time),
		now:       time.Now,
	}
}

func (l *MemoryLedger) Claim(ctx context.Context, sessionID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for id, at := range l.claims {
		if now.Sub(at) > l.retention {
			delete(l.claims, id)
		}
	}

	if _, taken := l.claims[sessionID]; taken {
		return false, nil
	}
	l.claims[sessionID] = now
	return true, nil
}

func (l *MemoryLedger) Release(ctx context.Context, sessionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.claims, sessionID)
	return nil
}
