package domain

import (
	"context"
	"time"
)

// Session represents one ongoing honeypot conversation
type Session struct {
	ID            string       `json:"sessionId"`
	CreatedAt     time.Time    `json:"createdAt"`
	LastActiveAt  time.Time    `json:"lastActiveAt"`
	TurnCount     int          `json:"turnCount"`
	History       []Turn       `json:"conversation"`
	Intelligence  Intelligence `json:"extractedIntelligence"`
	ScamDetected  bool         `json:"scamDetected"`
	LastRationale string       `json:"agentNotes,omitempty"`
	Terminated    bool         `json:"terminated"`
}

// NewSession returns an empty session created at now
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:           id,
		CreatedAt:    now,
		LastActiveAt: now,
		History:      []Turn{},
		Intelligence: NewIntelligence(),
	}
}

// IsExpired reports whether the session has been idle longer than timeout.
// A non-positive timeout disables expiry.
func (s *Session) IsExpired(now time.Time, timeout time.Duration) bool {
	if timeout <= 0 {
		return false
	}
	return now.Sub(s.LastActiveAt) > timeout
}

// Clone returns a deep copy that shares no mutable state with s
func (s *Session) Clone() *Session {
	c := *s
	c.History = make([]Turn, len(s.History))
	copy(c.History, s.History)
	c.Intelligence = s.Intelligence.Clone()
	return &c
}

// TurnRecord is one committed exchange handed to the store
type TurnRecord struct {
	UserText   string
	AgentText  string
	Indicators Intelligence
	Verdict    *Verdict
}

// SessionStore defines the interface for live session storage
type SessionStore interface {
	Create(ctx context.Context) *Session
	Get(ctx context.Context, id string) (*Session, error)
	RecordTurn(ctx context.Context, id string, rec TurnRecord) (*Session, error)
	Touch(ctx context.Context, id string) error
	Terminate(ctx context.Context, id string, final *TurnRecord) (*Session, error)
	Count(ctx context.Context) int
}

// Apply commits one exchange: user entry then agent entry, indicator union,
// turn counter and activity timestamp
func (s *Session) Apply(rec TurnRecord, now time.Time) {
	s.History = append(s.History,
		Turn{Role: RoleUser, Text: rec.UserText, Timestamp: now},
		Turn{Role: RoleAgent, Text: rec.AgentText, Timestamp: now},
	)
	s.Intelligence.Merge(rec.Indicators)
	s.TurnCount++
	s.LastActiveAt = now

	if rec.Verdict != nil {
		if rec.Verdict.IsScam {
			s.ScamDetected = true
		}
		if rec.Verdict.Rationale != "" {
			s.LastRationale = rec.Verdict.Rationale
		}
	}
}
