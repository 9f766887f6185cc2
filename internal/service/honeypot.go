package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Rrens/honeypot/internal/domain"
	"github.com/Rrens/honeypot/internal/gateway"
	"github.com/rs/zerolog/log"
)

const (
	defaultFarewell      = "Okay, I have to go now. Goodbye!"
	defaultFallbackReply = "Sorry, I didn't understand. Can you explain again what I need to do?"
	unavailableRationale = "classification unavailable"
)

// Extractor finds indicators in one message
type Extractor interface {
	Extract(ctx context.Context, text string) domain.Intelligence
}

// Reporter is told about every committed session snapshot
type Reporter interface {
	Observe(sess *domain.Session)
}

// Options tunes the canned replies of the orchestrator
type Options struct {
	NeutralReply  string
	FallbackReply string
	Farewell      string
}

// HoneypotService runs one conversational turn end to end
type HoneypotService struct {
	store      domain.SessionStore
	classifier gateway.Classifier
	responder  gateway.Responder
	extractor  Extractor
	reporter   Reporter
	opts       Options
}

// NewHoneypotService creates a new honeypot service. A nil reporter disables reporting.
func NewHoneypotService(
	store domain.SessionStore,
	classifier gateway.Classifier,
	responder gateway.Responder,
	extractor Extractor,
	reporter Reporter,
	opts Options,
) *HoneypotService {
	if opts.Farewell == "" {
		opts.Farewell = defaultFarewell
	}
	if opts.FallbackReply == "" {
		opts.FallbackReply = defaultFallbackReply
	}
	return &HoneypotService{
		store:      store,
		classifier: classifier,
		responder:  responder,
		extractor:  extractor,
		reporter:   reporter,
		opts:       opts,
	}
}

// ProcessTurn handles one inbound message
func (s *HoneypotService) ProcessTurn(ctx context.Context, req domain.TurnRequest) (*domain.TurnResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, domain.ErrEmptyMessage
	}

	sess := s.resolve(ctx, req.SessionID)

	if IsExitMessage(text) {
		return s.exit(ctx, sess, text)
	}

	indicators := s.extractor.Extract(ctx, text)

	// the caller's replayed history only stands in for a session with none of its own
	history := req.Replay
	if sess != nil && len(sess.History) > 0 {
		history = sess.History
	}

	verdict := s.classify(ctx, domain.ClassifyRequest{Text: text, Context: history, Metadata: req.Metadata})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reply := ""
	agentText := s.opts.NeutralReply
	if verdict.IsScam {
		reply = s.reply(ctx, domain.ReplyRequest{Text: text, Context: history, Metadata: req.Metadata})
		agentText = reply
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	updated, err := s.commit(ctx, sess, domain.TurnRecord{
		UserText:   text,
		AgentText:  agentText,
		Indicators: indicators,
		Verdict:    verdict,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record turn: %w", err)
	}

	log.Info().
		Str("session_id", updated.ID).
		Int("turn", updated.TurnCount).
		Bool("is_scam", verdict.IsScam).
		Float64("confidence", verdict.Confidence).
		Int("new_indicators", indicators.Len()).
		Msg("turn processed")

	s.observe(updated)

	confidence := verdict.Confidence
	resp := buildResponse(updated, reply)
	resp.ScamDetected = verdict.IsScam
	resp.Confidence = &confidence
	resp.Reasoning = verdict.Rationale
	return resp, nil
}

// EndSession terminates a live session without a farewell exchange
func (s *HoneypotService) EndSession(ctx context.Context, id string) (*domain.Session, error) {
	final, err := s.store.Terminate(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	s.observe(final)
	return final, nil
}

// GetSession returns the current snapshot of a live session
func (s *HoneypotService) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	return s.store.Get(ctx, id)
}

// ActiveSessions returns the number of live sessions
func (s *HoneypotService) ActiveSessions(ctx context.Context) int {
	return s.store.Count(ctx)
}

// resolve returns the live session for id, or nil when a new one is needed.
// Creation is deferred to commit so an abandoned turn leaves nothing behind.
func (s *HoneypotService) resolve(ctx context.Context, id string) *domain.Session {
	if id == "" {
		return nil
	}

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		log.Info().Str("session_id", id).Msg("session not found or expired, starting new session")
		return nil
	}

	// keep the session alive while the gateways run
	if err := s.store.Touch(ctx, id); err != nil {
		log.Debug().Err(err).Str("session_id", id).Msg("session ended before touch, commit will start a new one")
	}
	return sess
}

func (s *HoneypotService) exit(ctx context.Context, sess *domain.Session, text string) (*domain.TurnResponse, error) {
	final := &domain.TurnRecord{
		UserText:   text,
		AgentText:  s.opts.Farewell,
		Indicators: s.extractor.Extract(ctx, text),
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		snapshot *domain.Session
		err      error
	)
	if sess != nil {
		snapshot, err = s.store.Terminate(ctx, sess.ID, final)
	}
	if sess == nil || errors.Is(err, domain.ErrSessionNotFound) {
		snapshot, err = s.store.Terminate(ctx, s.store.Create(ctx).ID, final)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to terminate session: %w", err)
	}

	log.Info().
		Str("session_id", snapshot.ID).
		Int("turns", snapshot.TurnCount).
		Int("indicators", snapshot.Intelligence.Len()).
		Msg("session ended by exit phrase")

	s.observe(snapshot)

	resp := buildResponse(snapshot, s.opts.Farewell)
	resp.SessionEnded = true
	return resp, nil
}

func (s *HoneypotService) classify(ctx context.Context, req domain.ClassifyRequest) *domain.Verdict {
	verdict, err := s.classifier.Classify(ctx, req)
	if err != nil || verdict == nil {
		if ctx.Err() == nil {
			log.Warn().Err(err).Msg("classifier unavailable, treating message as benign")
		}
		return &domain.Verdict{IsScam: false, Confidence: 0, Rationale: unavailableRationale}
	}
	return verdict
}

func (s *HoneypotService) reply(ctx context.Context, req domain.ReplyRequest) string {
	reply, err := s.responder.Reply(ctx, req)
	if err != nil || strings.TrimSpace(reply) == "" {
		if ctx.Err() == nil {
			log.Warn().Err(err).Msg("responder unavailable, using fallback reply")
		}
		return s.opts.FallbackReply
	}
	return reply
}

// commit records rec on sess, or on a fresh session when sess is nil or
// vanished since it was resolved
func (s *HoneypotService) commit(ctx context.Context, sess *domain.Session, rec domain.TurnRecord) (*domain.Session, error) {
	if sess != nil {
		updated, err := s.store.RecordTurn(ctx, sess.ID, rec)
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return updated, err
		}
		log.Warn().Str("session_id", sess.ID).Msg("session ended during turn, recording on a new session")
	}

	return s.store.RecordTurn(ctx, s.store.Create(ctx).ID, rec)
}

func (s *HoneypotService) observe(sess *domain.Session) {
	if s.reporter != nil {
		s.reporter.Observe(sess)
	}
}

func buildResponse(sess *domain.Session, reply string) *domain.TurnResponse {
	conversation := sess.History
	if conversation == nil {
		conversation = []domain.Turn{}
	}
	return &domain.TurnResponse{
		Status:        domain.StatusSuccess,
		SessionID:     sess.ID,
		ScamDetected:  sess.ScamDetected,
		SessionScam:   sess.ScamDetected,
		Reply:         reply,
		Conversation:  conversation,
		Intelligence:  sess.Intelligence,
		TotalMessages: len(sess.History),
	}
}
