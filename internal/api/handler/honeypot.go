package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Rrens/honeypot/internal/api/response"
	"github.com/Rrens/honeypot/internal/domain"
	"github.com/Rrens/honeypot/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

const maxBodyBytes = 1 << 20

// HoneypotHandler serves the conversational endpoint
type HoneypotHandler struct {
	honeypotService *service.HoneypotService
}

// NewHoneypotHandler creates a new honeypot handler
func NewHoneypotHandler(honeypotService *service.HoneypotService) *HoneypotHandler {
	return &HoneypotHandler{honeypotService: honeypotService}
}

// HoneypotRequest is the inbound wire format
type HoneypotRequest struct {
	SessionID           string           `json:"sessionId" validate:"omitempty,max=128"`
	Message             InboundMessage   `json:"message"`
	ConversationHistory []InboundMessage `json:"conversationHistory" validate:"omitempty,max=200,dive"`
	Metadata            domain.Metadata  `json:"metadata"`
}

// InboundMessage accepts either a bare string or {sender, text, timestamp}
type InboundMessage struct {
	Sender    string    `json:"sender" validate:"max=32"`
	Text      string    `json:"text" validate:"max=8000"`
	Timestamp time.Time `json:"-"`
}

func (m *InboundMessage) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &m.Text)
	}

	var raw struct {
		Sender    string          `json:"sender"`
		Text      string          `json:"text"`
		Timestamp json.RawMessage `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Sender = raw.Sender
	m.Text = raw.Text
	m.Timestamp = parseTimestamp(raw.Timestamp)
	return nil
}

// parseTimestamp reads epoch milliseconds or an RFC 3339 string; anything
// else yields the zero time
func parseTimestamp(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}
	if ms, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// role maps a wire sender onto a transcript role. The honeypot side is
// called "user" by the evaluation platform.
func (m InboundMessage) role() domain.TurnRole {
	switch strings.ToLower(m.Sender) {
	case "user", "agent", "honeypot", "assistant":
		return domain.RoleAgent
	default:
		return domain.RoleUser
	}
}

// Handle processes one conversational turn
func (h *HoneypotHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input HoneypotRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	replay := make([]domain.Turn, 0, len(input.ConversationHistory))
	for _, m := range input.ConversationHistory {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		replay = append(replay, domain.Turn{Role: m.role(), Text: m.Text, Timestamp: m.Timestamp})
	}

	resp, err := h.honeypotService.ProcessTurn(r.Context(), domain.TurnRequest{
		SessionID: strings.TrimSpace(input.SessionID),
		Text:      input.Message.Text,
		Replay:    replay,
		Metadata:  input.Metadata,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyMessage):
			response.BadRequest(w, err.Error())
		case r.Context().Err() != nil:
			log.Warn().Err(err).Msg("request cancelled before the turn was recorded")
			response.Unavailable(w, "request cancelled")
		default:
			log.Error().Err(err).Msg("failed to process turn")
			response.InternalError(w, "internal server error")
		}
		return
	}

	response.Raw(w, http.StatusOK, resp)
}

func validationMessages(err error) any {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	messages := make(map[string]string)
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			messages[e.Field()] = "field is required"
		case "max":
			messages[e.Field()] = "must be at most " + e.Param()
		default:
			messages[e.Field()] = "validation failed on " + e.Tag()
		}
	}
	return messages
}
