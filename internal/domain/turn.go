package domain

// Metadata is passed through to the gateways and never interpreted by the core
type Metadata struct {
	Channel  string `json:"channel,omitempty"`
	Language string `json:"language,omitempty"`
	Locale   string `json:"locale,omitempty"`
}

// Verdict is the classifier's answer for one message
type Verdict struct {
	IsScam     bool    `json:"isScam"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"reasoning"`
}

// ClassifyRequest is the Classifier Gateway input
type ClassifyRequest struct {
	Text     string
	Context  []Turn
	Metadata Metadata
}

// ReplyRequest is the Responder Gateway input
type ReplyRequest struct {
	Text     string
	Context  []Turn
	Metadata Metadata
}

// TurnRequest is one inbound message as seen by the orchestrator
type TurnRequest struct {
	SessionID string
	Text      string
	Replay    []Turn
	Metadata  Metadata
}

// TurnResponse is returned for every processed turn. ScamDetected is the
// verdict of this turn; SessionScam stays true once any turn was a scam.
type TurnResponse struct {
	Status        string       `json:"status"`
	SessionID     string       `json:"sessionId"`
	SessionEnded  bool         `json:"sessionEnded"`
	ScamDetected  bool         `json:"scamDetected"`
	SessionScam   bool         `json:"sessionScamDetected"`
	Confidence    *float64     `json:"confidence,omitempty"`
	Reasoning     string       `json:"reasoning,omitempty"`
	Reply         string       `json:"reply"`
	Conversation  []Turn       `json:"conversation"`
	Intelligence  Intelligence `json:"extractedIntelligence"`
	TotalMessages int          `json:"totalMessagesExchanged"`
}

// StatusSuccess is the status value of every well-formed turn response
const StatusSuccess = "success"
