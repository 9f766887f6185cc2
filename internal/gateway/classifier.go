package gateway

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/Rrens/honeypot/internal/domain"
	"github.com/Rrens/honeypot/internal/llm"
)

// keywordWeights scores common scam vocabulary ahead of the model call
var keywordWeights = map[string]int{
	"verify":            2,
	"confirm":           2,
	"update":            2,
	"urgent":            3,
	"immediate":         3,
	"account blocked":   4,
	"account suspended": 4,
	"verify identity":   3,
	"confirm password":  4,
	"click here":        2,
	"click link":        2,
	"send money":        4,
	"transfer funds":    4,
	"pay now":           3,
	"pay immediately":   4,
	"upi":               2,
	"bank account":      2,
	"credit card":       2,
	"debit card":        2,
	"otp":               3,
	"one-time password": 3,
	"security code":     3,
	"cvv":               3,
	"atm pin":           3,
	"password":          2,
	"login":             2,
	"confirm details":   3,
	"unusual activity":  2,
	"suspicious":        2,
	"claim reward":      3,
	"won":               2,
	"prize":             2,
	"lottery":           3,
	"refund":            2,
	"tax return":        2,
	"inheritance":       3,
	"bank officer":      2,
	"government":        2,
	"police":            2,
	"amazon":            1,
	"google":            1,
	"microsoft":         1,
	"apple":             1,
}

var maxKeywordScore = func() int {
	total := 0
	for _, w := range keywordWeights {
		total += w
	}
	return total
}()

var numberPattern = regexp.MustCompile(`\d*\.?\d+`)

// KeywordScore returns the normalized keyword weight of text in [0,1]
func KeywordScore(text string) float64 {
	lower := strings.ToLower(text)
	total := 0
	for keyword, weight := range keywordWeights {
		if strings.Contains(lower, keyword) {
			total += weight
		}
	}
	if maxKeywordScore == 0 {
		return 0
	}
	return clamp(float64(total) / float64(maxKeywordScore))
}

// LLMClassifier asks a language model for a three-line verdict
type LLMClassifier struct {
	client          *client
	contextMessages int
}

// NewLLMClassifier creates a classifier backed by the router's provider
func NewLLMClassifier(router *llm.Router, opts Options, contextMessages int) *LLMClassifier {
	return &LLMClassifier{
		client:          newClient(router, opts),
		contextMessages: contextMessages,
	}
}

func (c *LLMClassifier) Classify(ctx context.Context, req domain.ClassifyRequest) (*domain.Verdict, error) {
	score := KeywordScore(req.Text)

	text, err := c.client.generate(ctx, llm.Request{
		System:      classifierSystemPrompt,
		Prompt:      buildClassifyPrompt(req.Text, formatContext(req.Context, c.contextMessages), score, req.Metadata.Channel),
		Temperature: 0.2,
		MaxTokens:   512,
	})
	if err != nil {
		return nil, err
	}

	return parseVerdict(text, score)
}

// parseVerdict reads the YES/NO, confidence and reasoning lines. A missing
// or unreadable confidence falls back to the keyword score.
func parseVerdict(text string, keywordScore float64) (*domain.Verdict, error) {
	var lines []string
	for _, line := range strings.Split(llm.CleanText(text), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, errors.New("empty classification response")
	}

	verdict := &domain.Verdict{
		IsScam:     strings.Contains(strings.ToUpper(lines[0]), "YES"),
		Confidence: keywordScore,
		Rationale:  "no reasoning provided",
	}

	if len(lines) > 1 {
		if nums := numberPattern.FindAllString(lines[1], -1); len(nums) > 0 {
			if v, err := strconv.ParseFloat(nums[len(nums)-1], 64); err == nil {
				verdict.Confidence = v
			}
		}
	}
	verdict.Confidence = clamp(verdict.Confidence)

	if len(lines) > 2 {
		reason := strings.Join(lines[2:], " ")
		// drop a "3. Reasoning:" style label
		if idx := strings.Index(reason, ":"); idx >= 0 && idx < 24 {
			reason = reason[idx+1:]
		}
		reason = strings.TrimLeft(strings.TrimSpace(reason), "0123456789. ")
		if reason != "" {
			verdict.Rationale = reason
		}
	}

	return verdict, nil
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
