package service

import (
	"strings"
	"unicode"
)

// exitPhrases end a conversation when they open or close the message
var exitPhrases = []string{
	"exit",
	"quit",
	"bye",
	"goodbye",
	"end",
	"stop",
	"done",
	"leave",
	"close",
	"terminate",
	"finish",
	"end conversation",
	"end chat",
	"stop conversation",
}

// IsExitMessage reports whether text equals, starts with or ends with an
// exit phrase on a word boundary
func IsExitMessage(text string) bool {
	norm := normalizeExit(text)
	if norm == "" {
		return false
	}

	for _, phrase := range exitPhrases {
		if norm == phrase {
			return true
		}
		if strings.HasPrefix(norm, phrase) && !isWordByte(norm[len(phrase)]) {
			return true
		}
		if strings.HasSuffix(norm, phrase) && !isWordByte(norm[len(norm)-len(phrase)-1]) {
			return true
		}
	}
	return false
}

// normalizeExit lower-cases, collapses whitespace and strips surrounding punctuation
func normalizeExit(text string) string {
	norm := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	return strings.TrimFunc(norm, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
	})
}

func isWordByte(b byte) bool {
	return b == '_' || b == '\'' ||
		('a' <= b && b <= 'z') || ('0' <= b && b <= '9') ||
		b >= 0x80
}
