package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsExitMessage(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"bye", true},
		{"  BYE!  ", true},
		{"goodbye friend", true},
		{"ok I will stop", true},
		{"nonstop", false},
		{"stopping now", false},
		{"I'm done.", true},
		{"end conversation", true},
		{"please end chat", true},
		{"stop conversation now", true},
		{"bye, see you", true},
		{"send money to the bank", false},
		{"the weekend", false},
		{"closed account", false},
		{"quitting is not an option", false},
		{"bye 👋", true},
		{"", false},
		{"   ", false},
		{"?!", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, IsExitMessage(tt.text))
		})
	}
}
