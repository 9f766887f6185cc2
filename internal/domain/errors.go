package domain

import "errors"

var (
	// ErrSessionNotFound is a normal miss: unknown, expired or terminated id
	ErrSessionNotFound = errors.New("session not found")

	// ErrEmptyMessage rejects blank inbound text before any session is touched
	ErrEmptyMessage = errors.New("message cannot be empty")
)
