package redis

import (
	"context"
	"fmt"
	"time"
)

const reportLedgerPrefix = "honeypot:reported:"

// ReportLedger remembers which sessions already had their threshold report
// sent, so replicas behind one load balancer do not report twice
type ReportLedger struct {
	client *Client
	ttl    time.Duration
}

// NewReportLedger creates a ledger whose claims lapse after ttl
func NewReportLedger(client *Client, ttl time.Duration) *ReportLedger {
	return &ReportLedger{client: client, ttl: ttl}
}

// Claim returns true only for the first caller claiming sessionID
func (l *ReportLedger) Claim(ctx context.Context, sessionID string) (bool, error) {
	ok, err := l.client.rdb.SetNX(ctx, reportLedgerPrefix+sessionID, time.Now().Unix(), l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim report: %w", err)
	}
	return ok, nil
}

// Release forgets a claim once the session has terminated
func (l *ReportLedger) Release(ctx context.Context, sessionID string) error {
	return l.client.rdb.Del(ctx, reportLedgerPrefix+sessionID).Err()
}
