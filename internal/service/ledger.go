package service

import (
	"context"

	"github.com/phrazzld/courier/internal/ledger"
)

// RequestLedger is the part of ledger.Ledger services use.
type RequestLedger interface {
	OpenWithMetadata(ctx context.Context, requestID, topic string, metadata any) (*ledger.Entry, error)
	Get(ctx context.Context, requestID string) (*ledger.Entry, error)
	Complete(ctx context.Context, requestID string) (*ledger.Entry, error)
	Fail(ctx context.Context, requestID, reason string) (*ledger.Entry, error)
}

var _ RequestLedger = (*ledger.Ledger)(nil)
