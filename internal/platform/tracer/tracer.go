// Package tracer is a small tracing abstraction over OpenTelemetry.
//
// Services depend on the Tracer interface only. Production wiring uses the
// OpenTelemetry adapter; tests use NoopTracer.
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span and marks it failed when err is non-nil.
	// It must be called exactly once, typically via defer.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: int64(value)}
}

// HashUserID returns a short SHA-256 prefix so traces can be correlated
// per user without carrying the raw identifier.
func HashUserID(userID string) string {
	if userID == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(hash[:8])
}

// Span names.
const (
	SpanCreateTerms         = "terms.create"
	SpanGetTerms            = "terms.get"
	SpanAcceptTerms         = "terms.accept"
	SpanGetAcknowledgements = "terms.acknowledgements"
	SpanLedgerUpsert        = "ledger.upsert"
)

// Attribute keys.
const (
	AttrTermsID     = "terms.id"
	AttrUserHash    = "user.hash"
	AttrOutcome     = "terms.outcome"
	AttrFilterKeys  = "terms.filter_keys"
	AttrResultCount = "terms.result_count"
	AttrAttempt     = "ledger.attempt"
)

// Event names.
const (
	EventCASConflict = "ledger.cas_conflict"
)
