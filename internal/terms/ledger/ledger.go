// Package ledger records terms acknowledgements inside a user's identity claims.
//
// Acknowledgements live under one namespaced claims key as a map from tosId to
// Acknowledgement. Every write reads the full claims document, replaces only
// the namespaced entry for one tosId, and writes the whole document back with a
// version compare-and-swap. Claims owned by other systems are carried through
// untouched. A lost race is retried from a fresh read.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	identitymodels "tosgate/internal/identity/models"
	"tosgate/internal/platform/tracer"
	"tosgate/internal/terms/metrics"
	"tosgate/internal/terms/models"
	id "tosgate/pkg/domain"
	dErrors "tosgate/pkg/domain-errors"
	"tosgate/pkg/platform/sentinel"
)

const (
	DefaultMaxClaimsBytes = 1000
	DefaultMaxAttempts    = 5
	defaultBaseBackoff    = 10 * time.Millisecond
	maxBackoff            = time.Second
)

// ClaimsStore is the identity provider's versioned claims document.
type ClaimsStore interface {
	Get(ctx context.Context, userID id.UserID) (*identitymodels.Record, error)
	CompareAndSwap(ctx context.Context, userID id.UserID, expectedVersion int64, claims identitymodels.Claims) (int64, error)
}

type Ledger struct {
	claims      ClaimsStore
	namespace   string
	maxBytes    int
	maxAttempts int
	baseBackoff time.Duration
	logger      *slog.Logger
	tracer      tracer.Tracer
	metrics     *metrics.Metrics
}

type Option func(*Ledger)

// WithMaxClaimsBytes caps the encoded size of the whole claims document.
func WithMaxClaimsBytes(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

// WithMaxAttempts bounds compare-and-swap attempts per write.
func WithMaxAttempts(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.maxAttempts = n
		}
	}
}

// WithBaseBackoff sets the first retry delay; later retries double it with jitter.
func WithBaseBackoff(d time.Duration) Option {
	return func(l *Ledger) {
		if d >= 0 {
			l.baseBackoff = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(l *Ledger) {
		l.tracer = t
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) {
		l.metrics = m
	}
}

func New(claims ClaimsStore, namespace string, opts ...Option) (*Ledger, error) {
	if claims == nil {
		return nil, errors.New("claims store is required")
	}
	if namespace == "" {
		return nil, errors.New("claims namespace is required")
	}
	l := &Ledger{
		claims:      claims,
		namespace:   namespace,
		maxBytes:    DefaultMaxClaimsBytes,
		maxAttempts: DefaultMaxAttempts,
		baseBackoff: defaultBaseBackoff,
		logger:      slog.Default(),
		tracer:      tracer.NewNoop(),
		metrics:     metrics.Noop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Namespace returns the claims key acknowledgements are stored under.
func (l *Ledger) Namespace() string {
	return l.namespace
}

// Upsert records ack for userID, replacing any earlier acknowledgement of the
// same tosId. It fails with CodePayloadTooLarge when the resulting claims
// exceed the size limit and CodeUnavailable when every attempt lost a race;
// neither case writes anything.
func (l *Ledger) Upsert(ctx context.Context, userID id.UserID, ack models.Acknowledgement) (err error) {
	ctx, span := l.tracer.Start(ctx, tracer.SpanLedgerUpsert,
		tracer.String(tracer.AttrTermsID, ack.TosID),
		tracer.String(tracer.AttrUserHash, tracer.HashUserID(userID.String())),
	)
	defer func() { span.End(err) }()

	entry, err := toClaimValue(ack)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode acknowledgement")
	}

	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		span.SetAttributes(tracer.Int(tracer.AttrAttempt, attempt))

		record, err := l.claims.Get(ctx, userID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read claims")
		}

		if record.Claims == nil {
			record.Claims = identitymodels.Claims{}
		}
		acks, err := namespaced(record.Claims, l.namespace)
		if err != nil {
			return err
		}
		acks[ack.TosID] = entry
		record.Claims[l.namespace] = acks

		raw, err := record.Claims.Encode()
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode claims")
		}
		if len(raw) > l.maxBytes {
			return dErrors.New(dErrors.CodePayloadTooLarge,
				fmt.Sprintf("claims payload of %d bytes exceeds the %d byte limit", len(raw), l.maxBytes))
		}

		_, err = l.claims.CompareAndSwap(ctx, userID, record.Version, record.Claims)
		if err == nil {
			l.metrics.ObserveClaimsWrite(len(raw), len(acks))
			return nil
		}
		if !errors.Is(err, sentinel.ErrConflict) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write claims")
		}

		l.metrics.IncrementCASConflict()
		span.AddEvent(tracer.EventCASConflict, tracer.Int(tracer.AttrAttempt, attempt))
		l.logger.DebugContext(ctx, "claims write conflict, retrying",
			"user_id", userID.String(),
			"tos_id", ack.TosID,
			"attempt", attempt,
		)
		if attempt < l.maxAttempts {
			if err := l.wait(ctx, attempt); err != nil {
				return dErrors.Wrap(err, dErrors.CodeTimeout, "acknowledgement write cancelled")
			}
		}
	}

	l.metrics.IncrementCASExhausted()
	return dErrors.New(dErrors.CodeUnavailable, "acknowledgement could not be recorded due to concurrent updates, please retry")
}

// Get returns userID's acknowledgements, empty when none were recorded.
func (l *Ledger) Get(ctx context.Context, userID id.UserID) (models.AcknowledgementSet, error) {
	record, err := l.claims.Get(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read claims")
	}
	acks, err := namespaced(record.Claims, l.namespace)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(acks)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode acknowledgements")
	}
	set := models.AcknowledgementSet{}
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "stored acknowledgements are malformed")
	}
	return set, nil
}

// namespaced returns the namespaced sub-object, creating it when absent.
// Any other shape is refused so foreign data is never overwritten.
func namespaced(claims identitymodels.Claims, namespace string) (map[string]any, error) {
	v, ok := claims[namespace]
	if !ok || v == nil {
		return map[string]any{}, nil
	}
	acks, ok := v.(map[string]any)
	if !ok {
		return nil, dErrors.New(dErrors.CodeInternal,
			fmt.Sprintf("claims key %q does not hold an acknowledgement map", namespace))
	}
	return acks, nil
}

func toClaimValue(ack models.Acknowledgement) (map[string]any, error) {
	raw, err := json.Marshal(ack)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// wait sleeps base*2^(attempt-1), capped at maxBackoff, scaled by a jitter
// factor in [0.5, 1.5).
func (l *Ledger) wait(ctx context.Context, attempt int) error {
	if l.baseBackoff == 0 {
		return ctx.Err()
	}
	d := l.baseBackoff
	for i := 1; i < attempt && d < maxBackoff; i++ {
		d *= 2
	}
	d = min(d, maxBackoff)
	d = time.Duration(float64(d) * (0.5 + rand.Float64()))

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
