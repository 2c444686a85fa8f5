// Package service orchestrates terms publication, retrieval and acceptance.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tosgate/internal/audit"
	"tosgate/internal/platform/tracer"
	"tosgate/internal/terms/metrics"
	"tosgate/internal/terms/models"
	"tosgate/internal/terms/query"
	id "tosgate/pkg/domain"
	dErrors "tosgate/pkg/domain-errors"
	"tosgate/pkg/platform/sentinel"
	"tosgate/pkg/requestcontext"
	"tosgate/pkg/validation"
)

// Caller-facing messages.
const (
	msgUnauthenticated   = "No valid authentication token provided."
	msgInvalidNoticeType = "Invalid notice type"
	msgNoTosID           = "No tosId provided."
	msgNoLink            = "No link provided."
	msgInvalidDate       = "Invalid creation date"
	msgTermsNotFound     = "Terms document not found"
)

// Operation names used for metrics labels.
const (
	opCreate          = "createTerms"
	opGet             = "getTerms"
	opAccept          = "acceptTerms"
	opAcknowledgments = "getAcknowledgements"
)

// TermsStore persists terms documents.
// Error Contract:
// - Get returns sentinel.ErrNotFound when no document exists
// - Put returns an error wrapping sentinel.ErrInvalidInput for malformed documents
// - List returns an empty slice on no match
type TermsStore interface {
	Put(ctx context.Context, doc *models.TermsDocument) error
	Get(ctx context.Context, tosID string) (*models.TermsDocument, error)
	List(ctx context.Context, p query.Predicate) ([]*models.TermsDocument, error)
}

// AcknowledgementLedger records acknowledgements in the caller's claims.
// It returns domain errors.
type AcknowledgementLedger interface {
	Upsert(ctx context.Context, userID id.UserID, ack models.Acknowledgement) error
	Get(ctx context.Context, userID id.UserID) (models.AcknowledgementSet, error)
}

type Option func(*Service)

// Service implements the four terms operations for an authenticated caller.
type Service struct {
	store   TermsStore
	ledger  AcknowledgementLedger
	auditor *audit.Publisher
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
}

func NewService(store TermsStore, ledger AcknowledgementLedger, auditor *audit.Publisher, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		store:   store,
		ledger:  ledger,
		auditor: auditor,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if svc.metrics == nil {
		svc.metrics = metrics.Noop()
	}
	if svc.tracer == nil {
		svc.tracer = tracer.NewNoop()
	}
	return svc
}

// WithMetrics sets the metrics instance for the service
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// CreateTerms publishes a terms document, overwriting any document with the
// same tosId. Checks run in a fixed order: caller, noticeType, tosId, link.
func (s *Service) CreateTerms(ctx context.Context, caller id.UserID, req *models.CreateTermsRequest) (err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanCreateTerms)
	defer func() { span.End(err) }()

	if caller.IsNil() {
		return s.fail(ctx, opCreate, dErrors.New(dErrors.CodeUnauthorized, msgUnauthenticated))
	}
	if req == nil {
		req = &models.CreateTermsRequest{}
	}
	span.SetAttributes(tracer.String(tracer.AttrTermsID, req.TosID))

	notices, ok := models.ParseNoticeType(req.NoticeType)
	if !ok {
		return s.fail(ctx, opCreate, dErrors.New(dErrors.CodeValidation, msgInvalidNoticeType))
	}
	if err := validation.CheckSliceCount("notice types", len(notices), validation.MaxNoticeEntries); err != nil {
		return s.fail(ctx, opCreate, err)
	}
	if err := checkTosID(req.TosID); err != nil {
		return s.fail(ctx, opCreate, err)
	}
	if strings.TrimSpace(req.Link) == "" {
		return s.fail(ctx, opCreate, dErrors.New(dErrors.CodeValidation, msgNoLink))
	}
	if err := validation.CheckStringLength("link", req.Link, validation.MaxLinkLength); err != nil {
		return s.fail(ctx, opCreate, err)
	}

	created, err := models.ParseCreationDate(req.CreationDate)
	if err != nil {
		return s.fail(ctx, opCreate, dErrors.New(dErrors.CodeValidation, msgInvalidDate))
	}
	if created.IsZero() {
		created = requestcontext.Now(ctx).UTC()
	}

	doc := &models.TermsDocument{
		TosID:        req.TosID,
		Link:         req.Link,
		CreationDate: created,
		NoticeType:   notices,
	}
	if err := s.store.Put(ctx, doc); err != nil {
		if errors.Is(err, sentinel.ErrInvalidInput) {
			return s.fail(ctx, opCreate, dErrors.Wrap(err, dErrors.CodeValidation, err.Error()))
		}
		return s.fail(ctx, opCreate, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save terms document"))
	}

	s.metrics.IncrementTermsCreated()
	s.emitAudit(ctx, audit.Event{
		Action:  audit.ActionTermsCreated,
		UserID:  caller.String(),
		TermsID: doc.TosID,
	})
	s.logger.InfoContext(ctx, "terms document published",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", caller.String(),
		"tos_id", doc.TosID,
	)
	return nil
}

// GetTerms returns the document named by req.TosID, or every document
// matching req.CustomFilter when no tosId is given.
func (s *Service) GetTerms(ctx context.Context, caller id.UserID, req *models.GetTermsRequest) (result *models.GetTermsResult, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanGetTerms)
	defer func() { span.End(err) }()

	if caller.IsNil() {
		return nil, s.fail(ctx, opGet, dErrors.New(dErrors.CodeUnauthorized, msgUnauthenticated))
	}
	if req == nil {
		req = &models.GetTermsRequest{}
	}

	if req.TosID != "" {
		span.SetAttributes(tracer.String(tracer.AttrTermsID, req.TosID))
		doc, err := s.store.Get(ctx, req.TosID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, s.fail(ctx, opGet, dErrors.New(dErrors.CodeNotFound, msgTermsNotFound))
			}
			return nil, s.fail(ctx, opGet, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read terms document"))
		}
		return &models.GetTermsResult{Document: doc}, nil
	}

	if err := validation.CheckSliceCount("filter keys", len(req.CustomFilter), validation.MaxFilterKeys); err != nil {
		return nil, s.fail(ctx, opGet, err)
	}
	span.SetAttributes(tracer.Int(tracer.AttrFilterKeys, len(req.CustomFilter)))

	docs, err := s.store.List(ctx, query.Predicate(req.CustomFilter))
	if err != nil {
		return nil, s.fail(ctx, opGet, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list terms documents"))
	}
	if docs == nil {
		docs = []*models.TermsDocument{}
	}
	span.SetAttributes(tracer.Int(tracer.AttrResultCount, len(docs)))
	return &models.GetTermsResult{Documents: docs}, nil
}

// AcceptTerms records that caller accepted req.TosID. Accepting a tosId with
// no published document is not an error: nothing is written and the outcome
// is OutcomeIgnored.
func (s *Service) AcceptTerms(ctx context.Context, caller id.UserID, req *models.AcceptTermsRequest) (result *models.AcceptResult, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanAcceptTerms,
		tracer.String(tracer.AttrUserHash, tracer.HashUserID(caller.String())),
	)
	defer func() { span.End(err) }()

	if caller.IsNil() {
		return nil, s.fail(ctx, opAccept, dErrors.New(dErrors.CodeUnauthorized, msgUnauthenticated))
	}
	if req == nil {
		req = &models.AcceptTermsRequest{}
	}
	if err := checkTosID(req.TosID); err != nil {
		return nil, s.fail(ctx, opAccept, err)
	}
	span.SetAttributes(tracer.String(tracer.AttrTermsID, req.TosID))

	var notices models.NoticeType
	if present(req.NoticeType) {
		parsed, ok := models.ParseNoticeType(req.NoticeType)
		if !ok {
			return nil, s.fail(ctx, opAccept, dErrors.New(dErrors.CodeValidation, msgInvalidNoticeType))
		}
		notices = parsed
	}

	doc, err := s.store.Get(ctx, req.TosID)
	if errors.Is(err, sentinel.ErrNotFound) {
		span.SetAttributes(tracer.String(tracer.AttrOutcome, string(models.OutcomeIgnored)))
		s.metrics.IncrementAcceptance(string(models.OutcomeIgnored))
		s.emitAudit(ctx, audit.Event{
			Action:  audit.ActionTermsAcceptIgnored,
			UserID:  caller.String(),
			TermsID: req.TosID,
			Reason:  "terms document does not exist",
		})
		s.logger.InfoContext(ctx, "acceptance of unknown terms ignored",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", caller.String(),
			"tos_id", req.TosID,
		)
		return &models.AcceptResult{Status: models.OutcomeIgnored}, nil
	}
	if err != nil {
		return nil, s.fail(ctx, opAccept, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read terms document"))
	}

	ack := models.Acknowledgement{
		TosID:          doc.TosID,
		CreationDate:   doc.CreationDate,
		AcceptanceDate: requestcontext.Now(ctx).UTC(),
		NoticeType:     notices,
	}
	if err := s.ledger.Upsert(ctx, caller, ack); err != nil {
		s.emitAudit(ctx, audit.Event{
			Action:  audit.ActionTermsAcceptFailed,
			UserID:  caller.String(),
			TermsID: req.TosID,
			Reason:  string(dErrors.CodeOf(err)),
		})
		return nil, s.fail(ctx, opAccept, err)
	}

	span.SetAttributes(tracer.String(tracer.AttrOutcome, string(models.OutcomeAccepted)))
	s.metrics.IncrementAcceptance(string(models.OutcomeAccepted))
	s.metrics.ObserveAcceptLatency(time.Since(start).Seconds())
	s.emitAudit(ctx, audit.Event{
		Action:  audit.ActionTermsAccepted,
		UserID:  caller.String(),
		TermsID: req.TosID,
	})
	return &models.AcceptResult{Status: models.OutcomeAccepted}, nil
}

// GetAcknowledgements returns caller's acknowledgements, narrowed to
// req.TosID when given.
func (s *Service) GetAcknowledgements(ctx context.Context, caller id.UserID, req *models.GetAcknowledgementsRequest) (set models.AcknowledgementSet, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanGetAcknowledgements,
		tracer.String(tracer.AttrUserHash, tracer.HashUserID(caller.String())),
	)
	defer func() { span.End(err) }()

	if caller.IsNil() {
		return nil, s.fail(ctx, opAcknowledgments, dErrors.New(dErrors.CodeUnauthorized, msgUnauthenticated))
	}

	set, err = s.ledger.Get(ctx, caller)
	if err != nil {
		return nil, s.fail(ctx, opAcknowledgments, err)
	}
	if set == nil {
		set = models.AcknowledgementSet{}
	}
	if req != nil && req.TosID != "" {
		set = set.Only(req.TosID)
	}
	span.SetAttributes(tracer.Int(tracer.AttrResultCount, len(set)))
	return set, nil
}

func checkTosID(tosID string) error {
	if strings.TrimSpace(tosID) == "" {
		return dErrors.New(dErrors.CodeValidation, msgNoTosID)
	}
	if err := validation.CheckStringLength("tosId", tosID, validation.MaxTermsIDLength); err != nil {
		return err
	}
	if strings.Contains(tosID, "/") {
		return dErrors.New(dErrors.CodeValidation, "tosId must not contain '/'")
	}
	return nil
}

// present reports whether an optional raw field was supplied with a non-null value.
func present(raw []byte) bool {
	t := strings.TrimSpace(string(raw))
	return t != "" && t != "null"
}

// fail records a failed operation and returns err unchanged. Client errors
// log at warn, everything else at error.
func (s *Service) fail(ctx context.Context, operation string, err error) error {
	code := dErrors.CodeOf(err)
	s.metrics.IncrementFailure(operation, string(code))

	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"operation", operation,
		"code", string(code),
		"error", err,
	}
	switch code {
	case dErrors.CodeInternal, dErrors.CodeUnavailable, dErrors.CodeTimeout:
		s.logger.ErrorContext(ctx, fmt.Sprintf("%s failed", operation), attrs...)
	default:
		s.logger.WarnContext(ctx, fmt.Sprintf("%s rejected", operation), attrs...)
	}
	return err
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"error", err,
			"action", event.Action,
			"user_id", event.UserID,
		)
	}
}
