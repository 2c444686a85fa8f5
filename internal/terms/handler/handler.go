// Package handler exposes the terms operations as callable functions:
// POST /functions/{operation} with {"data": ...} answered by {"result": ...}.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"tosgate/internal/terms/models"
	id "tosgate/pkg/domain"
	dErrors "tosgate/pkg/domain-errors"
	"tosgate/pkg/platform/httputil"
	"tosgate/pkg/requestcontext"
	s "tosgate/pkg/string"
)

// Service defines the terms operations the handler dispatches to.
type Service interface {
	CreateTerms(ctx context.Context, caller id.UserID, req *models.CreateTermsRequest) error
	GetTerms(ctx context.Context, caller id.UserID, req *models.GetTermsRequest) (*models.GetTermsResult, error)
	AcceptTerms(ctx context.Context, caller id.UserID, req *models.AcceptTermsRequest) (*models.AcceptResult, error)
	GetAcknowledgements(ctx context.Context, caller id.UserID, req *models.GetAcknowledgementsRequest) (models.AcknowledgementSet, error)
}

// Callable operation names.
const (
	OpCreateTerms         = "createTerms"
	OpGetTerms            = "getTerms"
	OpAcceptTerms         = "acceptTerms"
	OpGetAcknowledgements = "getAcknowledgements"
)

type callRequest struct {
	Data json.RawMessage `json:"data"`
}

type callResponse struct {
	Result any `json:"result"`
}

type operation func(ctx context.Context, caller id.UserID, data json.RawMessage) (any, error)

type Handler struct {
	logger     *slog.Logger
	terms      Service
	operations map[string]operation
}

func New(terms Service, logger *slog.Logger) *Handler {
	h := &Handler{
		logger: logger,
		terms:  terms,
	}
	h.operations = map[string]operation{
		OpCreateTerms:         h.createTerms,
		OpGetTerms:            h.getTerms,
		OpAcceptTerms:         h.acceptTerms,
		OpGetAcknowledgements: h.getAcknowledgements,
	}
	return h
}

// Register registers the callable route with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/functions/{operation}", h.HandleCall)
}

func (h *Handler) HandleCall(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	name := chi.URLParam(r, "operation")

	op, ok := h.operations[name]
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("unknown operation %q", name)))
		return
	}

	call, ok := httputil.DecodeJSON[callRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	caller := requestcontext.UserID(ctx)
	data := call.Data
	if caller.IsNil() {
		// The service rejects anonymous callers before it looks at any field.
		data = nil
	}

	result, err := op(ctx, caller, data)
	if err != nil {
		h.logger.WarnContext(ctx, "callable operation failed",
			"request_id", requestID,
			"operation", name,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, callResponse{Result: result})
}

func (h *Handler) createTerms(ctx context.Context, caller id.UserID, data json.RawMessage) (any, error) {
	req, err := decodeData[models.CreateTermsRequest](data)
	if err != nil {
		return nil, err
	}
	s.TrimStrings(&req.TosID, &req.Link)
	return nil, h.terms.CreateTerms(ctx, caller, req)
}

func (h *Handler) getTerms(ctx context.Context, caller id.UserID, data json.RawMessage) (any, error) {
	req, err := decodeData[models.GetTermsRequest](data)
	if err != nil {
		return nil, err
	}
	s.TrimStrings(&req.TosID)
	return h.terms.GetTerms(ctx, caller, req)
}

func (h *Handler) acceptTerms(ctx context.Context, caller id.UserID, data json.RawMessage) (any, error) {
	req, err := decodeData[models.AcceptTermsRequest](data)
	if err != nil {
		return nil, err
	}
	s.TrimStrings(&req.TosID)
	return h.terms.AcceptTerms(ctx, caller, req)
}

func (h *Handler) getAcknowledgements(ctx context.Context, caller id.UserID, data json.RawMessage) (any, error) {
	req, err := decodeData[models.GetAcknowledgementsRequest](data)
	if err != nil {
		return nil, err
	}
	s.TrimStrings(&req.TosID)
	return h.terms.GetAcknowledgements(ctx, caller, req)
}

// decodeData reads the callable payload. Absent or null data is an empty request.
func decodeData[T any](data json.RawMessage) (*T, error) {
	var req T
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return &req, nil
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request data")
	}
	return &req, nil
}
