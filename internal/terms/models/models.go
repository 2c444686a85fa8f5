// Package models defines terms documents, acknowledgements and callable payloads.
package models

import (
	"encoding/json"
	"strings"
	"time"
)

// DocumentPathPrefix is the collection path terms documents live under.
const DocumentPathPrefix = "terms/agreements/tos/"

// DocumentPath returns the storage path of a terms document.
func DocumentPath(tosID string) string {
	return DocumentPathPrefix + tosID
}

// Notice is one role-tagged notice variant, e.g. {"role": "publisher"}.
// Its keys are open-ended.
type Notice map[string]any

// NoticeType is the ordered list of notice variants attached to a document.
// An empty list is valid; an absent one is not.
type NoticeType []Notice

// TermsDocument is a published version of the terms of service. It never
// carries an acceptance date; acceptance lives on the Acknowledgement.
type TermsDocument struct {
	TosID        string     `json:"tosId" validate:"required,notblank,max=128"`
	Link         string     `json:"link" validate:"required,notblank,max=2048"`
	CreationDate time.Time  `json:"creationDate" validate:"required"`
	NoticeType   NoticeType `json:"noticeType" validate:"required,max=50"`
}

// Path returns the document's storage path.
func (d *TermsDocument) Path() string {
	return DocumentPath(d.TosID)
}

// Acknowledgement records that a user accepted one terms document.
type Acknowledgement struct {
	TosID          string     `json:"tosId"`
	CreationDate   time.Time  `json:"creationDate"`
	AcceptanceDate time.Time  `json:"acceptanceDate"`
	NoticeType     NoticeType `json:"noticeType,omitempty"`
}

// AcknowledgementSet holds at most one acknowledgement per tosId.
type AcknowledgementSet map[string]Acknowledgement

// Only narrows the set to tosID; the result is empty when it is absent.
func (s AcknowledgementSet) Only(tosID string) AcknowledgementSet {
	out := AcknowledgementSet{}
	if ack, ok := s[tosID]; ok {
		out[tosID] = ack
	}
	return out
}

// AcceptOutcome distinguishes a recorded acceptance from one skipped
// because the referenced document does not exist.
type AcceptOutcome string

const (
	OutcomeAccepted AcceptOutcome = "accepted"
	OutcomeIgnored  AcceptOutcome = "ignored"
)

type AcceptResult struct {
	Status AcceptOutcome `json:"status"`
}

// ParseNoticeType accepts only a JSON array whose elements are objects.
// ok is false for absent, null or any other shape.
func ParseNoticeType(raw json.RawMessage) (NoticeType, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" || trimmed[0] != '[' {
		return nil, false
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, false
	}
	out := make(NoticeType, 0, len(elems))
	for _, elem := range elems {
		e := strings.TrimSpace(string(elem))
		if e == "" || e[0] != '{' {
			return nil, false
		}
		var n Notice
		if err := json.Unmarshal(elem, &n); err != nil {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

// GetTermsResult is either one document (lookup by tosId) or the filtered
// list. It encodes as the bare document or the bare array.
type GetTermsResult struct {
	Document  *TermsDocument
	Documents []*TermsDocument
}

func (r GetTermsResult) MarshalJSON() ([]byte, error) {
	if r.Document != nil {
		return json.Marshal(r.Document)
	}
	if r.Documents == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.Documents)
}
