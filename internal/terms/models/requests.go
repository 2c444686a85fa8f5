package models

import "encoding/json"

// noticeType and creationDate stay raw so their shape can be checked
// in the service's validation order rather than failing the decode.

type CreateTermsRequest struct {
	TosID        string          `json:"tosId"`
	Link         string          `json:"link"`
	NoticeType   json.RawMessage `json:"noticeType"`
	CreationDate json.RawMessage `json:"creationDate,omitempty"`
}

type GetTermsRequest struct {
	TosID        string         `json:"tosId,omitempty"`
	CustomFilter map[string]any `json:"custom_filter,omitempty"`
}

type AcceptTermsRequest struct {
	TosID      string          `json:"tosId"`
	NoticeType json.RawMessage `json:"noticeType,omitempty"`
}

type GetAcknowledgementsRequest struct {
	TosID string `json:"tosId,omitempty"`
}
