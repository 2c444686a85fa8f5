package testutil

import (
	"time"

	"tosgate/internal/terms/models"
	id "tosgate/pkg/domain"
)

// TestIDs provides fixed caller ids for deterministic test data.
var TestIDs = struct {
	UserID1 id.UserID
	UserID2 id.UserID
}{
	UserID1: id.UserID("11111111-1111-1111-1111-111111111111"),
	UserID2: id.UserID("22222222-2222-2222-2222-222222222222"),
}

// FixedTime is the creation date fixtures carry unless overridden.
var FixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// TermsDocument builds a valid document. With no notices the noticeType is
// the empty (but present) list.
func TermsDocument(tosID string, notices ...models.Notice) *models.TermsDocument {
	if notices == nil {
		notices = []models.Notice{}
	}
	return &models.TermsDocument{
		TosID:        tosID,
		Link:         "www.link.to.terms",
		CreationDate: FixedTime,
		NoticeType:   notices,
	}
}

// Acknowledgement builds an acknowledgement of doc accepted at acceptedAt.
func Acknowledgement(doc *models.TermsDocument, acceptedAt time.Time) models.Acknowledgement {
	return models.Acknowledgement{
		TosID:          doc.TosID,
		CreationDate:   doc.CreationDate,
		AcceptanceDate: acceptedAt,
	}
}
