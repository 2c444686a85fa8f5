package validation

import (
	"fmt"

	dErrors "tosgate/pkg/domain-errors"
)

const (
	// MaxBodySize caps callable request bodies (64 KB).
	MaxBodySize = 64 * 1024

	// MaxTermsIDLength caps a tosId; it becomes a claims key and a document path segment.
	MaxTermsIDLength = 128

	// MaxLinkLength caps the terms link.
	MaxLinkLength = 2048

	// MaxNoticeEntries caps the noticeType sequence.
	MaxNoticeEntries = 50

	// MaxFilterKeys caps custom_filter predicates.
	MaxFilterKeys = 20
)

// CheckSliceCount validates that a slice does not exceed the maximum count.
func CheckSliceCount(fieldName string, count, max int) error {
	if count > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("too many %s: max %d allowed", fieldName, max))
	}
	return nil
}

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}
