package sheetid

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownReason is returned when parsing a string outside the closed set.
var ErrUnknownReason = errors.New("unknown rejection reason")

// RejectionReason explains why a candidate or page produced no identifier.
type RejectionReason string

const (
	ReasonTooShort             RejectionReason = "too_short"
	ReasonTooLong              RejectionReason = "too_long"
	ReasonScaleJunk            RejectionReason = "scale_junk"
	ReasonStampJunk            RejectionReason = "stamp_junk"
	ReasonLabelPrefixOnly      RejectionReason = "label_prefix_only"
	ReasonInsufficientLetters  RejectionReason = "insufficient_letters"
	ReasonInvalidNumberPattern RejectionReason = "invalid_number_pattern"
	ReasonInternalError        RejectionReason = "internal_error"
)

var allReasons = []RejectionReason{
	ReasonTooShort,
	ReasonTooLong,
	ReasonScaleJunk,
	ReasonStampJunk,
	ReasonLabelPrefixOnly,
	ReasonInsufficientLetters,
	ReasonInvalidNumberPattern,
	ReasonInternalError,
}

// AllRejectionReasons returns every reason in declaration order.
func AllRejectionReasons() []RejectionReason {
	return slices.Clone(allReasons)
}

// ParseRejectionReason maps a string onto the closed set.
func ParseRejectionReason(s string) (RejectionReason, error) {
	r := RejectionReason(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownReason, s)
	}
	return r, nil
}

// Valid reports whether r is a member of the closed set.
func (r RejectionReason) Valid() bool {
	return slices.Contains(allReasons, r)
}

func (r RejectionReason) String() string {
	return string(r)
}
