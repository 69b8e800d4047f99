// Package sheetid turns raw title-block strings into validated sheet
// identifiers.
//
// Candidates are normalized, stripped of label prefixes, and judged by fixed
// tables. Validators never fail: each returns a tagged result carrying either
// a canonical value and a rank, or a RejectionReason.
package sheetid

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// NumberPattern is one rung of the sheet-number ladder.
type NumberPattern struct {
	Name     string
	Priority int
	re       *regexp.Regexp
}

// Patterns run against the uppercased candidate in this order. The first
// match wins; the ladder is never re-sorted.
var numberLadder = []NumberPattern{
	{Name: "canonical", Priority: 3, re: regexp.MustCompile(`^([A-Z]{1,2})(\d{1,4})(?:\.(\d{1,3}))?$`)},
	{Name: "separated", Priority: 3, re: regexp.MustCompile(`^([A-Z]{1,2})[-. ](\d{1,4})(?:[.-](\d{1,3}))?$`)},
	{Name: "suffixed", Priority: 2, re: regexp.MustCompile(`^([A-Z]{1,2})[-. ]?(\d{1,4})([A-Z])$`)},
	{Name: "sectioned", Priority: 2, re: regexp.MustCompile(`^([A-Z]{1,2})[-. ]?(\d{1,2})[-.](\d{1,3})([A-Z]?)$`)},
	{Name: "loose", Priority: 1, re: regexp.MustCompile(`^([A-Z])[-. ]*(\d[\d.\- ]{0,7})$`)},
}

var numberSeparators = strings.NewReplacer("-", "", ".", "", " ", "")

// NumberLadder returns the ordered sheet-number patterns.
func NumberLadder() []NumberPattern {
	out := make([]NumberPattern, len(numberLadder))
	copy(out, numberLadder)
	return out
}

// Expr returns the pattern source.
func (p NumberPattern) Expr() string {
	return p.re.String()
}

// NumberResult is the outcome of validating one sheet-number candidate.
type NumberResult struct {
	Raw       string          `json:"raw"`
	Valid     bool            `json:"valid"`
	Value     string          `json:"value,omitempty"`
	Priority  int             `json:"priority,omitempty"`
	Pattern   string          `json:"pattern,omitempty"`
	HadPrefix bool            `json:"had_prefix"`
	Reason    RejectionReason `json:"rejection_reason,omitempty"`
}

func (r NumberResult) IsValid() bool { return r.Valid }

func (r NumberResult) Rank() int { return r.Priority }

// ValidateSheetNumber normalizes a candidate and matches it against the
// ladder. "A-101" yields A101 at priority 3.
func ValidateSheetNumber(candidate string) NumberResult {
	res := NumberResult{Raw: candidate}

	stripped, hadPrefix := StripNumberPrefix(candidate)
	res.HadPrefix = hadPrefix
	if utf8.RuneCountInString(stripped) < 2 {
		res.Reason = ReasonTooShort
		return res
	}

	upper := strings.ToUpper(stripped)
	for _, p := range numberLadder {
		m := p.re.FindStringSubmatch(upper)
		if m == nil {
			continue
		}
		res.Valid = true
		res.Value = numberSeparators.Replace(strings.Join(m[1:], ""))
		res.Priority = p.Priority
		res.Pattern = p.Name
		return res
	}

	res.Reason = ReasonInvalidNumberPattern
	return res
}
