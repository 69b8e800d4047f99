package sheetid

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minTitleLen     = 4
	maxTitleLen     = 120
	minTitleLetters = 4

	titleBaseScore     = 5
	noPrefixBonus      = 2
	notTruncatedBonus  = 2
	domainKeywordBonus = 3

	// MaxTitleScore is the best score a title can earn.
	MaxTitleScore = titleBaseScore + noPrefixBonus + notTruncatedBonus + domainKeywordBonus
)

// Scale annotations that OCR often lifts out of the title block.
var scaleJunkRe = regexp.MustCompile(`^(?:` +
	`NOT TO SCALE|NO SCALE|N\.?\s?T\.?\s?S\.?|AS (?:NOTED|SHOWN)|` +
	`SCALE\b.*|` +
	`\d+(?:/\d+)?\s*(?:"|'|IN|INCH)?\s*=\s*\d.*|` +
	`1\s*:\s*\d+` +
	`)$`)

// Issuance stamps and watermarks.
var stampJunkRe = regexp.MustCompile(`^(?:` +
	`ISSUED FOR\b.*|RELEASED FOR\b.*|` +
	`.*\bNOT FOR CONSTRUCTION\b.*|` +
	`PRELIMINARY|` +
	`FOR (?:REVIEW|PERMIT|CONSTRUCTION|BID|BIDDING|COORDINATION|INFORMATION)(?: ONLY)?|` +
	`(?:PERMIT|BID|CONSTRUCTION|REVIEW) SET|` +
	`DRAFT|VOID|SUPERSEDED|CONFIDENTIAL` +
	`)$`)

// Field labels that carry no title content on their own.
var bareLabels = map[string]struct{}{
	"SHEET": {}, "SHEET TITLE": {}, "SHEET NAME": {}, "SHEET NO": {}, "SHEET NUMBER": {},
	"TITLE": {}, "DRAWING": {}, "DRAWING TITLE": {}, "DRAWING NO": {}, "DRAWING NUMBER": {},
	"DWG": {}, "DWG TITLE": {}, "DWG NO": {}, "NUMBER": {}, "NAME": {},
	"PROJECT": {}, "PROJECT NAME": {}, "PROJECT NO": {}, "PROJECT NUMBER": {},
	"JOB NO": {}, "DATE": {}, "DRAWN BY": {}, "CHECKED BY": {}, "REVISION": {}, "REVISIONS": {},
}

// Trailing words that suggest the OCR text was cut off.
var danglingWords = map[string]struct{}{
	"AND": {}, "PROJECT": {}, "INFORMATION": {}, "THE": {}, "TO": {},
	"FOR": {}, "OF": {}, "IN": {}, "AT": {}, "WITH": {},
}

var domainKeywords = map[string]struct{}{
	"PLAN": {}, "FLOOR": {}, "ROOF": {}, "RCP": {}, "REFLECTED": {},
	"CEILING": {}, "SCHEDULE": {}, "DETAIL": {}, "SECTION": {}, "ELEVATION": {},
	"LEGEND": {}, "MECHANICAL": {}, "ELECTRICAL": {}, "PLUMBING": {}, "STRUCTURAL": {},
	"LEVEL": {}, "SITE": {}, "BASEMENT": {}, "GROUND": {}, "TYPICAL": {},
}

// TitleResult is the outcome of validating one sheet-title candidate.
type TitleResult struct {
	Raw                 string          `json:"raw"`
	Valid               bool            `json:"valid"`
	Value               string          `json:"value,omitempty"`
	Score               int             `json:"score,omitempty"`
	HadPrefix           bool            `json:"had_prefix"`
	TruncationSuspected bool            `json:"truncation_suspected,omitempty"`
	HasDomainKeyword    bool            `json:"has_domain_keyword,omitempty"`
	Reason              RejectionReason `json:"rejection_reason,omitempty"`
}

func (r TitleResult) IsValid() bool { return r.Valid }

func (r TitleResult) Rank() int { return r.Score }

// ValidateSheetTitle normalizes a candidate, strips a title label, and runs
// the rejection ladder. Surviving titles are scored; a stripped label only
// lowers the score.
func ValidateSheetTitle(candidate string) TitleResult {
	stripped, hadPrefix := StripTitlePrefix(candidate)
	res := TitleResult{Raw: candidate, Value: stripped, HadPrefix: hadPrefix}

	if reason, rejected := rejectTitle(stripped, hadPrefix); rejected {
		res.Reason = reason
		return res
	}

	words := strings.FieldsFunc(strings.ToUpper(stripped), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	res.Valid = true
	res.TruncationSuspected = len(words) > 0 && contains(danglingWords, words[len(words)-1])
	for _, w := range words {
		if contains(domainKeywords, w) {
			res.HasDomainKeyword = true
			break
		}
	}

	res.Score = titleBaseScore
	if !hadPrefix {
		res.Score += noPrefixBonus
	}
	if !res.TruncationSuspected {
		res.Score += notTruncatedBonus
	}
	if res.HasDomainKeyword {
		res.Score += domainKeywordBonus
	}
	return res
}

// rejectTitle applies the rejection checks in order; the first hit wins.
func rejectTitle(s string, hadPrefix bool) (RejectionReason, bool) {
	n := utf8.RuneCountInString(s)
	upper := strings.ToUpper(s)
	switch {
	case n == 0 && hadPrefix:
		return ReasonLabelPrefixOnly, true
	case n == 0:
		return ReasonTooShort, true
	case n < minTitleLen:
		return ReasonTooShort, true
	case n > maxTitleLen:
		return ReasonTooLong, true
	case scaleJunkRe.MatchString(upper):
		return ReasonScaleJunk, true
	case stampJunkRe.MatchString(upper):
		return ReasonStampJunk, true
	case isBareLabel(upper):
		return ReasonLabelPrefixOnly, true
	case countLetters(s) < minTitleLetters:
		return ReasonInsufficientLetters, true
	}
	return "", false
}

func isBareLabel(upper string) bool {
	trimmed := NormalizeCandidate(strings.TrimRight(upper, "#"))
	trimmed = strings.ReplaceAll(trimmed, ".", "")
	return contains(bareLabels, trimmed)
}

func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

func contains(set map[string]struct{}, w string) bool {
	_, ok := set[w]
	return ok
}
