package sheetid

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// edgePunct is trimmed from both ends of every candidate.
const edgePunct = ":-.,;"

// title label phrases, longest first so the most specific phrase wins.
var titlePrefixes = []string{
	"TITLE OF SHEET",
	"DRAWING TITLE",
	"SHEET TITLE",
	"DWG. TITLE",
	"DWG TITLE",
}

// bareTitleLabel counts as a label only when punctuation or nothing follows
// it, so "TITLE SHEET" keeps its first word.
const bareTitleLabel = "TITLE"

var numberPrefixes = []string{
	"DRAWING NUMBER",
	"SHEET NUMBER",
	"DRAWING NO.",
	"DWG NUMBER",
	"DRAWING NO",
	"SHEET NO.",
	"SHEET NO",
	"SHEET #",
	"DWG NO.",
	"DWG NO",
	"DWG #",
	"SHEET",
	"NO.",
	"#",
}

// NormalizeCandidate collapses whitespace runs to one space, trims, and
// strips edge punctuation. The result is a fixed point: normalizing it again
// returns it unchanged.
func NormalizeCandidate(raw string) string {
	s := strings.Join(strings.Fields(raw), " ")
	for {
		t := strings.TrimSpace(strings.Trim(s, edgePunct))
		if t == s {
			return s
		}
		s = t
	}
}

// StripTitlePrefix removes one leading title label such as "SHEET TITLE:".
// It reports whether a label was found.
func StripTitlePrefix(s string) (string, bool) {
	if rest, ok := stripPrefix(s, titlePrefixes); ok {
		return rest, true
	}
	s = NormalizeCandidate(s)
	n := len(bareTitleLabel)
	if len(s) < n || !strings.EqualFold(s[:n], bareTitleLabel) {
		return s, false
	}
	rest := strings.TrimLeft(s[n:], " ")
	if rest != "" && !strings.ContainsRune(edgePunct, rune(rest[0])) {
		return s, false
	}
	return NormalizeCandidate(rest), true
}

// StripNumberPrefix removes one leading number label such as "DWG NO.".
// It reports whether a label was found.
func StripNumberPrefix(s string) (string, bool) {
	return stripPrefix(s, numberPrefixes)
}

func stripPrefix(s string, phrases []string) (string, bool) {
	s = NormalizeCandidate(s)
	for _, p := range phrases {
		if len(s) < len(p) || !strings.EqualFold(s[:len(p)], p) {
			continue
		}
		if !endsAtBoundary(s, p) {
			continue
		}
		return NormalizeCandidate(s[len(p):]), true
	}
	return s, false
}

// endsAtBoundary rejects matches that stop mid-word, so "SHEET" does not
// strip the front of "SHEETS".
func endsAtBoundary(s, phrase string) bool {
	last, _ := utf8.DecodeLastRuneInString(phrase)
	if !isWordRune(last) {
		return true
	}
	next, _ := utf8.DecodeRuneInString(s[len(phrase):])
	return next == utf8.RuneError || !isWordRune(next)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
