package sheetid

import (
	"strings"
	"testing"
)

func TestValidateSheetTitle_Rejections(t *testing.T) {
	tests := []struct {
		in   string
		want RejectionReason
	}{
		{"", ReasonTooShort},
		{" : ", ReasonTooShort},
		{"TITLE", ReasonLabelPrefixOnly},
		{"TITLE:", ReasonLabelPrefixOnly},
		{"TITLE: SHEET", ReasonLabelPrefixOnly},
		{"SHEET TITLE:", ReasonLabelPrefixOnly},
		{"ABC", ReasonTooShort},
		{"SHEET TITLE: ABC", ReasonTooShort},
		{strings.Repeat("FLOOR PLAN ", 12), ReasonTooLong},
		{"NOT TO SCALE", ReasonScaleJunk},
		{"SCALE: 1/4\" = 1'-0\"", ReasonScaleJunk},
		{"1/8\" = 1'-0\"", ReasonScaleJunk},
		{"AS NOTED", ReasonScaleJunk},
		{"ISSUED FOR REVIEW", ReasonStampJunk},
		{"NOT FOR CONSTRUCTION", ReasonStampJunk},
		{"PRELIMINARY", ReasonStampJunk},
		{"FOR PERMIT ONLY", ReasonStampJunk},
		{"SHEET:", ReasonLabelPrefixOnly},
		{"PROJECT NO.", ReasonLabelPrefixOnly},
		{"DRAWN BY", ReasonLabelPrefixOnly},
		{"A-101", ReasonInsufficientLetters},
		{"12 / 34 - 5", ReasonInsufficientLetters},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ValidateSheetTitle(tt.in)
			if got.Valid {
				t.Fatalf("expected rejection, got %+v", got)
			}
			if got.Reason != tt.want {
				t.Errorf("reason = %q, want %q", got.Reason, tt.want)
			}
			if got.Score != 0 {
				t.Errorf("rejected title scored %d", got.Score)
			}
		})
	}
}

func TestValidateSheetTitle_Scoring(t *testing.T) {
	tests := []struct {
		in            string
		wantValue     string
		wantScore     int
		wantPrefix    bool
		wantTruncated bool
		wantKeyword   bool
	}{
		{
			in:          "SHEET TITLE: FIRST FLOOR PLAN",
			wantValue:   "FIRST FLOOR PLAN",
			wantScore:   5 + 2 + 3,
			wantPrefix:  true,
			wantKeyword: true,
		},
		{
			in:          "FIRST FLOOR PLAN",
			wantValue:   "FIRST FLOOR PLAN",
			wantScore:   MaxTitleScore,
			wantKeyword: true,
		},
		{
			in:        "COVER SHEET",
			wantValue: "COVER SHEET",
			wantScore: 5 + 2 + 2,
		},
		{
			in:            "GENERAL NOTES AND",
			wantValue:     "GENERAL NOTES AND",
			wantScore:     5 + 2,
			wantTruncated: true,
		},
		{
			in:            "DWG TITLE: ENLARGED PLANS OF THE",
			wantValue:     "ENLARGED PLANS OF THE",
			wantScore:     5,
			wantPrefix:    true,
			wantTruncated: true,
		},
		{
			in:          "reflected ceiling plan - level 2",
			wantValue:   "reflected ceiling plan - level 2",
			wantScore:   MaxTitleScore,
			wantKeyword: true,
		},
		{
			in:        "TITLE SHEET",
			wantValue: "TITLE SHEET",
			wantScore: 5 + 2 + 2,
		},
		{
			in:        "TITLE 24 ENERGY COMPLIANCE",
			wantValue: "TITLE 24 ENERGY COMPLIANCE",
			wantScore: 5 + 2 + 2,
		},
		{
			in:          "TITLE: GROUND FLOOR PLAN",
			wantValue:   "GROUND FLOOR PLAN",
			wantScore:   5 + 2 + 3,
			wantPrefix:  true,
			wantKeyword: true,
		},
		{
			in:        "SITEWORK NOTES",
			wantValue: "SITEWORK NOTES",
			wantScore: 5 + 2 + 2,
		},
		{
			in:        "FLOOR PLAN SCALE",
			wantValue: "FLOOR PLAN SCALE",
			// scale junk only matches at the start
			wantScore:   MaxTitleScore,
			wantKeyword: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ValidateSheetTitle(tt.in)
			if !got.Valid {
				t.Fatalf("expected valid title, got %+v", got)
			}
			if got.Value != tt.wantValue {
				t.Errorf("value = %q, want %q", got.Value, tt.wantValue)
			}
			if got.Score != tt.wantScore {
				t.Errorf("score = %d, want %d", got.Score, tt.wantScore)
			}
			if got.HadPrefix != tt.wantPrefix {
				t.Errorf("had prefix = %v, want %v", got.HadPrefix, tt.wantPrefix)
			}
			if got.TruncationSuspected != tt.wantTruncated {
				t.Errorf("truncation = %v, want %v", got.TruncationSuspected, tt.wantTruncated)
			}
			if got.HasDomainKeyword != tt.wantKeyword {
				t.Errorf("keyword = %v, want %v", got.HasDomainKeyword, tt.wantKeyword)
			}
		})
	}
}

func TestValidateSheetTitle_LengthBoundaries(t *testing.T) {
	if got := ValidateSheetTitle("ROOF"); !got.Valid {
		t.Errorf("four letter title rejected: %+v", got)
	}
	exact := strings.Repeat("A", 120)
	if got := ValidateSheetTitle(exact); !got.Valid {
		t.Errorf("120 rune title rejected: %+v", got)
	}
	if got := ValidateSheetTitle(exact + "B"); got.Reason != ReasonTooLong {
		t.Errorf("121 rune title reason = %q", got.Reason)
	}
	// length is counted in runes, not bytes
	if got := ValidateSheetTitle("ÉTÉS"); !got.Valid {
		t.Errorf("multibyte four rune title rejected: %+v", got)
	}
}
