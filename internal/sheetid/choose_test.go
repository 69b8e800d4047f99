package sheetid

import (
	"errors"
	"testing"
)

type scored struct {
	name  string
	score int
	valid bool
}

func (s scored) IsValid() bool { return s.valid }
func (s scored) Rank() int     { return s.score }

func TestChooseBest(t *testing.T) {
	tests := []struct {
		name     string
		cands    []scored
		wantName string
		wantIdx  int
		wantOK   bool
	}{
		{
			name:   "empty",
			wantOK: false,
		},
		{
			name:   "none valid",
			cands:  []scored{{"a", 9, false}, {"b", 3, false}},
			wantOK: false,
		},
		{
			name:     "highest valid score",
			cands:    []scored{{"five", 5, true}, {"eight", 8, true}, {"three", 3, false}},
			wantName: "eight",
			wantIdx:  1,
			wantOK:   true,
		},
		{
			name:     "invalid never wins on score",
			cands:    []scored{{"junk", 99, false}, {"real", 1, true}},
			wantName: "real",
			wantIdx:  1,
			wantOK:   true,
		},
		{
			name:     "ties go to the earliest",
			cands:    []scored{{"bad", 7, false}, {"first", 7, true}, {"second", 7, true}},
			wantName: "first",
			wantIdx:  1,
			wantOK:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, idx, ok := ChooseBest(tt.cands)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				if idx != -1 {
					t.Errorf("index = %d for no choice", idx)
				}
				return
			}
			if got.name != tt.wantName || idx != tt.wantIdx {
				t.Errorf("got %s at %d, want %s at %d", got.name, idx, tt.wantName, tt.wantIdx)
			}
		})
	}
}

func TestChooseBest_Results(t *testing.T) {
	numbers := ValidateNumbers([]string{"FLOOR PLAN", "A 1 0 1", "A-101", "A101"})
	best, idx, ok := ChooseBest(numbers)
	if !ok {
		t.Fatal("expected a number")
	}
	if idx != 2 || best.Value != "A101" || best.Priority != 3 {
		t.Errorf("unexpected number choice %d: %+v", idx, best)
	}

	titles := ValidateTitles([]string{"NOT TO SCALE", "SHEET TITLE: ROOF PLAN", "ROOF PLAN"})
	bestTitle, idx, ok := ChooseBest(titles)
	if !ok {
		t.Fatal("expected a title")
	}
	if idx != 2 || bestTitle.Score != MaxTitleScore {
		t.Errorf("unexpected title choice %d: %+v", idx, bestTitle)
	}
}

func TestInferDiscipline(t *testing.T) {
	tests := []struct {
		id   string
		want Discipline
	}{
		{"A101", Architectural},
		{"S201", Structural},
		{"M1", Mechanical},
		{"P301", Plumbing},
		{"E101", Electrical},
		{"F1", FireProtection},
		{"FP101", FireProtection},
		{"C100", Civil},
		{"L1", Landscape},
		{"I201", Interior},
		{"ID201", Interior},
		{"G001", General},
		{"T101", Telecommunications},
		{"D101", Demo},
		{"DM101", Demo},
		{"X1", ExistingConditions},
		{"EX101", Electrical},
		{"AD101", Architectural},
		{"a101", Architectural},
		{"Q101", Unknown},
		{"9", Unknown},
		{"", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := InferDiscipline(tt.id); got != tt.want {
				t.Errorf("InferDiscipline(%q) = %s, want %s", tt.id, got, tt.want)
			}
		})
	}
}

func TestRejectionReasons(t *testing.T) {
	all := AllRejectionReasons()
	if len(all) != 8 {
		t.Fatalf("expected 8 reasons, got %d", len(all))
	}
	for _, r := range all {
		parsed, err := ParseRejectionReason(" " + r.String() + " ")
		if err != nil || parsed != r {
			t.Errorf("ParseRejectionReason(%q) = %q, %v", r, parsed, err)
		}
	}
	if _, err := ParseRejectionReason("no_title_block"); !errors.Is(err, ErrUnknownReason) {
		t.Errorf("expected ErrUnknownReason, got %v", err)
	}

	all[0] = "mutated"
	if AllRejectionReasons()[0] != ReasonTooShort {
		t.Error("AllRejectionReasons exposed internal state")
	}
}
