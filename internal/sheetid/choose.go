package sheetid

// Ranked is a validated candidate that can compete with others.
type Ranked interface {
	IsValid() bool
	Rank() int
}

// ChooseBest returns the valid candidate with the highest rank and its index.
// Ties go to the earliest candidate. It returns false when none is valid.
func ChooseBest[C Ranked](cands []C) (C, int, bool) {
	var best C
	bestIdx := -1
	for i, c := range cands {
		if !c.IsValid() {
			continue
		}
		if bestIdx < 0 || c.Rank() > best.Rank() {
			best, bestIdx = c, i
		}
	}
	return best, bestIdx, bestIdx >= 0
}

// ValidateNumbers validates each candidate in order.
func ValidateNumbers(candidates []string) []NumberResult {
	out := make([]NumberResult, len(candidates))
	for i, c := range candidates {
		out[i] = ValidateSheetNumber(c)
	}
	return out
}

// ValidateTitles validates each candidate in order.
func ValidateTitles(candidates []string) []TitleResult {
	out := make([]TitleResult, len(candidates))
	for i, c := range candidates {
		out[i] = ValidateSheetTitle(c)
	}
	return out
}
