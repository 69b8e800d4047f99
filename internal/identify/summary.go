package identify

import "slices"

// Summary counts page outcomes for a document.
type Summary struct {
	Pages      int            `json:"pages"`
	Identified int            `json:"identified"`
	ByStatus   map[Status]int `json:"by_status"`

	// Duplicates lists sheet ids claimed by more than one page, sorted.
	Duplicates []string `json:"duplicates,omitempty"`
}

// Summarize counts outcomes by status and flags repeated sheet ids.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Pages: len(outcomes), ByStatus: make(map[Status]int)}
	seen := make(map[string]int)
	for _, o := range outcomes {
		s.ByStatus[o.Status]++
		if !o.Identified() {
			continue
		}
		s.Identified++
		seen[o.Entry.SheetID]++
	}
	for id, n := range seen {
		if n > 1 {
			s.Duplicates = append(s.Duplicates, id)
		}
	}
	slices.Sort(s.Duplicates)
	return s
}
