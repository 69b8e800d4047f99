package sheetid

import "strings"

// Discipline is the trade a sheet belongs to.
type Discipline string

const (
	Architectural      Discipline = "Architectural"
	Structural         Discipline = "Structural"
	Mechanical         Discipline = "Mechanical"
	Plumbing           Discipline = "Plumbing"
	Electrical         Discipline = "Electrical"
	FireProtection     Discipline = "Fire Protection"
	Civil              Discipline = "Civil"
	Landscape          Discipline = "Landscape"
	Interior           Discipline = "Interior"
	General            Discipline = "General"
	Telecommunications Discipline = "Telecommunications"
	Demo               Discipline = "Demo"
	ExistingConditions Discipline = "Existing Conditions"
	Unknown            Discipline = "Unknown"
)

var disciplines = map[byte]Discipline{
	'A': Architectural,
	'S': Structural,
	'M': Mechanical,
	'P': Plumbing,
	'E': Electrical,
	'F': FireProtection,
	'C': Civil,
	'L': Landscape,
	'I': Interior,
	'G': General,
	'T': Telecommunications,
	'D': Demo,
	'X': ExistingConditions,
}

// InferDiscipline looks up the discipline from a sheet id's first letter.
// Two-letter designators such as FP or AD resolve through their first
// letter, so EX101 is Electrical.
func InferDiscipline(sheetID string) Discipline {
	id := strings.ToUpper(strings.TrimSpace(sheetID))
	if id == "" {
		return Unknown
	}
	if d, ok := disciplines[id[0]]; ok {
		return d
	}
	return Unknown
}

func (d Discipline) String() string {
	return string(d)
}
