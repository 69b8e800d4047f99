package identify

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/jackzampolin/sheetindex/internal/geometry"
	"github.com/jackzampolin/sheetindex/internal/sheetid"
	"github.com/jackzampolin/sheetindex/internal/titleblock"
)

const (
	numberWeight = 0.6
	titleWeight  = 0.4
	maxPriority  = 3
)

// evidenceNamespace scopes evidence refs so the same page region always
// maps to the same ref.
var evidenceNamespace = uuid.MustParse("6f1c2a7e-4b8d-5e3f-9a0c-1d2e3f4a5b6c")

// Resolve validates raw number and title candidates and builds the page's
// entry. Candidates are in precedence order; ties go to the earlier one.
// A page with a valid number but no valid title still yields an entry.
func Resolve(pageNum int, numberTexts, titleTexts []string) Outcome {
	out := Outcome{PageNum: pageNum, Stage: StageRawCandidates}

	if len(numberTexts) == 0 {
		out.Status = StatusNoCandidates
		if len(titleTexts) == 0 {
			out.Detail = "no number or title candidates"
		} else {
			out.Detail = fmt.Sprintf("no number candidates (%d title candidates)", len(titleTexts))
		}
		return out
	}

	numbers := sheetid.ValidateNumbers(numberTexts)
	titles := sheetid.ValidateTitles(titleTexts)
	out.Stage = StageValidated

	number, _, ok := sheetid.ChooseBest(numbers)
	if !ok {
		out.Status = StatusRejected
		out.Reason = numbers[0].Reason
		out.Detail = fmt.Sprintf("no valid sheet number among %d candidates; first %q rejected as %s",
			len(numbers), numbers[0].Raw, numbers[0].Reason)
		if len(titles) > 0 {
			out.TitleReason = titles[0].Reason
		}
		return out
	}
	out.Number = &number

	entry := &SheetIndexEntry{
		SheetID:    number.Value,
		Discipline: sheetid.InferDiscipline(number.Value),
	}

	titleScore := 0
	if title, _, ok := sheetid.ChooseBest(titles); ok {
		out.Title = &title
		value := title.Value
		entry.SheetTitle = &value
		titleScore = title.Score
	} else if len(titles) > 0 {
		out.TitleReason = titles[0].Reason
	}

	entry.Confidence = Confidence(number.Priority, titleScore)
	out.Entry = entry
	out.Status = StatusIdentified
	out.Stage = StageChosen
	return out
}

// Confidence combines the number priority and the title score into [0,1],
// rounded to two decimals.
func Confidence(priority, titleScore int) float64 {
	c := numberWeight*float64(priority)/maxPriority +
		titleWeight*float64(titleScore)/sheetid.MaxTitleScore
	c = geometry.Clamp(c, 0, 1)
	return math.Round(c*100) / 100
}

// EvidenceRef returns a stable reference to the crop region a page's entry
// was read from.
func EvidenceRef(documentID string, pageNum int, region geometry.PixelBox) string {
	key := fmt.Sprintf("%s|%d|%.0f,%.0f,%.0f,%.0f", documentID, pageNum, region.X, region.Y, region.W, region.H)
	return uuid.NewSHA1(evidenceNamespace, []byte(key)).String()
}

// MemberCandidates returns the text of a cluster's number- and title-typed
// members in member order, for use as fallback candidates.
func MemberCandidates(c titleblock.LabelCluster) (numbers, titles []string) {
	for _, m := range c.Members {
		if m.Text == "" {
			continue
		}
		switch m.Type {
		case titleblock.LabelNumber:
			numbers = append(numbers, m.Text)
		case titleblock.LabelTitle:
			titles = append(titles, m.Text)
		}
	}
	return numbers, titles
}
