package titleblock

import (
	"fmt"
	"math"
)

// SelectionKey names a rung of the selection ladder.
type SelectionKey string

const (
	KeyBothLabels SelectionKey = "both_labels"
	KeyScore      SelectionKey = "score"
	KeyArea       SelectionKey = "area"
	KeyPosition   SelectionKey = "position"
	KeyInputOrder SelectionKey = "input_order"
	KeyOnly       SelectionKey = "only_candidate"
)

// ladder order; later rungs only break ties on earlier ones.
var keyRank = map[SelectionKey]int{
	KeyOnly:       0,
	KeyBothLabels: 1,
	KeyScore:      2,
	KeyArea:       3,
	KeyPosition:   4,
	KeyInputOrder: 5,
}

// Compare orders two clusters by the selection ladder:
//
//  1. both number and title labels present (true first)
//  2. score (higher first)
//  3. bbox area (smaller first)
//  4. bbox center x+y (larger first, favoring the bottom-right corner)
//  5. clustering order (earlier first)
//
// It returns a negative value when a ranks ahead of b, positive when b ranks
// ahead, and the key that decided. Zero is only returned for a cluster
// compared with itself.
func Compare(a, b LabelCluster) (int, SelectionKey) {
	if a.HasBothLabels() != b.HasBothLabels() {
		if a.HasBothLabels() {
			return -1, KeyBothLabels
		}
		return 1, KeyBothLabels
	}
	if a.Score != b.Score {
		if a.Score > b.Score {
			return -1, KeyScore
		}
		return 1, KeyScore
	}
	if aa, ba := a.BBox.Area(), b.BBox.Area(); aa != ba {
		if aa < ba {
			return -1, KeyArea
		}
		return 1, KeyArea
	}
	ac, bc := a.BBox.Center(), b.BBox.Center()
	if as, bs := ac.X+ac.Y, bc.X+bc.Y; as != bs {
		if as > bs {
			return -1, KeyPosition
		}
		return 1, KeyPosition
	}
	switch {
	case a.index < b.index:
		return -1, KeyInputOrder
	case a.index > b.index:
		return 1, KeyInputOrder
	}
	return 0, KeyInputOrder
}

// Select picks the winning cluster and records why it won.
// It returns false when clusters is empty.
func Select(clusters []LabelCluster) (LabelCluster, bool) {
	if len(clusters) == 0 {
		return LabelCluster{}, false
	}

	best := 0
	for i := 1; i < len(clusters); i++ {
		if cmp, _ := Compare(clusters[i], clusters[best]); cmp < 0 {
			best = i
		}
	}

	winner := clusters[best]
	decided := KeyOnly
	for i, c := range clusters {
		if i == best {
			continue
		}
		if _, key := Compare(winner, c); keyRank[key] > keyRank[decided] {
			decided = key
		}
	}
	winner.WhySelected = describeSelection(winner, decided, len(clusters))
	return winner, true
}

func describeSelection(c LabelCluster, decided SelectionKey, candidates int) string {
	labels := "missing number or title label"
	if c.HasBothLabels() {
		labels = "has number+title labels"
	}
	center := c.BBox.Center()
	return fmt.Sprintf("%s; score %.2f; area %d; center sum %d; decided by %s of %d candidates",
		labels,
		c.Score,
		int64(math.Round(c.BBox.Area())),
		int64(math.Round(center.X+center.Y)),
		decided,
		candidates,
	)
}
