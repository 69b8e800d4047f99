// Package titleblock locates the title block on a drawing page.
//
// Detected label fragments are grouped with scale-normalized single-linkage
// clustering, one cluster is chosen by a fixed tie-break ladder, and the
// winning cluster's box is expanded into a crop region for a focused
// re-extraction pass. Everything here is a pure function of its input.
package titleblock

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jackzampolin/sheetindex/internal/geometry"
)

// ErrMalformedHit is returned when a label hit cannot be clustered.
var ErrMalformedHit = errors.New("malformed label hit")

// LabelType classifies a detected label fragment.
type LabelType string

const (
	LabelNumber LabelType = "number"
	LabelTitle  LabelType = "title"
	LabelOther  LabelType = "other"
)

// ParseLabelType maps a detector tag to a LabelType.
// Unknown tags are treated as other.
func ParseLabelType(s string) LabelType {
	switch LabelType(strings.ToLower(strings.TrimSpace(s))) {
	case LabelNumber:
		return LabelNumber
	case LabelTitle:
		return LabelTitle
	default:
		return LabelOther
	}
}

// LabelHit is one detected text fragment on a page.
type LabelHit struct {
	BBox   geometry.PixelBox `json:"bbox"`
	Type   LabelType         `json:"label_type"`
	Weight float64           `json:"weight"`
	Text   string            `json:"text"`
}

// Center returns the center of the hit's bounding box.
func (h LabelHit) Center() geometry.Point {
	return h.BBox.Center()
}

// Validate reports whether the hit can be clustered.
func (h LabelHit) Validate() error {
	if err := h.BBox.Validate(); err != nil {
		return err
	}
	if h.Weight < 0 || math.IsNaN(h.Weight) || math.IsInf(h.Weight, 0) {
		return fmt.Errorf("invalid weight %g", h.Weight)
	}
	return nil
}

// LabelCluster is a group of nearby label hits that may form a title block.
type LabelCluster struct {
	Members        []LabelHit        `json:"members"`
	BBox           geometry.PixelBox `json:"bbox"`
	Score          float64           `json:"score"`
	HasNumberLabel bool              `json:"has_number_label"`
	HasTitleLabel  bool              `json:"has_title_label"`
	TightnessBonus float64           `json:"tightness_bonus"`
	WhySelected    string            `json:"why_selected,omitempty"`

	// index is the cluster's position in clustering output, used as the
	// final selection tie-break.
	index int
}

// HasBothLabels reports whether the cluster carries number and title labels.
func (c LabelCluster) HasBothLabels() bool {
	return c.HasNumberLabel && c.HasTitleLabel
}

// TotalWeight sums member weights.
func (c LabelCluster) TotalWeight() float64 {
	var total float64
	for _, m := range c.Members {
		total += m.Weight
	}
	return total
}

// newCluster builds a cluster from its members. The bbox, label flags,
// tightness and score are always derived from members here.
func newCluster(members []LabelHit, index int) LabelCluster {
	boxes := make([]geometry.PixelBox, len(members))
	c := LabelCluster{Members: members, index: index}
	for i, m := range members {
		boxes[i] = m.BBox
		switch m.Type {
		case LabelNumber:
			c.HasNumberLabel = true
		case LabelTitle:
			c.HasTitleLabel = true
		}
	}
	c.BBox = geometry.Union(boxes...)
	area := math.Max(c.BBox.Area(), 1)
	c.TightnessBonus = 1 / area

	both := 0.0
	if c.HasBothLabels() {
		both = 1
	}
	c.Score = BothLabelsBonus*both + c.TotalWeight() + TightnessFactor*c.TightnessBonus
	return c
}
