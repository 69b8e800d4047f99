package titleblock

import (
	"fmt"

	"github.com/jackzampolin/sheetindex/internal/geometry"
)

const (
	// EpsFactor scales the median label height into the join radius.
	EpsFactor = 2.5
	// MinEps and MaxEps bound the join radius in pixels.
	MinEps = 80.0
	MaxEps = 400.0

	// MinEligibleWeight admits clusters lacking a number+title pair.
	MinEligibleWeight = 6.0
	// BothLabelsBonus is added to the score of clusters with both label types.
	BothLabelsBonus = 10.0
	// TightnessFactor weights 1/area in the score.
	TightnessFactor = 3.0
)

// Eps returns the single-linkage join radius for a median label height.
func Eps(medianHeight float64) float64 {
	return geometry.Clamp(EpsFactor*medianHeight, MinEps, MaxEps)
}

// Cluster groups hits into candidate title-block clusters.
//
// Pairs are joined when their centers lie within Eps(median height) of each
// other. Pairs are visited in input order (i ascending, then j > i), groups
// are emitted in order of their first member, and members keep input order,
// so identical input always yields identical output.
//
// Fewer than two hits, or no eligible group, yields an empty slice.
// A malformed hit yields ErrMalformedHit.
func Cluster(hits []LabelHit) ([]LabelCluster, error) {
	if len(hits) < 2 {
		return []LabelCluster{}, nil
	}

	heights := make([]float64, len(hits))
	for i, h := range hits {
		if err := h.Validate(); err != nil {
			return nil, fmt.Errorf("%w: hit %d: %v", ErrMalformedHit, i, err)
		}
		heights[i] = h.BBox.H
	}
	eps := Eps(geometry.Median(heights))

	uf := newUnionFind(len(hits))
	for i := 0; i < len(hits); i++ {
		ci := hits[i].Center()
		for j := i + 1; j < len(hits); j++ {
			if geometry.Distance(ci, hits[j].Center()) <= eps {
				uf.union(i, j)
			}
		}
	}

	clusters := []LabelCluster{}
	for _, group := range uf.groups() {
		if len(group) < 2 {
			continue
		}
		members := make([]LabelHit, len(group))
		for k, idx := range group {
			members[k] = hits[idx]
		}
		c := newCluster(members, len(clusters))
		if !eligible(c) {
			continue
		}
		c.index = len(clusters)
		clusters = append(clusters, c)
	}
	return clusters, nil
}

func eligible(c LabelCluster) bool {
	return c.HasBothLabels() || c.TotalWeight() >= MinEligibleWeight
}
