// Package sample groups discovered object IDs by sub-period and draws an
// even sample across groups.
package sample

import "math/rand"

// Groups maps sub-period names to object IDs. Iteration follows first-seen
// insertion order of sub-periods.
type Groups struct {
	order   []string
	members map[string][]int
}

// NewGroups creates an empty group collection.
func NewGroups() *Groups {
	return &Groups{
		members: make(map[string][]int),
	}
}

// Add appends an object ID to a sub-period group, creating the group on
// first sight.
func (g *Groups) Add(subPeriod string, objectID int) {
	if _, ok := g.members[subPeriod]; !ok {
		g.order = append(g.order, subPeriod)
	}
	g.members[subPeriod] = append(g.members[subPeriod], objectID)
}

// Len returns the number of groups.
func (g *Groups) Len() int {
	return len(g.order)
}

// Total returns the number of grouped object IDs.
func (g *Groups) Total() int {
	n := 0
	for _, ids := range g.members {
		n += len(ids)
	}
	return n
}

// SubPeriods returns the sub-period names in insertion order.
func (g *Groups) SubPeriods() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Size returns the member count of one group.
func (g *Groups) Size(subPeriod string) int {
	return len(g.members[subPeriod])
}

// TargetPerGroup computes the even-distribution quota:
// max(1, min(smallest group size, maxImages/numGroups)), floor division.
// The quota deliberately caps at maxImages/numGroups and is not topped up
// from larger groups when small groups under-fill the global cap.
func (g *Groups) TargetPerGroup(maxImages int) int {
	if g.Len() == 0 {
		return 0
	}

	minCount := 0
	for i, name := range g.order {
		n := len(g.members[name])
		if i == 0 || n < minCount {
			minCount = n
		}
	}

	target := maxImages / g.Len()
	if minCount < target {
		target = minCount
	}
	if target < 1 {
		target = 1
	}
	return target
}

// Sample draws up to maxImages object IDs evenly across groups. Groups at
// or under the per-group target contribute all members; larger groups
// contribute a uniform random selection of exactly target members without
// replacement. Selections are concatenated in group insertion order and the
// combined list is truncated to maxImages.
func (g *Groups) Sample(maxImages int, rng *rand.Rand) []int {
	if g.Len() == 0 || maxImages <= 0 {
		return nil
	}

	target := g.TargetPerGroup(maxImages)

	var sampled []int
	for _, name := range g.order {
		ids := g.members[name]
		if len(ids) <= target {
			sampled = append(sampled, ids...)
			continue
		}
		for _, idx := range rng.Perm(len(ids))[:target] {
			sampled = append(sampled, ids[idx])
		}
	}

	if len(sampled) > maxImages {
		sampled = sampled[:maxImages]
	}
	return sampled
}
