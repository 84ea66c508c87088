package core

import (
	"sort"

	"github.com/codeyear/codeyear/schema"
)

// orderedCounter counts keys while remembering first-seen insertion order so
// ranking ties break reproducibly regardless of map iteration.
type orderedCounter struct {
	counts map[string]int
	order  []string
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{counts: make(map[string]int)}
}

func (oc *orderedCounter) add(key string, n int) {
	if _, seen := oc.counts[key]; !seen {
		oc.order = append(oc.order, key)
	}
	oc.counts[key] += n
}

// top returns the limit highest-count entries, descending. Ties keep
// first-seen order (stable sort over the insertion order).
func (oc *orderedCounter) top(limit int) []schema.KeyCount {
	ranked := make([]schema.KeyCount, 0, len(oc.order))
	for _, key := range oc.order {
		ranked = append(ranked, schema.KeyCount{Key: key, Count: oc.counts[key]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// mergeCounts folds already-truncated per-repository top-N lists into one
// counter, preserving the order in which keys first appear across the
// ordered repository collection.
func mergeCounts(lists ...[]schema.KeyCount) *orderedCounter {
	oc := newOrderedCounter()
	for _, list := range lists {
		for _, kc := range list {
			oc.add(kc.Key, kc.Count)
		}
	}
	return oc
}
