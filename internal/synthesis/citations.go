// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"sort"
	"strings"

	"github.com/pdiddy/canvas-engine/pkg/types"
)

// Registry assigns stable, monotonically increasing citation numbers to
// distinct evidence sets. It is stateful only for the duration of one
// summarizer or responder run; each run constructs its own instance so
// citation numbers restart from 1 per output artifact.
type Registry struct {
	numbers map[string]int
	table   []types.Citation
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{numbers: make(map[string]int)}
}

// dedupe drops empty and repeated IDs, keeping first-seen order. The
// stored citation preserves this order so a merged line's evidence
// stays aligned with its merged segments.
func dedupe(blockIDs []string) []string {
	seen := make(map[string]bool, len(blockIDs))
	var ids []string
	for _, id := range blockIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// keyFor builds the order-insensitive lookup key: IDs deduplicated and
// sorted lexicographically.
func keyFor(ids []string) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}

// Ensure returns the citation number for the given evidence set,
// assigning the next number starting from 1 on first use. Identity is
// order-insensitive: the same set of IDs always receives the same
// number within one registry, so the table holds one entry per
// distinct evidence set, not per line.
func (r *Registry) Ensure(blockIDs []string) int {
	ids := dedupe(blockIDs)
	key := keyFor(ids)
	if n, ok := r.numbers[key]; ok {
		return n
	}
	n := len(r.table) + 1
	r.numbers[key] = n
	r.table = append(r.table, types.Citation{N: n, BlockIDs: ids})
	return n
}

// Table returns the citation entries in assignment order.
func (r *Registry) Table() []types.Citation {
	return r.table
}
