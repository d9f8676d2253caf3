package index

import (
	"sort"

	"github.com/toyz/mirror/internal/models"
)

type key struct {
	relation Relation
	name     string
}

// Index answers forward ("what does S publish") and inverse ("who publishes
// E") queries. Both directions are filled from the same edge list, so for
// every relation R: T in Targets(R, S) <=> S in Sources(R, T).
//
// An Index is immutable after New and safe for concurrent readers.
type Index struct {
	forward map[key][]string
	inverse map[key][]string
	kinds   map[string]models.Kind
	edges   []Edge
}

// New builds an index from an edge list. kinds maps every type name to its
// variant kind and drives the kind-filtered views.
func New(edges []Edge, kinds map[string]models.Kind) *Index {
	ix := &Index{
		forward: make(map[key][]string),
		inverse: make(map[key][]string),
		kinds:   make(map[string]models.Kind, len(kinds)),
		edges:   sortEdges(edges),
	}
	for name, k := range kinds {
		ix.kinds[name] = k
	}

	fwdSeen := make(map[key]map[string]struct{})
	invSeen := make(map[key]map[string]struct{})
	for _, e := range ix.edges {
		appendUnique(ix.forward, fwdSeen, key{e.Relation, e.Source}, e.Target)
		appendUnique(ix.inverse, invSeen, key{e.Relation, e.Target}, e.Source)
	}
	for k := range ix.forward {
		sort.Strings(ix.forward[k])
	}
	for k := range ix.inverse {
		sort.Strings(ix.inverse[k])
	}
	return ix
}

func appendUnique(dst map[key][]string, seen map[key]map[string]struct{}, k key, name string) {
	set, ok := seen[k]
	if !ok {
		set = make(map[string]struct{})
		seen[k] = set
	}
	if _, dup := set[name]; dup {
		return
	}
	set[name] = struct{}{}
	dst[k] = append(dst[k], name)
}

func sortEdges(edges []Edge) []Edge {
	out := make([]Edge, 0, len(edges))
	seen := make(map[Edge]struct{}, len(edges))
	for _, e := range edges {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Relation != b.Relation {
			return a.Relation < b.Relation
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Member < b.Member
	})
	return out
}

// Targets returns the sorted type names source points at through relation
func (ix *Index) Targets(relation Relation, source string) []string {
	return clone(ix.forward[key{relation, source}])
}

// Sources returns the sorted type names pointing at target through relation,
// restricted to the given kinds. No kinds means no restriction.
func (ix *Index) Sources(relation Relation, target string, kinds ...models.Kind) []string {
	return ix.filter(ix.inverse[key{relation, target}], kinds)
}

// Related reports whether source points at target through relation
func (ix *Index) Related(relation Relation, source, target string) bool {
	for _, t := range ix.forward[key{relation, source}] {
		if t == target {
			return true
		}
	}
	return false
}

// Edges returns every edge, sorted and deduplicated
func (ix *Index) Edges() []Edge {
	out := make([]Edge, len(ix.edges))
	copy(out, ix.edges)
	return out
}

// EdgesFrom returns the edges declared by source, in sorted order
func (ix *Index) EdgesFrom(source string) []Edge {
	var out []Edge
	for _, e := range ix.edges {
		if e.Source == source {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of distinct edges
func (ix *Index) Len() int {
	return len(ix.edges)
}

func (ix *Index) filter(names []string, kinds []models.Kind) []string {
	if len(kinds) == 0 {
		return clone(names)
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		k, ok := ix.kinds[n]
		if !ok {
			continue
		}
		for _, want := range kinds {
			if k == want {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
