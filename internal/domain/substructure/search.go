package substructure

import (
	"context"
)

// frame holds the candidate list and cursor for one query node.
type frame struct {
	candidates []int
	next       int
}

// searcher runs the backtracking search for one query/target pair.
type searcher struct {
	query  *QueryGraph
	target *GraphView
	opts   *Options

	core  []int  // query node -> target position, -1 when unbound
	used  []bool // target position -> bound
	arena *MappingArena
	limit int
	found int
	first bool

	allTargets []int
}

func newSearcher(q *QueryGraph, target *GraphView, opts *Options, arena *MappingArena) *searcher {
	s := &searcher{
		query:  q,
		target: target,
		opts:   opts,
		core:   make([]int, q.NodeCount()),
		used:   make([]bool, target.AtomCount()),
		arena:  arena,
		limit:  opts.MaxMappings,
	}
	for i := range s.core {
		s.core[i] = -1
	}
	s.allTargets = make([]int, target.AtomCount())
	for i := range s.allTargets {
		s.allTargets[i] = i
	}
	return s
}

// run explores assignments depth-first on an explicit stack.  Frame depth d
// binds query node d.  ctx is checked before each top-level candidate.
func (s *searcher) run(ctx context.Context) error {
	n := s.query.NodeCount()
	if n == 0 || n > s.target.AtomCount() {
		return nil
	}
	stack := make([]frame, 1, n)
	stack[0] = frame{candidates: s.candidates(0)}

	for len(stack) > 0 {
		depth := len(stack) - 1
		s.unbind(depth)
		if depth == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		f := &stack[depth]
		bound := false
		for f.next < len(f.candidates) {
			t := f.candidates[f.next]
			f.next++
			if s.feasible(depth, t) {
				s.core[depth] = t
				s.used[t] = true
				bound = true
				break
			}
		}
		if !bound {
			stack = stack[:depth]
			continue
		}
		if depth+1 == n {
			s.emit()
			if s.done() {
				s.unbindAll()
				return nil
			}
			continue
		}
		stack = append(stack, frame{candidates: s.candidates(depth + 1)})
	}
	return nil
}

func (s *searcher) unbind(depth int) {
	if t := s.core[depth]; t >= 0 {
		s.used[t] = false
		s.core[depth] = -1
	}
}

func (s *searcher) unbindAll() {
	for d := range s.core {
		s.unbind(d)
	}
}

// candidates returns the target positions to try for query node d: the
// neighbours of the image of an already-bound query neighbour, or every
// target atom when d has no bound neighbour.
func (s *searcher) candidates(d int) []int {
	node := s.query.Node(d)
	for _, nb := range node.Neighbors() {
		if nb.Index() < d {
			return s.target.NeighborIndices(s.core[nb.Index()])
		}
	}
	return s.allTargets
}

// feasible checks whether query node d may bind target position t given the
// current partial assignment.
func (s *searcher) feasible(d, t int) bool {
	if s.used[t] {
		return false
	}
	node := s.query.Node(d)
	atom := s.target.AtomAt(t)
	if s.opts.RemoveHydrogens && atom.IsHydrogen() {
		return false
	}
	if s.target.Degree(t) < node.Degree() {
		return false
	}
	if !node.Matcher.Matches(s.target, atom) {
		return false
	}
	for _, e := range node.Edges() {
		other := e.Other(node).Index()
		if other >= d {
			continue
		}
		tb := s.target.BondBetween(t, s.core[other])
		if tb == nil || !e.Matcher.Matches(s.target, tb) {
			return false
		}
	}
	if s.opts.Induced {
		for j := 0; j < d; j++ {
			if node.IsNeighbor(s.query.Node(j)) {
				continue
			}
			if s.target.BondBetween(t, s.core[j]) != nil {
				return false
			}
		}
	}
	return true
}

func (s *searcher) emit() {
	m := make(Mapping, len(s.core))
	for d, t := range s.core {
		m[d] = AtomPair{Query: s.query.Node(d).AtomIndex, Target: t}
	}
	s.arena.Add(m)
	s.found++
}

func (s *searcher) done() bool {
	if s.first {
		return true
	}
	return s.limit > 0 && s.found >= s.limit
}

//Personal.AI order the ending
