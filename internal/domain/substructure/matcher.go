package substructure

import (
	"context"

	"github.com/turtacn/molmatch/internal/domain/molecule"
	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molmatch/pkg/errors"
)

// Matcher searches one query against any number of targets.  It is
// immutable after construction and safe for concurrent use; every call
// works on its own arena.
type Matcher struct {
	query   *QueryGraph
	opts    Options
	filters []Filter
}

// NewMatcher builds the query graph for query under opts.  Invalid options
// and malformed query graphs fail here, before any search work.
func NewMatcher(query molecule.Graph, opts ...Option) (*Matcher, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if query == nil {
		return nil, errors.New(errors.ErrCodeInvalidQuery, "query graph is nil")
	}
	q, err := BuildQuery(query, o)
	if err != nil {
		return nil, err
	}
	return newMatcher(q, o), nil
}

// NewMatcherFromQuery wraps a hand-assembled query graph.
func NewMatcherFromQuery(q *QueryGraph, opts ...Option) (*Matcher, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if q == nil || q.NodeCount() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidQuery, "query graph has no nodes")
	}
	return newMatcher(q, o), nil
}

func newMatcher(q *QueryGraph, o Options) *Matcher {
	filters := make([]Filter, len(o.Ranking))
	for i, k := range o.Ranking {
		filters[i] = FilterFor(k)
	}
	return &Matcher{query: q, opts: o, filters: filters}
}

// Query returns the compiled query graph.
func (m *Matcher) Query() *QueryGraph { return m.query }

// Options returns the effective options.
func (m *Matcher) Options() Options { return m.opts }

// View indexes target with the matcher's logger attached.
func (m *Matcher) View(target molecule.Graph) (*GraphView, error) {
	if target == nil {
		return nil, errors.New(errors.ErrCodeInvalidTarget, "target graph is nil")
	}
	return NewGraphView(target, WithViewLogger(m.opts.Logger))
}

// RankContext returns the ranking context for a target view.
func (m *Matcher) RankContext(target *GraphView) *RankContext {
	return &RankContext{Query: m.query.Source(), Target: target, Energies: m.opts.Energies}
}

// Search fills arena with the raw mappings of the query into target, in
// discovery order.  The arena is cleared first.  On cancellation the
// mappings found so far remain in the arena and the context error is
// returned wrapped with ErrCodeSearchCancelled.
func (m *Matcher) Search(ctx context.Context, target molecule.Graph, arena *MappingArena) error {
	view, err := m.View(target)
	if err != nil {
		return err
	}
	return m.SearchView(ctx, view, arena)
}

// SearchView is Search over a prebuilt view.
func (m *Matcher) SearchView(ctx context.Context, view *GraphView, arena *MappingArena) error {
	return m.search(ctx, view, arena, false)
}

func (m *Matcher) search(ctx context.Context, view *GraphView, arena *MappingArena, first bool) error {
	arena.Clear()
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeSearchCancelled, "substructure search cancelled")
	}
	if maps, handled := trivialMappings(m.query, view, &m.opts); handled {
		if first && len(maps) > 1 {
			maps = maps[:1]
		}
		arena.Set(maps)
		return nil
	}
	s := newSearcher(m.query, view, &m.opts, arena)
	s.first = first
	if err := s.run(ctx); err != nil {
		m.opts.Logger.Debug("substructure search interrupted",
			logging.Int("mappings", arena.Len()), logging.Err(err))
		return errors.Wrap(err, errors.ErrCodeSearchCancelled, "substructure search cancelled")
	}
	return nil
}

// HasMap reports whether the query occurs in target.  The search stops at
// the first complete mapping.
func (m *Matcher) HasMap(ctx context.Context, target molecule.Graph) (bool, error) {
	view, err := m.View(target)
	if err != nil {
		return false, err
	}
	arena := NewMappingArena()
	if err := m.search(ctx, view, arena, true); err != nil {
		return false, err
	}
	return arena.Len() > 0, nil
}

// CountMaps returns the number of distinct mappings of the query into target.
// Symmetry-equivalent placements are counted separately.
func (m *Matcher) CountMaps(ctx context.Context, target molecule.Graph) (int, error) {
	view, err := m.View(target)
	if err != nil {
		return 0, err
	}
	arena := NewMappingArena()
	if err := m.search(ctx, view, arena, false); err != nil {
		return 0, err
	}
	return len(PostFilter(arena.GetFinalMapping(), DedupExact)), nil
}

// GetFirstMap returns the best-ranked mapping, or nil when there is none.
func (m *Matcher) GetFirstMap(ctx context.Context, target molecule.Graph) (Mapping, error) {
	maps, err := m.GetMaps(ctx, target)
	if err != nil || len(maps) == 0 {
		return nil, err
	}
	return maps[0], nil
}

// GetMaps returns the post-filtered mappings in ranking order.
func (m *Matcher) GetMaps(ctx context.Context, target molecule.Graph) ([]Mapping, error) {
	res, err := m.Run(ctx, target)
	if err != nil {
		return nil, err
	}
	return res.Mappings, nil
}

// Result is the full outcome of one search.
type Result struct {
	// Raw is the number of mappings found before post-filtering.
	Raw      int
	Mappings []Mapping
	Scores   []Scores
}

// Run searches, post-filters, ranks and scores in one pass over target.
func (m *Matcher) Run(ctx context.Context, target molecule.Graph) (*Result, error) {
	view, err := m.View(target)
	if err != nil {
		return nil, err
	}
	arena := NewMappingArena()
	if err := m.search(ctx, view, arena, false); err != nil {
		return nil, err
	}
	mode := DedupExact
	if m.opts.UniqueTargets {
		mode = DedupSymmetry
	}
	rc := m.RankContext(view)
	ranked := Rank(rc, PostFilter(arena.GetFinalMapping(), mode), m.filters...)
	scores := make([]Scores, len(ranked))
	for i, mp := range ranked {
		scores[i] = ScoreMapping(rc, mp)
	}
	return &Result{Raw: arena.Len(), Mappings: ranked, Scores: scores}, nil
}

//Personal.AI order the ending
