package brackets

import (
	"errors"
	"fmt"

	"github.com/dominikbraun/graph"
)

// stageGraph holds the stages of a plan as vertices. An edge from stage A to
// stage B means a fixture of B takes a player from the outcome of A, so B can
// only be generated once A is complete.
type stageGraph struct {
	g     graph.Graph[StageKey, StageKey]
	preds map[StageKey]map[StageKey]graph.Edge[StageKey]
}

func stageHash(k StageKey) StageKey { return k }

func newStageGraph(fixtures []FixtureSpec) (*stageGraph, error) {
	g := graph.New(stageHash, graph.Directed(), graph.PreventCycles())

	addVertex := func(k StageKey) error {
		if err := g.AddVertex(k); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return err
		}
		return nil
	}

	if err := addVertex(seedingKey); err != nil {
		return nil, err
	}
	for _, f := range fixtures {
		if err := addVertex(f.Ref.StageKey); err != nil {
			return nil, err
		}
	}
	for _, f := range fixtures {
		for _, src := range []Source{f.Home, f.Away} {
			from := src.dependsOn()
			if from == f.Ref.StageKey {
				return nil, fmt.Errorf("%w: fixture %v depends on its own stage", ErrInvalidPlan, f.Ref)
			}
			err := g.AddEdge(from, f.Ref.StageKey)
			if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, fmt.Errorf("%w: edge %v -> %v: %v", ErrInvalidPlan, from, f.Ref.StageKey, err)
			}
		}
	}

	preds, err := g.PredecessorMap()
	if err != nil {
		return nil, fmt.Errorf("failed to build stage predecessors: %w", err)
	}
	return &stageGraph{g: g, preds: preds}, nil
}

// order returns every stage after all the stages it depends on. Stages with
// no mutual dependency come out in StageKey order, so the walk is stable.
func (s *stageGraph) order() ([]StageKey, error) {
	return graph.StableTopologicalSort(s.g, func(a, b StageKey) bool { return a.less(b) })
}

func (s *stageGraph) predecessors(k StageKey) []StageKey {
	out := make([]StageKey, 0, len(s.preds[k]))
	for p := range s.preds[k] {
		out = append(out, p)
	}
	return out
}
