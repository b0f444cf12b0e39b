package graph

import (
	"sort"

	"go.uber.org/zap"

	"asset-bundler/core/catalog"
	"asset-bundler/core/pack"
)

// Oracle answers dependency queries for one platform's asset graph. A
// failed dependency lookup means "no dependencies", never a fatal error;
// the walker enforces that interpretation.
type Oracle interface {
	// DirectDependencies returns the direct dependency edges of an asset.
	DirectDependencies(id catalog.Identity) ([]catalog.Identity, error)
	// MatchesWildcard reports whether the asset matches a glob pattern.
	MatchesWildcard(id catalog.Identity, pattern string) bool
}

// Walker propagates pack ids from seed assets to their transitive
// dependencies inside an identity-keyed pack map.
type Walker struct {
	oracle Oracle
	log    *zap.Logger
}

// NewWalker creates a walker over the given dependency oracle.
func NewWalker(oracle Oracle, log *zap.Logger) *Walker {
	return &Walker{oracle: oracle, log: log}
}

// Cascade assigns each pack's id to every asset transitively reachable from
// that pack's seeds, mutating dst in place. Only assets already present in
// dst are relabeled; the cascade never discovers new assets.
//
// Packs are visited from the highest id to the lowest, so a lower (earlier
// delivered) pack that can reach an asset always wins: its assignment is
// applied last. Within a pack the traversal overwrites unconditionally,
// which is what makes the visitation order load-bearing.
//
// Assets in exclude, or matching any pattern in wildcardExcludes, are
// skipped along with their subtrees. A cycle in the dependency graph is not
// an error; the walk simply does not re-enter an asset already on the
// current path.
func (w *Walker) Cascade(
	dst pack.IDMap,
	seedsByPack map[pack.ID][]catalog.Identity,
	exclude map[catalog.Identity]struct{},
	wildcardExcludes []string,
) {
	packIDs := make([]pack.ID, 0, len(seedsByPack))
	for id := range seedsByPack {
		packIDs = append(packIDs, id)
	}
	sort.Slice(packIDs, func(i, j int) bool { return packIDs[i] > packIDs[j] })

	onPath := make(map[catalog.Identity]struct{})
	for _, packID := range packIDs {
		for _, seed := range seedsByPack[packID] {
			clear(onPath)
			if rec, ok := dst[seed]; ok {
				rec.Pack = pack.Assign(packID)
				w.descend(seed, dst, packID, onPath, exclude, wildcardExcludes)
			}
		}
	}
}

// descend performs the depth-first relabeling below one asset. onPath holds
// exactly the assets on the active DFS path; the current asset is added
// before recursing into children and removed on backtrack.
func (w *Walker) descend(
	id catalog.Identity,
	dst pack.IDMap,
	packID pack.ID,
	onPath map[catalog.Identity]struct{},
	exclude map[catalog.Identity]struct{},
	wildcardExcludes []string,
) {
	deps, err := w.oracle.DirectDependencies(id)
	if err != nil {
		// A failure means there were no dependencies, not that the walk failed.
		w.log.Debug("dependency lookup failed, treating as leaf",
			zap.String("asset", id.String()), zap.Error(err))
		return
	}

	onPath[id] = struct{}{}
	defer delete(onPath, id)

	for _, dep := range deps {
		if !dep.IsValid() {
			continue
		}
		if _, skip := exclude[dep]; skip {
			continue
		}
		if w.matchesAnyWildcard(dep, wildcardExcludes) {
			continue
		}

		if rec, ok := dst[dep]; ok {
			rec.Pack = pack.Assign(packID)
		}

		if _, cyclic := onPath[dep]; cyclic {
			continue
		}
		w.descend(dep, dst, packID, onPath, exclude, wildcardExcludes)
	}
}

// DependencyList returns the transitive dependency closure of the given
// seeds, seeds included, in discovery order. Excluded assets and their
// subtrees are omitted. Each asset appears once even when reachable over
// several edges.
func (w *Walker) DependencyList(
	seeds []catalog.Identity,
	exclude map[catalog.Identity]struct{},
	wildcardExcludes []string,
) []catalog.Identity {
	var out []catalog.Identity
	visited := make(map[catalog.Identity]struct{})

	var visit func(id catalog.Identity)
	visit = func(id catalog.Identity) {
		if _, seen := visited[id]; seen {
			return
		}
		visited[id] = struct{}{}
		out = append(out, id)

		deps, err := w.oracle.DirectDependencies(id)
		if err != nil {
			w.log.Debug("dependency lookup failed, treating as leaf",
				zap.String("asset", id.String()), zap.Error(err))
			return
		}
		for _, dep := range deps {
			if !dep.IsValid() {
				continue
			}
			if _, skip := exclude[dep]; skip {
				continue
			}
			if w.matchesAnyWildcard(dep, wildcardExcludes) {
				continue
			}
			visit(dep)
		}
	}

	for _, seed := range seeds {
		if !seed.IsValid() {
			continue
		}
		if _, skip := exclude[seed]; skip {
			continue
		}
		visit(seed)
	}
	return out
}

func (w *Walker) matchesAnyWildcard(id catalog.Identity, patterns []string) bool {
	for _, pattern := range patterns {
		if w.oracle.MatchesWildcard(id, pattern) {
			return true
		}
	}
	return false
}
