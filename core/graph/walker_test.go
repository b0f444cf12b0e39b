package graph

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"asset-bundler/core/catalog"
	"asset-bundler/core/pack"
)

// graphOracle is a test oracle over a fixed dependency adjacency map. Assets
// absent from the map fail the lookup, which the walker must treat as a
// leaf.
type graphOracle struct {
	deps      map[catalog.Identity][]catalog.Identity
	wildcards map[catalog.Identity]string
}

func (o *graphOracle) DirectDependencies(id catalog.Identity) ([]catalog.Identity, error) {
	deps, ok := o.deps[id]
	if !ok {
		return nil, errors.New("no dependency information")
	}
	return deps, nil
}

func (o *graphOracle) MatchesWildcard(id catalog.Identity, pattern string) bool {
	return o.wildcards[id] == pattern
}

func ident(t *testing.T, n byte) catalog.Identity {
	t.Helper()
	g, err := uuid.Parse(fmt.Sprintf("%c%c%c%c%c%c%c%c-0000-0000-0000-000000000000",
		'0'+n, '0'+n, '0'+n, '0'+n, '0'+n, '0'+n, '0'+n, '0'+n))
	require.NoError(t, err)
	return catalog.NewIdentity(g, 0)
}

func seededMap(ids ...catalog.Identity) pack.IDMap {
	m := pack.IDMap{}
	for _, id := range ids {
		m[id] = &pack.Record{Identity: id, Path: id.String()}
	}
	return m
}

func packOf(t *testing.T, m pack.IDMap, id catalog.Identity) pack.ID {
	t.Helper()
	rec, ok := m[id]
	require.True(t, ok)
	got, assigned := rec.Pack.Get()
	require.True(t, assigned)
	return got
}

// TestCascade_LowerPackWins verifies that when two packs both reach the same
// asset, the lower pack id ends up assigned, whichever order the packs were
// registered in.
func TestCascade_LowerPackWins(t *testing.T) {
	a, b, x := ident(t, 1), ident(t, 2), ident(t, 3)
	oracle := &graphOracle{deps: map[catalog.Identity][]catalog.Identity{
		a: {x},
		b: {x},
		x: {},
	}}

	registrations := []map[pack.ID][]catalog.Identity{
		{0: {a}, 5: {b}},
		{5: {b}, 0: {a}},
	}

	for i, seeds := range registrations {
		t.Run(fmt.Sprintf("registration order %d", i), func(t *testing.T) {
			dst := seededMap(a, b, x)
			NewWalker(oracle, zap.NewNop()).Cascade(dst, seeds, nil, nil)

			assert.Equal(t, pack.ID(0), packOf(t, dst, a))
			assert.Equal(t, pack.ID(5), packOf(t, dst, b))
			assert.Equal(t, pack.ID(0), packOf(t, dst, x))
		})
	}
}

// TestCascade_Cycle verifies a dependency cycle terminates and still labels
// every member.
func TestCascade_Cycle(t *testing.T) {
	a, b, c := ident(t, 1), ident(t, 2), ident(t, 3)
	oracle := &graphOracle{deps: map[catalog.Identity][]catalog.Identity{
		a: {b},
		b: {c},
		c: {a},
	}}

	dst := seededMap(a, b, c)
	NewWalker(oracle, zap.NewNop()).Cascade(dst, map[pack.ID][]catalog.Identity{2: {a}}, nil, nil)

	for _, id := range []catalog.Identity{a, b, c} {
		assert.Equal(t, pack.ID(2), packOf(t, dst, id))
	}
}

// TestCascade_OnlyRelabelsKnownAssets verifies the cascade never adds assets
// to the destination map.
func TestCascade_OnlyRelabelsKnownAssets(t *testing.T) {
	a, b := ident(t, 1), ident(t, 2)
	oracle := &graphOracle{deps: map[catalog.Identity][]catalog.Identity{
		a: {b},
		b: {},
	}}

	dst := seededMap(a)
	NewWalker(oracle, zap.NewNop()).Cascade(dst, map[pack.ID][]catalog.Identity{1: {a}}, nil, nil)

	assert.Len(t, dst, 1)
	assert.Equal(t, pack.ID(1), packOf(t, dst, a))
}

// TestCascade_Exclusions verifies excluded assets and wildcard matches are
// skipped along with their subtrees.
func TestCascade_Exclusions(t *testing.T) {
	a, b, c, d, e := ident(t, 1), ident(t, 2), ident(t, 3), ident(t, 4), ident(t, 5)
	oracle := &graphOracle{
		deps: map[catalog.Identity][]catalog.Identity{
			a: {b, d},
			b: {c},
			d: {e},
			c: {}, e: {},
		},
		wildcards: map[catalog.Identity]string{d: "editor/*"},
	}

	dst := seededMap(a, b, c, d, e)
	exclude := map[catalog.Identity]struct{}{b: {}}
	NewWalker(oracle, zap.NewNop()).Cascade(dst,
		map[pack.ID][]catalog.Identity{3: {a}}, exclude, []string{"editor/*"})

	assert.Equal(t, pack.ID(3), packOf(t, dst, a))
	for _, id := range []catalog.Identity{b, c, d, e} {
		_, assigned := dst[id].Pack.Get()
		assert.False(t, assigned, "asset %s should not have been relabeled", id)
	}
}

// TestCascade_LookupFailureIsLeaf verifies a failed dependency lookup stops
// the descent without failing the walk.
func TestCascade_LookupFailureIsLeaf(t *testing.T) {
	a, b := ident(t, 1), ident(t, 2)
	// b has no dependency information at all.
	oracle := &graphOracle{deps: map[catalog.Identity][]catalog.Identity{
		a: {b},
	}}

	dst := seededMap(a, b)
	NewWalker(oracle, zap.NewNop()).Cascade(dst, map[pack.ID][]catalog.Identity{1: {a}}, nil, nil)

	assert.Equal(t, pack.ID(1), packOf(t, dst, a))
	assert.Equal(t, pack.ID(1), packOf(t, dst, b))
}

// TestDependencyList verifies the closure contains each reachable asset
// exactly once and honors exclusions.
func TestDependencyList(t *testing.T) {
	a, b, c, d := ident(t, 1), ident(t, 2), ident(t, 3), ident(t, 4)
	oracle := &graphOracle{deps: map[catalog.Identity][]catalog.Identity{
		a: {b, c},
		b: {c, d},
		c: {},
		d: {a}, // cycle back to the seed
	}}

	w := NewWalker(oracle, zap.NewNop())

	closure := w.DependencyList([]catalog.Identity{a}, nil, nil)
	assert.Equal(t, []catalog.Identity{a, b, c, d}, closure)

	closure = w.DependencyList([]catalog.Identity{a}, map[catalog.Identity]struct{}{b: {}}, nil)
	assert.Equal(t, []catalog.Identity{a, c}, closure)
}
