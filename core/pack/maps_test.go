package pack

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asset-bundler/core/catalog"
)

func testIdentity(t *testing.T, guid string) catalog.Identity {
	t.Helper()
	g, err := uuid.Parse(guid)
	require.NoError(t, err)
	return catalog.NewIdentity(g, 0)
}

// TestIDMap_InsertOrRetain verifies the lower-pack-wins merge policy: after
// any insertion sequence an identity's pack is the minimum ever offered.
func TestIDMap_InsertOrRetain(t *testing.T) {
	id := testIdentity(t, "11111111-1111-1111-1111-111111111111")

	tests := []struct {
		name     string
		inserts  []ID
		expected ID
	}{
		{"descending", []ID{5, 3, 1}, 1},
		{"ascending", []ID{1, 3, 5}, 1},
		{"interleaved", []ID{3, 7, 2, 9, 2}, 2},
		{"required pack wins", []ID{4, 0, 8}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := IDMap{}
			for i, packID := range tt.inserts {
				existed := m.InsertOrRetain(NewRecord(id, "a/b.png", packID))
				assert.Equal(t, i > 0, existed)
			}
			got, ok := m[id].Pack.Get()
			require.True(t, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// TestIDMap_InsertOrRetain_KeepsExistingFields verifies a losing insert does
// not disturb the retained record's path or identity.
func TestIDMap_InsertOrRetain_KeepsExistingFields(t *testing.T) {
	id := testIdentity(t, "11111111-1111-1111-1111-111111111111")

	m := IDMap{}
	m.InsertOrRetain(NewRecord(id, "original/path.png", 2))
	m.InsertOrRetain(NewRecord(id, "other/path.png", 1))

	rec := m[id]
	assert.Equal(t, "original/path.png", rec.Path)
	assert.Equal(t, id, rec.Identity)
	assert.Equal(t, ID(1), rec.Pack.Or(RequiredPack))
}

func TestIDMap_Remove(t *testing.T) {
	id := testIdentity(t, "11111111-1111-1111-1111-111111111111")

	m := IDMap{}
	m.InsertOrRetain(NewRecord(id, "a/b.png", 1))
	m.Remove(id)
	assert.Empty(t, m)

	// Removing an absent key is a no-op.
	m.Remove(id)
}

// TestPathMap_InsertIfAbsent verifies the first-writer-wins policy for
// path-keyed records.
func TestPathMap_InsertIfAbsent(t *testing.T) {
	m := PathMap{}

	first := &Record{Path: "a/b.png", BundlePath: "game.bpak"}
	second := &Record{Path: "a/b.png", BundlePath: "other.bpak"}

	assert.False(t, m.InsertIfAbsent(first))
	assert.True(t, m.InsertIfAbsent(second))
	assert.Equal(t, "game.bpak", m["a/b.png"].BundlePath)
}

// TestAssignment verifies the optional pack id semantics, in particular that
// an explicit assignment to pack 0 is distinct from no assignment.
func TestAssignment(t *testing.T) {
	var unset Assignment
	_, ok := unset.Get()
	assert.False(t, ok)
	assert.Equal(t, ID(7), unset.Or(7))

	zero := Assign(0)
	got, ok := zero.Get()
	assert.True(t, ok)
	assert.Equal(t, RequiredPack, got)

	assert.True(t, zero.LowerThan(unset))
	assert.False(t, unset.LowerThan(zero))
	assert.False(t, unset.LowerThan(unset))
	assert.True(t, Assign(1).LowerThan(Assign(2)))
	assert.False(t, Assign(2).LowerThan(Assign(2)))
}

// TestGroupByPackID verifies regrouping: unassigned records land in the
// required pack and group contents come out sorted.
func TestGroupByPackID(t *testing.T) {
	idA := testIdentity(t, "11111111-1111-1111-1111-111111111111")
	idB := testIdentity(t, "22222222-2222-2222-2222-222222222222")
	idC := testIdentity(t, "33333333-3333-3333-3333-333333333333")

	m := IDMap{}
	m.InsertOrRetain(NewRecord(idA, "z/last.png", 1))
	m.InsertOrRetain(NewRecord(idB, "a/first.png", 1))
	m.InsertOrRetain(&Record{Identity: idC, Path: "no/assignment.png"})

	groups := GroupByPackID(m)
	require.Len(t, groups, 2)

	assert.Equal(t, []ID{0, 1}, groups.SortedIDs())
	require.Len(t, groups[RequiredPack], 1)
	assert.Equal(t, "no/assignment.png", groups[RequiredPack][0].Path)

	require.Len(t, groups[1], 2)
	assert.Equal(t, "a/first.png", groups[1][0].Path)
	assert.Equal(t, "z/last.png", groups[1][1].Path)
}
