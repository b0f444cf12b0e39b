package pack

import (
	"sort"

	"asset-bundler/core/catalog"
)

// IDMap keys pack records by asset identity. It is the working store while
// seeds and dependencies are being resolved against a catalog.
type IDMap map[catalog.Identity]*Record

// InsertOrRetain adds the record, or reconciles it against an existing entry
// for the same identity: the lower pack id wins, and the existing entry's
// identity and path are left untouched. It reports whether the key already
// existed.
func (m IDMap) InsertOrRetain(rec *Record) bool {
	existing, ok := m[rec.Identity]
	if ok {
		if rec.Pack.LowerThan(existing.Pack) {
			existing.Pack = rec.Pack
		}
		return true
	}
	m[rec.Identity] = rec
	return false
}

// Remove erases the entry for the given identity if present.
func (m IDMap) Remove(id catalog.Identity) {
	delete(m, id)
}

// PathMap keys pack records by relative path. It is the store for archive
// listing output and for entries that have no catalog identity. The first
// writer of a path wins.
type PathMap map[string]*Record

// InsertIfAbsent adds the record unless its path is already present; a
// second insert for an existing path is a no-op. It reports whether the key
// already existed.
func (m PathMap) InsertIfAbsent(rec *Record) bool {
	if _, ok := m[rec.Path]; ok {
		return true
	}
	m[rec.Path] = rec
	return false
}

// Groups is a pack-id-keyed view of a record store: many records per pack.
// It is derived on demand at serialization boundaries and is never the
// primary store.
type Groups map[ID][]*Record

// GroupByPackID regroups any record store by pack id. Records without an
// assignment land in the required pack. Group contents are sorted by path
// then identity so output derived from the grouping is reproducible.
func GroupByPackID[K comparable](records map[K]*Record) Groups {
	groups := make(Groups)
	for _, rec := range records {
		id := rec.Pack.Or(RequiredPack)
		groups[id] = append(groups[id], rec)
	}
	for _, recs := range groups {
		sort.Slice(recs, func(i, j int) bool {
			if recs[i].Path != recs[j].Path {
				return recs[i].Path < recs[j].Path
			}
			return recs[i].Identity.String() < recs[j].Identity.String()
		})
	}
	return groups
}

// SortedIDs returns the group's pack ids in ascending order.
func (g Groups) SortedIDs() []ID {
	ids := make([]ID, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
