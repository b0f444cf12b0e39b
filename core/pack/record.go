package pack

import (
	"asset-bundler/core/catalog"
)

// ID identifies a logical delivery pack. Lower ids are delivered earlier;
// the required pack is always loaded.
type ID uint32

// RequiredPack is the always-loaded pack.
const RequiredPack ID = 0

// Assignment is an optional pack id. The zero value means "no explicit
// assignment yet", which keeps the unset state distinct from a legitimate
// assignment to pack 0.
type Assignment struct {
	id  ID
	set bool
}

// Assign returns an assignment to the given pack.
func Assign(id ID) Assignment {
	return Assignment{id: id, set: true}
}

// Get returns the assigned pack id and whether one was assigned.
func (a Assignment) Get() (ID, bool) {
	return a.id, a.set
}

// Or returns the assigned pack id, or def when unassigned.
func (a Assignment) Or(def ID) ID {
	if a.set {
		return a.id
	}
	return def
}

// LowerThan reports whether a takes priority over b under the lower-pack-id
// wins rule. Any assignment beats no assignment; an unassigned value never
// beats anything.
func (a Assignment) LowerThan(b Assignment) bool {
	if !a.set {
		return false
	}
	if !b.set {
		return true
	}
	return a.id < b.id
}

// Record is the unit of information tracked per asset: identity, relative
// path, pack assignment, and the physical coordinates inside the archive
// that contains it. Identity or Path may be absent, but a record with
// neither cannot be serialized.
type Record struct {
	// Identity is the cataloged asset identity; invalid for assets known
	// only by path (archive metadata, unresolved hints).
	Identity catalog.Identity
	// Path is the engine-cache-relative path of the asset.
	Path string
	// Pack is the delivery pack this asset is assigned to, if any.
	Pack Assignment

	// BundlePath names the archive file currently containing the asset.
	// Set only after archive reconciliation.
	BundlePath string
	// Offset and Size locate the asset's data payload inside BundlePath.
	Offset uint64
	Size   uint64
	// HeaderOffset and HeaderSize locate the asset's archive header entry,
	// which is read regardless of whether the payload ever is.
	HeaderOffset uint64
	HeaderSize   uint64
}

// NewRecord builds a record with a pack assignment.
func NewRecord(id catalog.Identity, path string, packID ID) *Record {
	return &Record{Identity: id, Path: path, Pack: Assign(packID)}
}
