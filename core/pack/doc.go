// Package pack tracks the assignment of assets to numbered delivery packs.
//
// Two keyed stores exist because not every entity has both keys: asset
// identities are available only after catalog resolution, while archive
// listings know entries only by path.
//
//   - IDMap (identity-keyed): conflicting inserts keep the lower pack id,
//     since lower packs are delivered earlier and therefore win.
//   - PathMap (path-keyed): the first writer of a path wins; later inserts
//     are no-ops.
//
// The two conflict policies are invariants of the map types, not caller
// discipline. Groups is the derived pack-id-keyed view used at the hint
// file and sampling log boundaries.
package pack
