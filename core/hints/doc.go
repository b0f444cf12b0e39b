// Package hints persists pack assignments across tool invocations as JSON
// "asset hint" files.
//
// A hint file is a single object whose member names are decimal pack ids and
// whose values are arrays of asset entries ({guid, subId, assetHint}). The
// codec streams parsed records to a caller callback instead of building a
// map, keeping it decoupled from the insert-conflict policies of the pack
// stores.
package hints
