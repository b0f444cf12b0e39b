package reconcile

import (
	"path"

	"asset-bundler/core/archive"
	"asset-bundler/core/pack"
)

// Well-known archive metadata files. They have no catalog identity, but the
// runtime reads them on every mount, so they must appear in the sampling
// log even though no logical pack assignment ever mentions them.
var metadataFileNames = map[string]struct{}{
	"manifest.xml":     {},
	"deltacatalog.xml": {},
}

// ArchiveInfoMap converts an archive listing into a path-keyed record map
// tagged with the bundle's file name. The bundle name is the bare file name,
// not a full path: profiling runs from the bundle's own directory.
func ArchiveInfoMap(entries []archive.Entry, bundleName string) pack.PathMap {
	info := make(pack.PathMap, len(entries))
	for _, e := range entries {
		info.InsertIfAbsent(&pack.Record{
			Path:         e.Path,
			BundlePath:   bundleName,
			Offset:       e.DataOffset,
			Size:         e.DataSize,
			HeaderOffset: e.HeaderOffset,
			HeaderSize:   e.HeaderSize,
		})
	}
	return info
}

// MergeArchiveInfo merges one bundle's physical layout into a path-keyed
// map of logical pack assignments, in place.
//
// For every physical entry whose path is tracked in dst, the destination
// record gains the entry's bundle name and payload coordinates; identity and
// pack assignment are untouched. A second, synthetic record is then added
// for the entry's archive header: header bytes are read regardless of
// whether the pack-gated payload ever is, so they are forced into the
// required pack and keyed "<path>_<bundle>" to stay distinct from the
// payload record.
//
// Physical entries dst does not track are dropped, except the well-known
// archive metadata files, which are synthesized into the required pack the
// same way. Synthetic keys are deterministic, so re-merging the same bundle
// overwrites the synthetic records harmlessly.
func MergeArchiveInfo(dst pack.PathMap, info pack.PathMap) {
	for assetPath, src := range info {
		if rec, ok := dst[assetPath]; ok {
			rec.BundlePath = src.BundlePath
			rec.Offset = src.Offset
			rec.Size = src.Size
			rec.HeaderOffset = src.HeaderOffset
			rec.HeaderSize = src.HeaderSize

			dst[syntheticKey(assetPath, src.BundlePath)] = headerRecord(assetPath, src)
			continue
		}

		if _, known := metadataFileNames[path.Base(assetPath)]; known {
			// Metadata is read in full: header and payload as one span.
			dst[syntheticKey(assetPath, src.BundlePath)] = &pack.Record{
				Path:       syntheticKey(assetPath, src.BundlePath),
				Pack:       pack.Assign(pack.RequiredPack),
				BundlePath: src.BundlePath,
				Offset:     src.HeaderOffset,
				Size:       src.HeaderSize + src.Size,
			}
		}
		// Anything else in the archive is not tracked for profiling.
	}
}

func headerRecord(assetPath string, src *pack.Record) *pack.Record {
	return &pack.Record{
		Path:       syntheticKey(assetPath, src.BundlePath),
		Pack:       pack.Assign(pack.RequiredPack),
		BundlePath: src.BundlePath,
		Offset:     src.HeaderOffset,
		Size:       src.HeaderSize,
	}
}

func syntheticKey(assetPath, bundleName string) string {
	return assetPath + "_" + bundleName
}
