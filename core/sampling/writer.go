package sampling

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"asset-bundler/core/pack"
)

// LogExt is the extension of sampling log files.
const LogExt = ".proflog"

// groupSeparator closes each pack's section. requiredPackMarker follows the
// required pack's separator; the trailing 1000 is a fixed sentinel the
// profiling tool interprets as the required pack size marker. Both the
// "i-read " marker and the zero-padded trailing field of entry lines are
// fixed-format placeholders the tool expects byte for byte.
const (
	entryLineFormat    = "%s\t%d\t%d\ti-read \t000000000000000000\n"
	groupSeparator     = "**********\n"
	requiredPackMarker = "||||||||||  1000\n"
)

// Write serializes a reconciled, pack-id-keyed record collection into the
// sampling log format, pack ids ascending.
//
// Records that already carry archive coordinates are written directly;
// records that do not are resolved through archiveInfo by relative path,
// and skipped with a warning when absent from it. Both maps must be
// non-empty, and every write must land in full; a short write poisons the
// log, so it is a hard failure rather than a warning.
func Write(w io.Writer, groups pack.Groups, archiveInfo pack.PathMap, log *zap.Logger) error {
	if len(groups) == 0 || len(archiveInfo) == 0 {
		return errors.New("empty pack grouping or archive info map")
	}

	ids := groups.SortedIDs()
	for i, id := range ids {
		for _, rec := range groups[id] {
			target := rec
			if target.BundlePath == "" {
				resolved, ok := archiveInfo[rec.Path]
				if !ok {
					log.Warn("asset missing from archive info, skipping",
						zap.String("path", rec.Path))
					continue
				}
				target = resolved
			}

			line := fmt.Sprintf(entryLineFormat, target.BundlePath, target.Offset, target.Size)
			if err := writeFull(w, line); err != nil {
				return err
			}
		}

		if i == len(ids)-1 {
			break
		}
		sep := groupSeparator
		if id == pack.RequiredPack {
			sep += requiredPackMarker
		}
		if err := writeFull(w, sep); err != nil {
			return err
		}
	}
	return nil
}

func writeFull(w io.Writer, s string) error {
	n, err := io.WriteString(w, s)
	if err != nil {
		return fmt.Errorf("failed to write sampling log: %w", err)
	}
	if n != len(s) {
		return fmt.Errorf("short write to sampling log: %d of %d bytes", n, len(s))
	}
	return nil
}
