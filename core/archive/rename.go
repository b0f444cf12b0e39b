package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"asset-bundler/core/utils"
)

// Extensions of built archives before and after the profiling rename. The
// sampling pipeline only reads the renamed variant, so a bundle split into
// game.pak, game__1.pak, ... becomes game.bpak, game__1.bpak, ...
const (
	PakExt  = ".pak"
	BPakExt = ".bpak"
)

// FindBundleFiles returns the built .pak files belonging to a bundle path,
// including split continuations that share its stem. The result is sorted
// for deterministic processing order.
func FindBundleFiles(bundlePath string) ([]string, error) {
	stem := strings.TrimSuffix(bundlePath, filepath.Ext(bundlePath))
	matches, err := filepath.Glob(stem + "*" + PakExt)
	if err != nil {
		return nil, fmt.Errorf("bad bundle path pattern: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

// RenameForSampling relabels a built archive with the .bpak extension,
// marking it final for the sampling pipeline. An existing .bpak is a
// destructive overwrite and is refused unless allowOverwrite is set. It
// returns the renamed path.
func RenameForSampling(pakPath string, allowOverwrite bool) (string, error) {
	target := utils.ReplaceExtension(pakPath, BPakExt)
	if !allowOverwrite {
		if _, err := os.Stat(target); err == nil {
			return "", fmt.Errorf("archive %s already exists, refusing a destructive overwrite", target)
		}
	}
	if err := os.Rename(pakPath, target); err != nil {
		return "", fmt.Errorf("failed to rename archive %s: %w", pakPath, err)
	}
	return target, nil
}
