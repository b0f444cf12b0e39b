package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"asset-bundler/core/archive"
	"asset-bundler/core/catalog"
	"asset-bundler/core/hints"
	"asset-bundler/core/pack"
	"asset-bundler/core/reconcile"
	"asset-bundler/core/sampling"
	"asset-bundler/core/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for mergehints command
	mergeHintFiles   []string
	mergeBundlePaths []string
	mergeOutputFile  string
	mergeOverwrites  bool
)

// mergeHintsCmd combines several hint files into a single sampling log,
// with archive layout taken from already renamed bundle archives.
var mergeHintsCmd = &cobra.Command{
	Use:   "mergehints",
	Short: "Merge hint files into one sampling log",
	Long: `Merge the pack assignments of several hint files, look up each
asset's physical layout in the given bundle archives, and write a single
sampling log. When the same asset appears in more than one hint file,
the lowest pack id wins.

Examples:
  asset-bundler mergehints --asset-hints-file build/game_pc.pak.assethints --asset-hints-file build/dlc_pc.pak.assethints --bundle-path build/game_pc.bpak --output build/game_pc.proflog`,
	RunE: runMergeHints,
}

func init() {
	mergeHintsCmd.Flags().StringSliceVar(&mergeHintFiles, "asset-hints-file", nil, "Hint file(s) to merge (required)")
	mergeHintsCmd.Flags().StringSliceVar(&mergeBundlePaths, "bundle-path", nil, "Renamed bundle archive(s) supplying offsets and sizes (required)")
	mergeHintsCmd.Flags().StringVar(&mergeOutputFile, "output", "", "Sampling log to write (required)")
	mergeHintsCmd.Flags().BoolVar(&mergeOverwrites, "allow-overwrites", false, "Replace an existing sampling log")
	_ = mergeHintsCmd.MarkFlagRequired("asset-hints-file")
	_ = mergeHintsCmd.MarkFlagRequired("bundle-path")
	_ = mergeHintsCmd.MarkFlagRequired("output")

	RootCmd.AddCommand(mergeHintsCmd)
}

func runMergeHints(cmd *cobra.Command, args []string) error {
	cfg, l, err := setup()
	if err != nil {
		return err
	}

	platforms := resolvePlatforms(cfg)
	if len(platforms) == 0 {
		return errors.New("no platforms configured")
	}

	// Hint files written by older pipelines may carry only a path or only
	// an identity per entry; the catalog fills in the missing half.
	var resolver hints.Resolver = hintPassthrough{}
	if cat, err := catalog.Load(catalogPathFor(cfg, platforms[0])); err == nil {
		resolver = cat
	} else {
		l.Warn("Asset catalog unavailable, hint entries will not be cross-resolved",
			zap.Error(err))
	}

	merged := pack.IDMap{}
	for _, file := range mergeHintFiles {
		err := hints.Read(file, resolver, func(rec *pack.Record) {
			merged.InsertOrRetain(rec)
		})
		if err != nil {
			return fmt.Errorf("failed to read hint file %s: %w", file, err)
		}
	}

	archiveInfo := pack.PathMap{}
	for _, bundle := range mergeBundlePaths {
		entries, err := archive.List(bundle)
		if err != nil {
			return fmt.Errorf("failed to list archive %s: %w", bundle, err)
		}
		info := reconcile.ArchiveInfoMap(entries, filepath.Base(bundle))
		for _, rec := range info {
			archiveInfo.InsertIfAbsent(rec)
		}
	}

	logFile := utils.ReplaceExtension(mergeOutputFile, sampling.LogExt)
	if !mergeOverwrites {
		if _, err := os.Stat(logFile); err == nil {
			return fmt.Errorf("sampling log %s already exists; pass --allow-overwrites to replace it", logFile)
		}
	}

	f, err := os.Create(logFile)
	if err != nil {
		return fmt.Errorf("failed to create sampling log %s: %w", logFile, err)
	}
	defer f.Close()

	groups := pack.GroupByPackID(merged)
	if err := sampling.Write(f, groups, archiveInfo, l); err != nil {
		return fmt.Errorf("failed to write sampling log %s: %w", logFile, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close sampling log %s: %w", logFile, err)
	}

	l.Info("Merged sampling log written",
		zap.String("file", logFile),
		zap.Int("assets", len(merged)),
		zap.Int("hintFiles", len(mergeHintFiles)))
	return nil
}
