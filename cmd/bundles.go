package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"asset-bundler/core/archive"
	"asset-bundler/core/catalog"
	"asset-bundler/core/hints"
	"asset-bundler/core/pack"
	"asset-bundler/core/reconcile"
	"asset-bundler/core/sampling"
	"asset-bundler/core/storage"
	"asset-bundler/core/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for bundles command
	bundleAssetLists  []string
	outputBundlePaths []string
	allowOverwrites   bool
	publishLogs       bool
)

// bundlesCmd reconciles logical pack assignments against the built archive
// files and writes a sampling log per bundle.
var bundlesCmd = &cobra.Command{
	Use:   "bundles",
	Short: "Reconcile pack assignments against built bundles and write sampling logs",
	Long: `Match each asset list's pack assignments against the physical layout
of its built bundle archives, then write a sampling log describing every
asset's pack, offset, and size for the disk-access profiler.

Bundle archive files are renamed out of the profiler's way as part of
the run. Existing sampling logs and renamed archives are never replaced
unless --allow-overwrites is given.

Examples:
  asset-bundler bundles --asset-list-file build/game_pc.pak --output-bundle-path build/game_pc.pak

  # Publish the sampling logs to object storage afterwards
  asset-bundler bundles --asset-list-file build/game_pc.pak --output-bundle-path build/game_pc.pak --publish`,
	RunE: runBundles,
}

func init() {
	bundlesCmd.Flags().StringSliceVar(&bundleAssetLists, "asset-list-file", nil, "Asset list path(s), one per bundle (required)")
	bundlesCmd.Flags().StringSliceVar(&outputBundlePaths, "output-bundle-path", nil, "Built bundle path(s), paired with --asset-list-file (required)")
	bundlesCmd.Flags().BoolVar(&allowOverwrites, "allow-overwrites", false, "Replace existing sampling logs and renamed archives")
	bundlesCmd.Flags().BoolVar(&publishLogs, "publish", false, "Upload the sampling logs to object storage")
	_ = bundlesCmd.MarkFlagRequired("asset-list-file")
	_ = bundlesCmd.MarkFlagRequired("output-bundle-path")

	RootCmd.AddCommand(bundlesCmd)
}

func runBundles(cmd *cobra.Command, args []string) error {
	cfg, l, err := setup()
	if err != nil {
		return err
	}

	if len(bundleAssetLists) != len(outputBundlePaths) {
		return fmt.Errorf("got %d asset list(s) for %d bundle path(s); counts must match",
			len(bundleAssetLists), len(outputBundlePaths))
	}

	var publisher *storage.Publisher
	if publishLogs {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		publisher = storage.NewPublisher(client, cfg.Storage.Bucket, l)
	}

	// Bundles are processed concurrently; each one is an independent
	// pairing of asset list and archive set.
	var failures atomic.Uint32
	var wg sync.WaitGroup
	for i := range bundleAssetLists {
		wg.Add(1)
		go func(assetList, bundlePath string) {
			defer wg.Done()
			if err := processBundle(l, assetList, bundlePath, publisher); err != nil {
				l.Error("Bundle processing failed",
					zap.String("bundle", bundlePath), zap.Error(err))
				failures.Add(1)
			}
		}(bundleAssetLists[i], outputBundlePaths[i])
	}
	wg.Wait()

	if n := failures.Load(); n > 0 {
		return fmt.Errorf("processing failed for %d bundle(s)", n)
	}
	return nil
}

func processBundle(l *zap.Logger, assetList, bundlePath string, publisher *storage.Publisher) error {
	hintFile := utils.ReplaceExtension(assetList, hints.PakHintsExt)

	assignments := pack.PathMap{}
	err := hints.Read(hintFile, hintPassthrough{}, func(rec *pack.Record) {
		assignments.InsertIfAbsent(rec)
	})
	if err != nil {
		return fmt.Errorf("failed to read asset list %s: %w", hintFile, err)
	}

	logFile := utils.ReplaceExtension(bundlePath, sampling.LogExt)
	if !allowOverwrites {
		if _, err := os.Stat(logFile); err == nil {
			return fmt.Errorf("sampling log %s already exists; pass --allow-overwrites to replace it", logFile)
		}
	}

	paks, err := archive.FindBundleFiles(bundlePath)
	if err != nil {
		return fmt.Errorf("failed to locate archives for bundle %s: %w", bundlePath, err)
	}
	if len(paks) == 0 {
		return fmt.Errorf("no archives found for bundle %s", bundlePath)
	}

	archiveInfo := pack.PathMap{}
	for _, pakFile := range paks {
		renamed, err := archive.RenameForSampling(pakFile, allowOverwrites)
		if err != nil {
			return err
		}
		entries, err := archive.List(renamed)
		if err != nil {
			return fmt.Errorf("failed to list archive %s: %w", renamed, err)
		}
		info := reconcile.ArchiveInfoMap(entries, filepath.Base(renamed))
		reconcile.MergeArchiveInfo(assignments, info)
		for _, rec := range info {
			archiveInfo.InsertIfAbsent(rec)
		}
		l.Info("Archive reconciled",
			zap.String("archive", renamed), zap.Int("entries", len(entries)))
	}

	f, err := os.Create(logFile)
	if err != nil {
		return fmt.Errorf("failed to create sampling log %s: %w", logFile, err)
	}
	defer f.Close()

	groups := pack.GroupByPackID(assignments)
	if err := sampling.Write(f, groups, archiveInfo, l); err != nil {
		return fmt.Errorf("failed to write sampling log %s: %w", logFile, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close sampling log %s: %w", logFile, err)
	}

	l.Info("Sampling log written",
		zap.String("file", logFile), zap.Int("assets", len(assignments)))

	if publisher != nil {
		if err := publisher.Publish(context.Background(), logFile, filepath.Base(logFile)); err != nil {
			return fmt.Errorf("failed to publish sampling log %s: %w", logFile, err)
		}
	}
	return nil
}

// hintPassthrough is the resolver for hint files whose entries already
// carry both path and identity. Nothing is cross-resolved.
type hintPassthrough struct{}

func (hintPassthrough) IdentityByPath(string) catalog.Identity { return catalog.InvalidIdentity }
func (hintPassthrough) PathByIdentity(catalog.Identity) string { return "" }
