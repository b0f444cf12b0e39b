package cmd

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"asset-bundler/core/catalog"
	"asset-bundler/core/config"
	"asset-bundler/core/graph"
	"asset-bundler/core/hints"
	"asset-bundler/core/pack"
	"asset-bundler/core/utils"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for assetlists command
	assetListFile    string
	seedFiles        []string
	extraSeeds       []string
	skipAssets       []string
	printAssignments bool
	projectPath      string
)

// assetListsCmd resolves seeds into the full per-pack asset assignment and
// writes it out as a pak hint file, one per platform.
var assetListsCmd = &cobra.Command{
	Use:   "assetlists",
	Short: "Build per-pack asset lists from seeds and their dependencies",
	Long: `Resolve every seed's transitive dependencies against the platform
asset catalog, assign each discovered asset to a delivery pack, and write
the result as a pak hint file next to the asset list path.

When an asset is reachable from seeds of several packs, the lowest pack
id wins. Level seeds additionally pull in their generated level hint
files, and those assignments cascade through the dependency graph.

Examples:
  # Build asset lists for the configured platforms
  asset-bundler assetlists --asset-list-file build/game.pak --seed-list-file seeds.json

  # Skip editor-only assets
  asset-bundler assetlists --asset-list-file build/game.pak --seed-list-file seeds.json --skip "editor/*"`,
	RunE: runAssetLists,
}

func init() {
	assetListsCmd.Flags().StringVar(&assetListFile, "asset-list-file", "", "Output asset list path, extension is replaced per platform (required)")
	assetListsCmd.Flags().StringSliceVar(&seedFiles, "seed-list-file", nil, "Seed hint file(s) to resolve")
	assetListsCmd.Flags().StringSliceVar(&extraSeeds, "add-seed", nil, "Extra seed asset path, optionally suffixed with [packId]")
	assetListsCmd.Flags().StringSliceVar(&skipAssets, "skip", nil, "Asset path or wildcard pattern to exclude, subtree included")
	assetListsCmd.Flags().BoolVar(&printAssignments, "print", false, "Print the resulting assignments as a table")
	assetListsCmd.Flags().StringVar(&projectPath, "project-path", ".", "Project root used to locate generated level hint files")
	_ = assetListsCmd.MarkFlagRequired("asset-list-file")

	RootCmd.AddCommand(assetListsCmd)
}

func runAssetLists(cmd *cobra.Command, args []string) error {
	cfg, l, err := setup()
	if err != nil {
		return err
	}

	platforms := resolvePlatforms(cfg)
	if len(platforms) == 0 {
		return errors.New("no platforms configured")
	}
	if len(seedFiles) == 0 && len(extraSeeds) == 0 {
		return errors.New("at least one --seed-list-file or --add-seed is required")
	}

	// Platforms are independent of each other, so each one gets its own
	// goroutine. A failure on one platform must not hide failures on the
	// others.
	var failures atomic.Uint32
	var wg sync.WaitGroup
	for _, platform := range platforms {
		wg.Add(1)
		go func(platform string) {
			defer wg.Done()
			if err := buildPlatformAssetList(cfg, l, platform); err != nil {
				l.Error("Asset list generation failed",
					zap.String("platform", platform), zap.Error(err))
				failures.Add(1)
			}
		}(platform)
	}
	wg.Wait()

	if n := failures.Load(); n > 0 {
		return fmt.Errorf("asset list generation failed for %d platform(s)", n)
	}
	return nil
}

func buildPlatformAssetList(cfg *config.Config, l *zap.Logger, platform string) error {
	cat, err := catalog.Load(catalogPathFor(cfg, platform))
	if err != nil {
		return fmt.Errorf("failed to load asset catalog: %w", err)
	}
	walker := graph.NewWalker(cat, l)

	exclude, wildcardExcludes := parseSkipArgs(cat, l)

	seedsByPack, err := collectSeeds(cat, l)
	if err != nil {
		return err
	}

	assetMap := pack.IDMap{}
	levelSeeds, err := mergeLevelHints(cfg, cat, assetMap, seedsByPack, l)
	if err != nil {
		return err
	}

	// Every pack's seed closure lands in the shared map; on contested
	// assets the lower pack id is retained.
	for _, packID := range sortedPackIDsDesc(seedsByPack) {
		closure := walker.DependencyList(seedsByPack[packID], exclude, wildcardExcludes)
		for _, id := range closure {
			assetMap.InsertOrRetain(pack.NewRecord(id, cat.PathByIdentity(id), packID))
		}
	}

	walker.Cascade(assetMap, levelSeeds, exclude, wildcardExcludes)

	outFile := utils.ReplaceExtension(utils.AddPlatformSuffix(assetListFile, platform), hints.PakHintsExt)
	groups := pack.GroupByPackID(assetMap)
	if err := hints.Write(outFile, groups); err != nil {
		return fmt.Errorf("failed to write asset list %s: %w", outFile, err)
	}

	l.Info("Asset list written",
		zap.String("platform", platform),
		zap.String("file", outFile),
		zap.Int("assets", len(assetMap)))

	if printAssignments {
		printAssignmentTable(platform, groups)
	}
	return nil
}

// collectSeeds gathers seed identities per pack from the given seed hint
// files and any --add-seed arguments.
func collectSeeds(cat *catalog.Catalog, l *zap.Logger) (map[pack.ID][]catalog.Identity, error) {
	seedsByPack := make(map[pack.ID][]catalog.Identity)

	for _, file := range seedFiles {
		hintFile := utils.ReplaceExtension(file, hints.SeedHintsExt)
		err := hints.Read(hintFile, cat, func(rec *pack.Record) {
			if !rec.Identity.IsValid() {
				l.Warn("Seed could not be resolved against the catalog",
					zap.String("path", rec.Path))
				return
			}
			packID := rec.Pack.Or(pack.RequiredPack)
			seedsByPack[packID] = append(seedsByPack[packID], rec.Identity)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to read seed hint file %s: %w", hintFile, err)
		}
	}

	for _, arg := range extraSeeds {
		assetPath, packID := parseSeedArg(arg, l)
		id := cat.IdentityByPath(assetPath)
		if !id.IsValid() {
			l.Warn("Seed could not be resolved against the catalog",
				zap.String("path", assetPath))
			continue
		}
		seedsByPack[packID] = append(seedsByPack[packID], id)
	}
	return seedsByPack, nil
}

// mergeLevelHints reads the generated hint file of every seed that looks
// like a level, merges its records into assetMap, and returns the level
// assets grouped by pack for the cascade.
func mergeLevelHints(
	cfg *config.Config,
	cat *catalog.Catalog,
	assetMap pack.IDMap,
	seedsByPack map[pack.ID][]catalog.Identity,
	l *zap.Logger,
) (map[pack.ID][]catalog.Identity, error) {
	levelSeeds := make(map[pack.ID][]catalog.Identity)

	for packID, seeds := range seedsByPack {
		for _, seed := range seeds {
			seedPath := cat.PathByIdentity(seed)
			if matched, _ := path.Match(cfg.Bundler.LevelsPattern, seedPath); !matched {
				continue
			}
			hintFile := filepath.Join(projectPath, filepath.FromSlash(utils.ReplaceExtension(seedPath, hints.LevelHintsExt)))
			if _, err := os.Stat(hintFile); err != nil {
				l.Warn("Level seed has no generated hint file",
					zap.String("level", seedPath), zap.String("file", hintFile))
				continue
			}
			err := hints.Read(hintFile, cat, func(rec *pack.Record) {
				if !rec.Identity.IsValid() {
					return
				}
				rec.Pack = pack.Assign(packID)
				assetMap.InsertOrRetain(rec)
				levelSeeds[packID] = append(levelSeeds[packID], rec.Identity)
			})
			if err != nil {
				return nil, fmt.Errorf("failed to read level hint file %s: %w", hintFile, err)
			}
		}
	}
	return levelSeeds, nil
}

// parseSkipArgs splits --skip arguments into identity exclusions and
// wildcard patterns.
func parseSkipArgs(cat *catalog.Catalog, l *zap.Logger) (map[catalog.Identity]struct{}, []string) {
	exclude := make(map[catalog.Identity]struct{})
	var wildcards []string
	for _, arg := range skipAssets {
		normalized := utils.NormalizeAssetPath(arg)
		if utils.LooksLikeWildcardPattern(normalized) {
			wildcards = append(wildcards, normalized)
			continue
		}
		id := cat.IdentityByPath(normalized)
		if !id.IsValid() {
			l.Warn("Skip target not found in catalog", zap.String("path", normalized))
			continue
		}
		exclude[id] = struct{}{}
	}
	return exclude, wildcards
}

func sortedPackIDsDesc(seedsByPack map[pack.ID][]catalog.Identity) []pack.ID {
	ids := make([]pack.ID, 0, len(seedsByPack))
	for id := range seedsByPack {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	return ids
}

func printAssignmentTable(platform string, groups pack.Groups) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Pack", "Asset Path", "Asset Id"})
	for _, packID := range groups.SortedIDs() {
		for _, rec := range groups[packID] {
			table.Append([]string{
				strconv.FormatUint(uint64(packID), 10),
				rec.Path,
				rec.Identity.String(),
			})
		}
	}
	fmt.Printf("Pack assignments for platform %s:\n", platform)
	table.Render()
}
