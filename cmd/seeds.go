package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"asset-bundler/core/catalog"
	"asset-bundler/core/hints"
	"asset-bundler/core/pack"
	"asset-bundler/core/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for seeds command
	seedListFile string
	addSeeds     []string
	removeSeeds  []string
)

// seedsCmd maintains a seed hint file: the curated list of root assets,
// each tagged with the delivery pack it belongs to.
var seedsCmd = &cobra.Command{
	Use:   "seeds",
	Short: "Add or remove seed assets in a seed hint file",
	Long: `Maintain a seed hint file listing the root assets of the project.

Each seed can carry a pack id in square brackets after its path. Seeds
without a marker default to pack 0, the -always shipped- required pack.

Examples:
  # Add two seeds, one in pack 3
  asset-bundler seeds --seed-list-file seeds.json --add-seed levels/intro/intro.spawnable --add-seed "textures/hero.png[3]"

  # Remove a seed
  asset-bundler seeds --seed-list-file seeds.json --remove-seed textures/hero.png`,
	RunE: runSeeds,
}

func init() {
	seedsCmd.Flags().StringVar(&seedListFile, "seed-list-file", "", "Seed hint file to create or update (required)")
	seedsCmd.Flags().StringSliceVar(&addSeeds, "add-seed", nil, "Asset path to add, optionally suffixed with [packId]")
	seedsCmd.Flags().StringSliceVar(&removeSeeds, "remove-seed", nil, "Asset path to remove")
	_ = seedsCmd.MarkFlagRequired("seed-list-file")

	RootCmd.AddCommand(seedsCmd)
}

func runSeeds(cmd *cobra.Command, args []string) error {
	cfg, l, err := setup()
	if err != nil {
		return err
	}

	platforms := resolvePlatforms(cfg)
	if len(platforms) == 0 {
		return errors.New("no platforms configured")
	}

	// Seed hint files are platform agnostic; identities are resolved
	// against the first platform's catalog.
	cat, err := catalog.Load(catalogPathFor(cfg, platforms[0]))
	if err != nil {
		return fmt.Errorf("failed to load asset catalog: %w", err)
	}

	hintFile := utils.ReplaceExtension(seedListFile, hints.SeedHintsExt)

	seedMap := pack.IDMap{}
	if _, err := os.Stat(hintFile); err == nil {
		err = hints.Read(hintFile, cat, func(rec *pack.Record) {
			seedMap.InsertOrRetain(rec)
		})
		if err != nil {
			return fmt.Errorf("failed to read seed hint file %s: %w", hintFile, err)
		}
	}

	for _, arg := range addSeeds {
		assetPath, packID := parseSeedArg(arg, l)
		id := cat.IdentityByPath(assetPath)
		if !id.IsValid() {
			l.Warn("Seed asset not found in catalog", zap.String("path", assetPath))
		}
		rec := pack.NewRecord(id, assetPath, packID)
		seedMap.InsertOrRetain(rec)
		l.Info("Added seed", zap.String("path", assetPath), zap.Uint32("pack", uint32(packID)))
	}

	for _, arg := range removeSeeds {
		assetPath := utils.NormalizeAssetPath(arg)
		id := cat.IdentityByPath(assetPath)
		if _, ok := seedMap[id]; !ok {
			l.Warn("Seed not present in seed list", zap.String("path", assetPath))
			continue
		}
		seedMap.Remove(id)
		l.Info("Removed seed", zap.String("path", assetPath))
	}

	groups := pack.GroupByPackID(seedMap)
	if err := hints.Write(hintFile, groups); err != nil {
		return fmt.Errorf("failed to write seed hint file %s: %w", hintFile, err)
	}

	l.Info("Seed hint file updated",
		zap.String("file", hintFile),
		zap.Int("seeds", len(seedMap)))
	return nil
}

// parseSeedArg splits an --add-seed argument of the form "path[packId]"
// into its asset path and pack id. Arguments without a marker belong to
// the required pack. A malformed marker is reported and treated as part
// of the path.
func parseSeedArg(arg string, l *zap.Logger) (string, pack.ID) {
	open := strings.LastIndex(arg, "[")
	if open < 0 {
		return utils.NormalizeAssetPath(arg), pack.RequiredPack
	}
	if !strings.HasSuffix(arg, "]") {
		l.Warn("Seed pack marker is missing its closing bracket, assigning to the required pack",
			zap.String("seed", arg))
		return utils.NormalizeAssetPath(arg), pack.RequiredPack
	}
	packID, err := strconv.ParseUint(arg[open+1:len(arg)-1], 10, 32)
	if err != nil {
		l.Warn("Seed pack marker is not a number, assigning to the required pack",
			zap.String("seed", arg))
		return utils.NormalizeAssetPath(arg[:open]), pack.RequiredPack
	}
	return utils.NormalizeAssetPath(arg[:open]), pack.ID(packID)
}
