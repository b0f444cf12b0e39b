package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path"

	"github.com/google/uuid"

	"asset-bundler/core/utils"
)

// catalogDocument is the on-disk shape of a platform asset catalog.
type catalogDocument struct {
	Assets []catalogEntry `json:"assets"`
}

// catalogEntry describes one product asset and its direct dependencies.
type catalogEntry struct {
	GUID         string   `json:"guid"`
	SubID        uint32   `json:"subId"`
	Path         string   `json:"path"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// Catalog is an in-memory index of one platform's asset catalog file. It
// answers the path/identity lookups and direct-dependency queries the rest
// of the tool consumes through narrow interfaces.
type Catalog struct {
	byPath map[string]Identity
	byID   map[Identity]string
	deps   map[Identity][]Identity
}

// Load reads and indexes a platform asset catalog file.
func Load(filePath string) (*Catalog, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset catalog: %w", err)
	}

	var doc catalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse asset catalog %s: %w", filePath, err)
	}

	c := &Catalog{
		byPath: make(map[string]Identity, len(doc.Assets)),
		byID:   make(map[Identity]string, len(doc.Assets)),
		deps:   make(map[Identity][]Identity),
	}

	for _, entry := range doc.Assets {
		g, err := uuid.Parse(entry.GUID)
		if err != nil {
			return nil, fmt.Errorf("asset catalog %s: entry %q has an invalid guid: %w", filePath, entry.Path, err)
		}
		id := Identity{GUID: g, SubID: entry.SubID}
		assetPath := utils.NormalizeAssetPath(entry.Path)

		c.byID[id] = assetPath
		if _, exists := c.byPath[assetPath]; !exists {
			c.byPath[assetPath] = id
		}

		for _, depStr := range entry.Dependencies {
			dep, err := ParseIdentity(depStr)
			if err != nil {
				return nil, fmt.Errorf("asset catalog %s: entry %q has an invalid dependency: %w", filePath, entry.Path, err)
			}
			c.deps[id] = append(c.deps[id], dep)
		}
	}

	return c, nil
}

// Len returns the number of cataloged assets.
func (c *Catalog) Len() int {
	return len(c.byID)
}

// IdentityByPath resolves an engine-cache-relative path to an asset
// identity. It returns the invalid identity when the path is not cataloged.
func (c *Catalog) IdentityByPath(assetPath string) Identity {
	return c.byPath[utils.NormalizeAssetPath(assetPath)]
}

// PathByIdentity resolves an asset identity to its engine-cache-relative
// path. It returns the empty string when the identity is not cataloged.
func (c *Catalog) PathByIdentity(id Identity) string {
	return c.byID[id]
}

// DirectDependencies returns the direct dependency edges of the given asset.
// An asset that is not cataloged yields an error; callers that treat a
// missing asset as "no dependencies" do so on their side.
func (c *Catalog) DirectDependencies(id Identity) ([]Identity, error) {
	if _, ok := c.byID[id]; !ok {
		return nil, fmt.Errorf("asset %s is not in the catalog", id)
	}
	return c.deps[id], nil
}

// MatchesWildcard reports whether the asset's cataloged path matches the
// given glob pattern. Unknown assets and malformed patterns never match.
func (c *Catalog) MatchesWildcard(id Identity, pattern string) bool {
	assetPath, ok := c.byID[id]
	if !ok {
		return false
	}
	matched, err := path.Match(utils.NormalizeAssetPath(pattern), assetPath)
	if err != nil {
		return false
	}
	return matched
}
