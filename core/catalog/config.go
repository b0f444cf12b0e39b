package catalog

// Config holds configuration for asset catalog discovery.
type Config struct {
	// File is the platform-independent catalog file path; the platform
	// suffix is inserted before the extension per platform.
	File string `mapstructure:"file" default:"assetcatalog.json"`
}
