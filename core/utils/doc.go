// Package utils provides common utility functions for the asset-bundler
// application. It includes helper functions for asset path normalization,
// platform-specific file naming, and other shared logic that doesn't fit
// into domain-specific packages.
package utils
