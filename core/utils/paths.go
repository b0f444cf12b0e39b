package utils

import (
	"path/filepath"
	"strings"
)

// NormalizeAssetPath converts an engine-cache-relative asset path to the
// canonical form used as a map key: forward slashes, lower case, no leading
// separator.
func NormalizeAssetPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimLeft(p, "/")
	return strings.ToLower(p)
}

// ReplaceExtension swaps the extension of filePath for ext. A multi-part
// extension such as ".pak.assethints" replaces only the final extension of
// the input, so "list.assetlist" becomes "list.pak.assethints". ext must
// include the leading dot.
func ReplaceExtension(filePath, ext string) string {
	return strings.TrimSuffix(filePath, filepath.Ext(filePath)) + ext
}

// AddPlatformSuffix inserts "_<platform>" between the file name and its
// extension, producing the platform-specific variant of a shared file path.
func AddPlatformSuffix(filePath, platform string) string {
	if platform == "" {
		return filePath
	}
	ext := filepath.Ext(filePath)
	return strings.TrimSuffix(filePath, ext) + "_" + platform + ext
}

// LooksLikeWildcardPattern reports whether the input contains glob
// metacharacters and should be treated as a pattern rather than a literal
// asset path.
func LooksLikeWildcardPattern(pattern string) bool {
	return strings.ContainsAny(pattern, "*?")
}
