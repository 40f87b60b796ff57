package themepack

import "strings"

// themePackExtensions are the archive formats a theme pack release
// asset may use, narrowed from the teacher's plugin-binary extension
// list (which also allowed bare scripts) since a theme pack is always
// an archive of a directory tree.
var themePackExtensions = []string{".tar.xz", ".tar.gz", ".tgz", ".zip"}

// excludePatterns filters out companion release assets that are not
// the theme archive itself, matching the teacher's Filter.isPluginAsset
// exclusion list.
var excludePatterns = []string{"sbom", "checksums", "checksum", "provenance", ".sig", ".asc"}

// isThemeArchive reports whether assetName looks like an installable
// theme pack archive rather than a companion artifact.
func isThemeArchive(assetName string) bool {
	lower := strings.ToLower(assetName)

	hasArchiveExt := false
	for _, ext := range themePackExtensions {
		if strings.HasSuffix(lower, ext) {
			hasArchiveExt = true
			break
		}
	}
	if !hasArchiveExt {
		return false
	}

	for _, pattern := range excludePatterns {
		if strings.Contains(lower, pattern) {
			return false
		}
	}
	return true
}

// stripArchiveExtension removes the matched archive extension from
// name, longest match first so ".tar.gz" doesn't leave a dangling
// ".tar".
func stripArchiveExtension(name string) string {
	for _, ext := range themePackExtensions {
		if strings.HasSuffix(strings.ToLower(name), ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}
