package themepack

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kdeframe/plasmasvg/internal/security"
	"github.com/ulikunitz/xz"
)

// maxEntryBytes bounds decompression of any single file within a theme
// pack archive, generalized from the teacher's compression package
// (which applies the same style of guard to a single plugin binary) to
// every file in a theme pack's directory tree.
const maxEntryBytes = 32 * 1024 * 1024

// ExtractArchive unpacks a theme pack archive identified by assetName's
// extension into destDir, preserving its internal directory structure.
// Unlike the teacher's compression package, which selects and extracts
// a single plugin binary out of an archive, a theme pack's payload is
// the whole desktoptheme/<name> tree, so every regular file is written.
func ExtractArchive(data []byte, assetName, destDir string) error {
	lower := strings.ToLower(assetName)
	switch {
	case strings.HasSuffix(lower, ".tar.xz"):
		return extractTarXz(data, destDir)
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return extractTarGz(data, destDir)
	case strings.HasSuffix(lower, ".zip"):
		return extractZip(data, destDir)
	default:
		return fmt.Errorf("unsupported theme pack archive format: %s", assetName)
	}
}

// safeJoin joins destDir and name, cleaning name as if rooted at destDir
// so that ".." path segments or an absolute path (a zip-slip attack)
// resolve to a path inside destDir rather than escaping it; a name that
// resolves to destDir itself is rejected. The teacher's single-file
// extractors never needed this since they flatten every entry to
// filepath.Base.
func safeJoin(destDir, name string) (string, error) {
	cleaned := filepath.Clean(string(filepath.Separator) + name)
	joined := filepath.Join(destDir, cleaned)
	if !strings.HasPrefix(joined, filepath.Clean(destDir)+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry %q escapes destination directory", name)
	}
	return joined, nil
}

func writeEntry(destDir, name string, mode os.FileMode, r io.Reader) error {
	destPath, err := safeJoin(destDir, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", name, err)
	}

	out, err := os.Create(destPath) // #nosec G304 - destPath validated by safeJoin
	if err != nil {
		return fmt.Errorf("creating %s: %w", destPath, err)
	}
	defer out.Close()

	limited := security.NewLimitedReader(r, maxEntryBytes)
	if _, err := io.Copy(out, limited); err != nil {
		return fmt.Errorf("extracting %s: %w", name, err)
	}

	if mode&0o111 != 0 {
		if err := os.Chmod(destPath, 0o755); err != nil { // #nosec G302 - preserve archive's executable bit
			return fmt.Errorf("chmod %s: %w", destPath, err)
		}
	}
	return nil
}

func extractTarStream(tr *tar.Reader, destDir string) error {
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if err := writeEntry(destDir, hdr.Name, os.FileMode(hdr.Mode), tr); err != nil {
			return err
		}
	}
}

func extractTarGz(data []byte, destDir string) error {
	gzr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("opening gzip stream: %w", err)
	}
	defer gzr.Close()
	return extractTarStream(tar.NewReader(gzr), destDir)
}

func extractTarXz(data []byte, destDir string) error {
	xzr, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("opening xz stream: %w", err)
	}
	return extractTarStream(tar.NewReader(xzr), destDir)
}

func extractZip(data []byte, destDir string) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("opening zip archive: %w", err)
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("opening %s: %w", f.Name, err)
		}
		err = writeEntry(destDir, f.Name, f.FileInfo().Mode(), rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
