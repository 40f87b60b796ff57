package renderer

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/kdeframe/plasmasvg/internal/security"
)

// maxSVGBytes bounds a single decompressed SVG document, the same
// decompression-bomb guard the teacher's compression package applies to
// extracted plugin binaries (there: 100MB for executables; an SVG asset
// has no legitimate reason to approach even a tenth of that).
const maxSVGBytes = 10 * 1024 * 1024

// decompressIfGzip transparently decompresses a gzip-wrapped .svgz
// payload, detected by its magic number, leaving anything else
// untouched.
func decompressIfGzip(data []byte) ([]byte, error) {
	if len(data) < 2 || data[0] != 0x1f || data[1] != 0x8b {
		return data, nil
	}
	gzr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening svgz stream: %w", err)
	}
	defer gzr.Close()

	limited := security.NewLimitedReader(gzr, maxSVGBytes)
	raw, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("decompressing svgz stream: %w", err)
	}
	return raw, nil
}
