package themepack

import (
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kdeframe/plasmasvg/internal/security"
)

// maxArchiveBytes bounds the decompression-bomb guard on a downloaded
// theme pack archive; a Plasma theme's SVGs are small, so 200MB is
// generous headroom over any legitimate pack.
const maxArchiveBytes = 200 * 1024 * 1024

// Download fetches url and returns its bytes alongside a SHA256
// checksum, bounded by security.LimitedReader against a hostile or
// truncated Content-Length (the same guard the teacher's compression
// package applies to plugin downloads, scaled to theme pack size).
func Download(url string) (data []byte, checksum string, err error) {
	if err := security.ValidateHTTPURL(url); err != nil {
		return nil, "", fmt.Errorf("rejecting theme pack URL: %w", err)
	}

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Get(url) // #nosec G107 - url validated above
	if err != nil {
		return nil, "", fmt.Errorf("downloading theme pack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("downloading theme pack: HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	hash := sha256.New()
	limited := security.NewLimitedReader(resp.Body, maxArchiveBytes)
	buf, err := io.ReadAll(io.TeeReader(limited, hash))
	if err != nil {
		return nil, "", fmt.Errorf("reading theme pack download: %w", err)
	}

	return buf, fmt.Sprintf("%x", hash.Sum(nil)), nil
}

// VerifyChecksum reports whether data's SHA256 matches expected,
// case-insensitively, a no-op success when expected is empty (no
// checksum was published for this release).
func VerifyChecksum(data []byte, expected string) bool {
	if expected == "" {
		return true
	}
	sum := sha256.Sum256(data)
	return strings.EqualFold(fmt.Sprintf("%x", sum), expected)
}
