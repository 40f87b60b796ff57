package theme

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kdeframe/plasmasvg/internal/iniconf"
)

// Version is a theme's API version triple, read from a theme's
// metadata as X-Plasma-API. Parsing and comparison follow the same
// Major.Minor.Patch shape the teacher's plugin protocol version uses.
type Version struct {
	Major, Minor, Patch int
}

// ParseVersion parses a "major.minor.patch" string, tolerating a
// missing minor/patch (e.g. "5" or "5.1").
func ParseVersion(s string) Version {
	parts := strings.SplitN(s, ".", 3)
	get := func(i int) int {
		if i >= len(parts) {
			return 0
		}
		n, _ := strconv.Atoi(strings.TrimSpace(parts[i]))
		return n
	}
	return Version{Major: get(0), Minor: get(1), Patch: get(2)}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Metadata is a theme's descriptor, read from metadata.json or
// metadata.desktop (spec.md §6).
type Metadata struct {
	Name          string
	DisplayName   string
	APIVersion    Version
	FallbackTheme string
}

type metadataJSON struct {
	KPlugin struct {
		Name string `json:"Name"`
	} `json:"KPlugin"`
	XPlasmaAPI    string `json:"X-Plasma-API"`
	FallbackTheme string `json:"X-Plasma-API-FallbackTheme"`
}

// loadMetadata reads <themeDir>/metadata.json, falling back to the
// older metadata.desktop format when the JSON file is absent.
func loadMetadata(themeDir, name string) (Metadata, error) {
	if data, err := os.ReadFile(filepath.Join(themeDir, "metadata.json")); err == nil { // #nosec G304 - theme dir from configured roots
		var raw metadataJSON
		if err := json.Unmarshal(data, &raw); err != nil {
			return Metadata{}, fmt.Errorf("parsing metadata.json: %w", err)
		}
		display := raw.KPlugin.Name
		if display == "" {
			display = name
		}
		return Metadata{
			Name:          name,
			DisplayName:   display,
			APIVersion:    ParseVersion(raw.XPlasmaAPI),
			FallbackTheme: raw.FallbackTheme,
		}, nil
	}

	doc, err := iniconf.Parse(filepath.Join(themeDir, "metadata.desktop"))
	if err != nil {
		return Metadata{}, fmt.Errorf("reading theme metadata for %q: %w", name, err)
	}
	display, _ := doc.Get("Desktop Entry", "Name")
	if display == "" {
		display = name
	}
	apiVersion, _ := doc.Get("Desktop Entry", "X-Plasma-API")
	fallback, _ := doc.Get("Desktop Entry", "X-Plasma-API-FallbackTheme")
	return Metadata{
		Name:          name,
		DisplayName:   display,
		APIVersion:    ParseVersion(apiVersion),
		FallbackTheme: fallback,
	}, nil
}
