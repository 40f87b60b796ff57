// Package renderpane implements an optional out-of-process rasterizer
// backend for the Renderer Pool (spec.md §9's "external collaborator").
// The default backend rasterizes in-process via internal/rasterize; a
// renderpane plugin lets a GPU- or resvg-backed subprocess take over
// rasterization instead, without the Pixmap Cache or SVG Facade
// noticing the difference.
//
// The handshake and version-negotiation shape is adapted directly from
// the teacher's internal/plugin/protocol package.
package renderpane

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-plugin"
)

// ProtocolVersion is the current renderpane plugin API version, in
// MAJOR.MINOR.PATCH form.
const ProtocolVersion = "1.0.0"

// MinCompatibleVersion is the oldest plugin protocol version this host
// can drive.
const MinCompatibleVersion = "1.0.0"

// Handshake is the go-plugin handshake configuration. Its magic cookie
// prevents a renderpane plugin binary from being invoked as anything
// else's plugin by accident.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  uint(mustParse(ProtocolVersion).Major),
	MagicCookieKey:   "PLASMASVG_RENDERPANE",
	MagicCookieValue: "plasmasvg_rasterizer",
}

// Version is a parsed semantic plugin protocol version.
type Version struct {
	Major, Minor, Patch int
}

func (v Version) String() string { return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch) }

// ParseVersion parses a "MAJOR.MINOR.PATCH" string.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid version format: %s", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version segment %q: %w", p, err)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

func mustParse(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsCompatible reports whether a plugin advertising pluginVersion can
// serve this host: major must match exactly, and the plugin must be at
// or above MinCompatibleVersion within that major line.
func IsCompatible(pluginVersion string) (bool, error) {
	pv, err := ParseVersion(pluginVersion)
	if err != nil {
		return false, fmt.Errorf("parsing plugin version: %w", err)
	}
	cur := mustParse(ProtocolVersion)
	if pv.Major != cur.Major {
		return false, fmt.Errorf("incompatible major version: plugin is %s, host requires %d.x.x", pv, cur.Major)
	}
	min := mustParse(MinCompatibleVersion)
	if pv.Minor < min.Minor || (pv.Minor == min.Minor && pv.Patch < min.Patch) {
		return false, fmt.Errorf("plugin version %s is older than minimum %s", pv, MinCompatibleVersion)
	}
	return true, nil
}
