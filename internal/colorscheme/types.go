// Package colorscheme implements the Color Model of spec.md §4.2: a
// ColorGroup x ColorRole -> RGBA mapping plus deterministic StyleSheet
// generation for themed SVGs. RGBA/Hex/CSS formatting is adapted from the
// teacher's internal/colour.RGBA (tinct); everything about grouping
// colors by KDE-style semantic group (Normal/Button/View/...) and
// generating the `.ColorScheme-*` CSS classes is new, grounded on spec
// §4.2's description of the real current-color-scheme contract.
package colorscheme

import (
	"fmt"

	"github.com/kdeframe/plasmasvg/internal/security"
)

// Group names a semantic region of the UI whose colors may differ from
// the Normal palette.
type Group string

// The seven color groups defined by spec.md §3.
const (
	Normal        Group = "Normal"
	Button        Group = "Button"
	View          Group = "View"
	Complementary Group = "Complementary"
	Header        Group = "Header"
	Tooltip       Group = "Tooltip"
	Selection     Group = "Selection"
)

// Groups lists every Group in a stable order, used by LoadFromINI to read
// each group's section of a colors file.
var Groups = []Group{Normal, Button, View, Complementary, Header, Tooltip, Selection}

// Role names a semantic purpose within a Group.
type Role string

// The twelve color roles defined by spec.md §3.
const (
	Text            Role = "Text"
	Background      Role = "Background"
	Highlight       Role = "Highlight"
	HighlightedText Role = "HighlightedText"
	Hover           Role = "Hover"
	Focus           Role = "Focus"
	Link            Role = "Link"
	VisitedLink     Role = "VisitedLink"
	PositiveText    Role = "PositiveText"
	NeutralText     Role = "NeutralText"
	NegativeText    Role = "NegativeText"
	DisabledText    Role = "DisabledText"
)

// Roles lists every Role in a stable order.
var Roles = []Role{
	Text, Background, Highlight, HighlightedText, Hover, Focus,
	Link, VisitedLink, PositiveText, NeutralText, NegativeText, DisabledText,
}

// Status selects which StyleSheet variant to emit: the base palette, the
// Selected variant (Highlight/HighlightedText stand in for
// Background/Text), or Inactive (same substitution, dimmer intent left to
// the caller's palette).
type Status string

const (
	StatusNormal   Status = "normal"
	StatusSelected Status = "selected"
	StatusInactive Status = "inactive"
)

// RGBA is a themed color with alpha, formatted the way the teacher's
// internal/colour.RGBA is: hex, hex+alpha, and CSS rgb()/rgba().
type RGBA struct {
	R, G, B, A uint8
}

// Opaque builds a fully-opaque RGBA from 8-bit components.
func Opaque(r, g, b uint8) RGBA { return RGBA{R: r, G: g, B: b, A: 255} }

func (c RGBA) AlphaFloat() float64 { return float64(c.A) / 255.0 }

func (c RGBA) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

func (c RGBA) HexAlpha() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c RGBA) CSSRgb() string { return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B) }

func (c RGBA) CSSRgba() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %.2f)", c.R, c.G, c.B, c.AlphaFloat())
}

// FromColor32 builds an RGBA from 16-bit-per-channel components as
// returned by image/color.Color.RGBA(), clamping safely to 8 bits.
func FromColor32(r, g, b, a uint32) RGBA {
	return RGBA{
		R: security.SafeUint8FromUint32(r >> 8),
		G: security.SafeUint8FromUint32(g >> 8),
		B: security.SafeUint8FromUint32(b >> 8),
		A: security.SafeUint8FromUint32(a >> 8),
	}
}
