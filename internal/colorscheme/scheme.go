package colorscheme

import (
	"fmt"
	"path/filepath"

	"github.com/kdeframe/plasmasvg/internal/iniconf"
)

// ColorScheme is the fully-resolved Group x Role -> RGBA table for one
// theme, as loaded from a KDE "colors" file (spec.md §3).
type ColorScheme struct {
	name   string
	groups map[Group]map[Role]RGBA
}

// Name returns the scheme's display name, taken from the [General] Name
// key of the source file, or the file's base name if absent.
func (s *ColorScheme) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Get resolves (group, role). A group missing an explicit entry for role
// falls back to the Normal group's value for that role, and a scheme
// altogether missing a Normal/role pair falls back to builtinDefault.
func (s *ColorScheme) Get(group Group, role Role) RGBA {
	if s != nil {
		if g, ok := s.groups[group]; ok {
			if c, ok := g[role]; ok {
				return c
			}
		}
		if g, ok := s.groups[Normal]; ok {
			if c, ok := g[role]; ok {
				return c
			}
		}
	}
	return builtinDefault(role)
}

// kdeSections maps each spec Group to the section name KDE color-scheme
// files use for it.
var kdeSections = map[Group]string{
	Normal:        "Colors:Window",
	Button:        "Colors:Button",
	View:          "Colors:View",
	Complementary: "Colors:Complementary",
	Header:        "Colors:Header",
	Tooltip:       "Colors:Tooltip",
	Selection:     "Colors:Selection",
}

// kdeRoleKeys maps each spec Role to the key name within a Colors:*
// section of a KDE color-scheme file.
var kdeRoleKeys = map[Role]string{
	Text:            "ForegroundNormal",
	Background:      "BackgroundNormal",
	Highlight:       "DecorationFocus",
	HighlightedText: "ForegroundNormal",
	Hover:           "DecorationHover",
	Focus:           "DecorationFocus",
	Link:            "ForegroundLink",
	VisitedLink:     "ForegroundVisited",
	PositiveText:    "ForegroundPositive",
	NeutralText:     "ForegroundNeutral",
	NegativeText:    "ForegroundNegative",
	DisabledText:    "ForegroundInactive",
}

// LoadFromINI reads a KDE "colors" file and builds a ColorScheme from it.
// Sections/keys the file omits are simply absent from the resulting
// table; Get's fallback chain covers the gaps at lookup time.
func LoadFromINI(path string) (*ColorScheme, error) {
	doc, err := iniconf.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("loading color scheme %s: %w", path, err)
	}

	name, _ := doc.Get("General", "Name")
	if name == "" {
		name = filepath.Base(path)
	}

	s := &ColorScheme{name: name, groups: map[Group]map[Role]RGBA{}}
	for _, group := range Groups {
		section := kdeSections[group]
		vals := doc.Section(section)
		if len(vals) == 0 {
			continue
		}
		roles := map[Role]RGBA{}
		for _, role := range Roles {
			key, ok := kdeRoleKeys[role]
			if !ok {
				continue
			}
			raw, ok := vals[key]
			if !ok {
				continue
			}
			r, g, b, err := iniconf.RGB(raw)
			if err != nil {
				continue
			}
			roles[role] = Opaque(r, g, b)
		}
		if len(roles) > 0 {
			s.groups[group] = roles
		}
	}
	return s, nil
}

// builtinDefault is the last-resort fallback when neither a scheme nor
// its Normal group defines a role: a flat, legible light-theme palette
// so a caller never receives the zero RGBA (transparent black).
func builtinDefault(role Role) RGBA {
	switch role {
	case Background:
		return Opaque(239, 240, 241)
	case Highlight:
		return Opaque(61, 174, 233)
	case HighlightedText:
		return Opaque(255, 255, 255)
	case Hover, Focus:
		return Opaque(61, 174, 233)
	case Link:
		return Opaque(41, 128, 185)
	case VisitedLink:
		return Opaque(127, 140, 141)
	case PositiveText:
		return Opaque(39, 174, 96)
	case NeutralText:
		return Opaque(246, 116, 0)
	case NegativeText:
		return Opaque(218, 68, 83)
	case DisabledText:
		return Opaque(189, 195, 199)
	default: // Text and anything unanticipated
		return Opaque(35, 38, 41)
	}
}
