package colorscheme

import "testing"

func schemeForTest() *ColorScheme {
	return &ColorScheme{
		name: "test",
		groups: map[Group]map[Role]RGBA{
			Normal: {
				Text:            Opaque(35, 38, 41),
				Background:      Opaque(239, 240, 241),
				Highlight:       Opaque(61, 174, 233),
				HighlightedText: Opaque(255, 255, 255),
			},
		},
	}
}

func TestCacheGetMemoizes(t *testing.T) {
	c := NewCache(schemeForTest())
	a := c.Get(Normal, StatusNormal, FontToken{})
	b := c.Get(Normal, StatusNormal, FontToken{})
	if a.CSS != b.CSS || a.Checksum() != b.Checksum() {
		t.Fatalf("expected identical memoized sheets")
	}
	if len(c.sheets) != 1 {
		t.Fatalf("expected exactly one cache entry, got %d", len(c.sheets))
	}
}

func TestGenerateSelectedSubstitutesHighlight(t *testing.T) {
	scheme := schemeForTest()
	normal := generate(scheme, Normal, StatusNormal, FontToken{})
	selected := generate(scheme, Normal, StatusSelected, FontToken{})

	if normal.CSS == selected.CSS {
		t.Fatalf("expected selected stylesheet to differ from normal")
	}
	wantBG := scheme.Get(Normal, Highlight).Hex()
	if !contains(selected.CSS, wantBG) {
		t.Fatalf("selected CSS missing highlight background %q:\n%s", wantBG, selected.CSS)
	}
}

func TestGenerateFontTokens(t *testing.T) {
	scheme := schemeForTest()
	sheet := generate(scheme, Normal, StatusNormal, FontToken{Family: "Noto Sans", Size: 10})
	if !contains(sheet.CSS, "Noto Sans") {
		t.Fatalf("expected font-family substitution in CSS:\n%s", sheet.CSS)
	}
	if !contains(sheet.CSS, "10px") {
		t.Fatalf("expected font-size substitution in CSS:\n%s", sheet.CSS)
	}
}

func TestChecksumDiffersAcrossGroups(t *testing.T) {
	scheme := &ColorScheme{groups: map[Group]map[Role]RGBA{
		Normal: {Text: Opaque(1, 2, 3), Background: Opaque(4, 5, 6)},
		Button: {Text: Opaque(7, 8, 9), Background: Opaque(10, 11, 12)},
	}}
	a := generate(scheme, Normal, StatusNormal, FontToken{})
	b := generate(scheme, Button, StatusNormal, FontToken{})
	if a.Checksum() == b.Checksum() {
		t.Fatalf("expected different checksums for different groups")
	}
}

func TestGenerateEmitsGroupPrefixedClasses(t *testing.T) {
	scheme := &ColorScheme{groups: map[Group]map[Role]RGBA{
		Normal: {Text: Opaque(1, 2, 3), Background: Opaque(4, 5, 6)},
		Button: {Text: Opaque(10, 20, 30), Background: Opaque(40, 50, 60)},
		View:   {Text: Opaque(70, 80, 90), Background: Opaque(100, 110, 120)},
	}}
	sheet := generate(scheme, Normal, StatusNormal, FontToken{})

	if !contains(sheet.CSS, ".ColorScheme-ButtonText") {
		t.Fatalf("expected group-prefixed ButtonText class:\n%s", sheet.CSS)
	}
	if !contains(sheet.CSS, scheme.Get(Button, Text).Hex()) {
		t.Fatalf("expected ButtonText class to use Button group's Text color:\n%s", sheet.CSS)
	}
	if !contains(sheet.CSS, ".ColorScheme-ViewBackground") {
		t.Fatalf("expected group-prefixed ViewBackground class:\n%s", sheet.CSS)
	}
	if contains(sheet.CSS, ".ColorScheme-NormalText") {
		t.Fatalf("Normal group should not get a prefixed class:\n%s", sheet.CSS)
	}
	if contains(sheet.CSS, ".ColorScheme-SelectionText") {
		t.Fatalf("Selection group should not get a prefixed class:\n%s", sheet.CSS)
	}
}

func TestGenerateGroupPrefixedClassesRespectSelectedStatus(t *testing.T) {
	scheme := &ColorScheme{groups: map[Group]map[Role]RGBA{
		Button: {
			Text:            Opaque(10, 20, 30),
			Highlight:       Opaque(200, 0, 0),
			HighlightedText: Opaque(0, 200, 0),
		},
	}}
	selected := generate(scheme, Normal, StatusSelected, FontToken{})
	if !contains(selected.CSS, ".ColorScheme-ButtonText { color: "+scheme.Get(Button, HighlightedText).Hex()) {
		t.Fatalf("expected selected ButtonText to substitute HighlightedText:\n%s", selected.CSS)
	}
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && indexOf(haystack, needle) >= 0
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
