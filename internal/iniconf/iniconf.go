// Package iniconf reads the INI-style files the Theme Engine consumes:
// the per-theme "plasmarc" override file, the global settings file
// ($XDG_CONFIG_HOME/plasmarc) and the KDE "colors" color-scheme file.
//
// No INI-parsing library appears anywhere in the retrieved example
// corpus, so this reader is a small hand-rolled stdlib scanner rather than
// an ecosystem dependency (see DESIGN.md).
package iniconf

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// File is a parsed INI document: a map of section name (empty string for
// keys before any [section] header) to key/value pairs. The order of
// sections and keys in the file is not kept.
type File struct {
	sections map[string]map[string]string
}

// Parse reads and parses path. A file that cannot be opened, including a
// missing one, returns a nil *File and the os.Open error, so a missing
// file can be told apart with errors.Is(err, os.ErrNotExist).
func Parse(path string) (*File, error) {
	f, err := os.Open(path) // #nosec G304 - theme-tree path controlled by the Theme Engine
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc := &File{sections: map[string]map[string]string{"": {}}}
	section := ""

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			if _, ok := doc.sections[section]; !ok {
				doc.sections[section] = map[string]string{}
			}
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		doc.sections[section][strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", path, err)
	}
	return doc, nil
}

// Get returns the value for (section, key) and whether it was present.
func (f *File) Get(section, key string) (string, bool) {
	if f == nil {
		return "", false
	}
	vals, ok := f.sections[section]
	if !ok {
		return "", false
	}
	v, ok := vals[key]
	return v, ok
}

// Section returns the full key/value map for a section, or nil if absent.
func (f *File) Section(section string) map[string]string {
	if f == nil {
		return nil
	}
	return f.sections[section]
}

// Sections returns the names of all sections present in the document.
func (f *File) Sections() []string {
	if f == nil {
		return nil
	}
	names := make([]string, 0, len(f.sections))
	for name := range f.sections {
		names = append(names, name)
	}
	return names
}

// RGB parses a "r,g,b" triple as used by KDE color-scheme files.
func RGB(value string) (r, g, b uint8, err error) {
	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid color triple %q: expected r,g,b", value)
	}
	vals := make([]uint8, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 255 {
			return 0, 0, 0, fmt.Errorf("invalid color component %q in %q", p, value)
		}
		vals[i] = uint8(n)
	}
	return vals[0], vals[1], vals[2], nil
}
