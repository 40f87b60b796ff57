// Package themepack installs, lists, prunes, and removes Plasma theme
// packs from GitHub release archives, letting the Theme Engine's
// desktoptheme tree be populated the same way the teacher's plugin
// repository manager populates its plugin installs: download a release
// asset, verify its checksum, extract it into place, and record the
// result in a local manifest.
//
// Adapted from the teacher's internal/repomanager (ManifestManager,
// GitHubClient, Verifier, Filter) and internal/repocli (the install/
// list/prune/remove command bodies); simplified from per-platform
// plugin binaries to single-archive theme directory trees, since a
// Plasma theme pack has no OS/arch variants.
package themepack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// Entry is one installed theme pack's manifest record.
type Entry struct {
	Name        string    `json:"name"`
	SourceRepo  string    `json:"source_repo"` // "owner/repo"
	Version     string    `json:"version"`     // release tag
	Checksum    string    `json:"checksum"`    // sha256 of the downloaded archive
	InstalledAt time.Time `json:"installed_at"`
	ThemeDir    string    `json:"theme_dir"` // path under the desktoptheme tree
}

// Manifest is the on-disk record of every installed theme pack.
type Manifest struct {
	Version     string           `json:"version"`
	LastUpdated time.Time        `json:"last_updated"`
	Packs       map[string]Entry `json:"packs"`
}

// ManifestManager loads, mutates, and persists a Manifest, tracking a
// dirty flag so Save is a no-op when nothing changed (teacher's
// repomanager.ManifestManager does the same).
type ManifestManager struct {
	manifest *Manifest
	path     string
	dirty    bool
}

// LoadManifest loads path, creating an empty manifest if it doesn't
// exist yet.
func LoadManifest(path string) (*ManifestManager, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is the caller-configured manifest location
	if err != nil {
		if os.IsNotExist(err) {
			mgr := &ManifestManager{
				manifest: &Manifest{Version: "1.0", Packs: map[string]Entry{}, LastUpdated: time.Now()},
				path:     path,
				dirty:    true,
			}
			return mgr, mgr.Save()
		}
		return nil, fmt.Errorf("reading theme pack manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing theme pack manifest: %w", err)
	}
	if manifest.Packs == nil {
		manifest.Packs = map[string]Entry{}
	}
	return &ManifestManager{manifest: &manifest, path: path}, nil
}

// Save writes the manifest to disk if it has unsaved changes.
func (m *ManifestManager) Save() error {
	if !m.dirty {
		return nil
	}
	m.manifest.LastUpdated = time.Now()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m.manifest); err != nil {
		return fmt.Errorf("encoding theme pack manifest: %w", err)
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing theme pack manifest: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		return fmt.Errorf("renaming theme pack manifest: %w", err)
	}
	m.dirty = false
	return nil
}

// Put records (or replaces) an installed pack's entry.
func (m *ManifestManager) Put(e Entry) {
	m.manifest.Packs[e.Name] = e
	m.dirty = true
}

// Get returns the entry for name, if installed.
func (m *ManifestManager) Get(name string) (Entry, bool) {
	e, ok := m.manifest.Packs[name]
	return e, ok
}

// Remove deletes name's manifest entry.
func (m *ManifestManager) Remove(name string) {
	if _, ok := m.manifest.Packs[name]; ok {
		delete(m.manifest.Packs, name)
		m.dirty = true
	}
}

// List returns every installed pack's entry, sorted by name.
func (m *ManifestManager) List() []Entry {
	out := make([]Entry, 0, len(m.manifest.Packs))
	for _, e := range m.manifest.Packs {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
