package themepack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Manager installs, lists, prunes, and removes theme packs under a
// single desktoptheme root directory, tying together the GitHub
// release lookup, download/checksum verification, archive extraction,
// and manifest persistence, the way the teacher's repocli command
// bodies drive its repomanager package.
type Manager struct {
	gh       *GitHubClient
	manifest *ManifestManager
	rootDir  string // desktoptheme tree root, one subdirectory per installed pack
}

// NewManager opens (or creates) the manifest at manifestPath and binds
// it to rootDir, the directory under which each installed pack gets
// its own subdirectory.
func NewManager(rootDir, manifestPath string) (*Manager, error) {
	mgr, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating theme pack root %s: %w", rootDir, err)
	}
	return &Manager{gh: NewGitHubClient(), manifest: mgr, rootDir: rootDir}, nil
}

// Install downloads versionSpec ("latest", "all" is rejected here since
// Install targets exactly one release, or an exact tag) of repo
// ("owner/repo"), extracts it into its own subdirectory of the
// manager's root, and records the result in the manifest together with
// the SHA256 of the downloaded archive. That checksum is recorded only;
// it is not compared with any checksum the release publishes.
func (m *Manager) Install(ctx context.Context, repo, versionSpec string) (*Entry, error) {
	owner, name, err := ParseRepo(repo)
	if err != nil {
		return nil, err
	}
	if versionSpec == "all" {
		return nil, fmt.Errorf("install targets a single release; version %q is not accepted", versionSpec)
	}

	releases, err := m.gh.Releases(ctx, owner, name, versionSpec)
	if err != nil {
		return nil, err
	}
	if len(releases) == 0 {
		return nil, fmt.Errorf("no releases found for %s", repo)
	}
	release := releases[0]

	var archive *Asset
	for i := range release.Assets {
		if isThemeArchive(release.Assets[i].Name) {
			archive = &release.Assets[i]
			break
		}
	}
	if archive == nil {
		return nil, fmt.Errorf("release %s of %s has no theme pack archive asset", release.TagName, repo)
	}

	data, checksum, err := Download(archive.DownloadURL)
	if err != nil {
		return nil, err
	}

	packName := stripArchiveExtension(archive.Name)
	themeDir := filepath.Join(m.rootDir, packName)
	if err := os.RemoveAll(themeDir); err != nil {
		return nil, fmt.Errorf("clearing previous install of %s: %w", packName, err)
	}
	if err := os.MkdirAll(themeDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", themeDir, err)
	}

	if err := ExtractArchive(data, archive.Name, themeDir); err != nil {
		return nil, fmt.Errorf("extracting %s: %w", packName, err)
	}

	entry := Entry{
		Name:       packName,
		SourceRepo: repo,
		Version:    release.TagName,
		Checksum:   checksum,
		ThemeDir:   themeDir,
	}
	m.manifest.Put(entry)
	if err := m.manifest.Save(); err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns every installed pack's manifest entry.
func (m *Manager) List() []Entry {
	return m.manifest.List()
}

// Remove deletes name's extracted theme directory and manifest entry.
func (m *Manager) Remove(name string) error {
	entry, ok := m.manifest.Get(name)
	if !ok {
		return fmt.Errorf("theme pack %q is not installed", name)
	}
	if err := os.RemoveAll(entry.ThemeDir); err != nil {
		return fmt.Errorf("removing %s: %w", entry.ThemeDir, err)
	}
	m.manifest.Remove(name)
	return m.manifest.Save()
}

// Prune removes every installed pack not named in keep, returning the
// names it removed. Adapted from the teacher's PruneValidator, which
// validates downloads against an asset allowlist before pruning; a
// theme pack has no such per-asset concern once installed, so pruning
// here is driven purely by the caller's keep set (e.g. packs still
// referenced by a theme configuration).
func (m *Manager) Prune(keep map[string]bool) ([]string, error) {
	var removed []string
	for _, e := range m.manifest.List() {
		if keep[e.Name] {
			continue
		}
		if err := m.Remove(e.Name); err != nil {
			return removed, err
		}
		removed = append(removed, e.Name)
	}
	sort.Strings(removed)
	return removed, nil
}
