package themepack

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func buildTarGz(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gzw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gzw)
	for name, content := range files {
		hdr := &tar.Header{Name: name, Mode: 0o644, Size: int64(len(content))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("WriteHeader: %v", err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("tar Close: %v", err)
	}
	if err := gzw.Close(); err != nil {
		t.Fatalf("gzip Close: %v", err)
	}
	return buf.Bytes()
}

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip Close: %v", err)
	}
	return buf.Bytes()
}

func TestExtractArchiveTarGz(t *testing.T) {
	data := buildTarGz(t, map[string]string{
		"breeze/metadata.desktop": "[Desktop Entry]\nName=Breeze",
		"breeze/colors":           "[Colors:Window]\nBackgroundNormal=255,255,255",
		"breeze/widgets/bg.svg":   "<svg></svg>",
	})

	destDir := t.TempDir()
	if err := ExtractArchive(data, "breeze.tar.gz", destDir); err != nil {
		t.Fatalf("ExtractArchive: %v", err)
	}

	for _, name := range []string{"breeze/metadata.desktop", "breeze/colors", "breeze/widgets/bg.svg"} {
		if _, err := os.Stat(filepath.Join(destDir, name)); err != nil {
			t.Fatalf("expected %s to be extracted: %v", name, err)
		}
	}
}

func TestExtractArchiveZip(t *testing.T) {
	data := buildZip(t, map[string]string{
		"oxygen/metadata.desktop": "[Desktop Entry]\nName=Oxygen",
		"oxygen/widgets/bg.svg":   "<svg></svg>",
	})

	destDir := t.TempDir()
	if err := ExtractArchive(data, "oxygen.zip", destDir); err != nil {
		t.Fatalf("ExtractArchive: %v", err)
	}

	if _, err := os.Stat(filepath.Join(destDir, "oxygen", "widgets", "bg.svg")); err != nil {
		t.Fatalf("expected nested file to be extracted: %v", err)
	}
}

func TestExtractArchiveUnsupportedFormat(t *testing.T) {
	destDir := t.TempDir()
	if err := ExtractArchive([]byte("data"), "theme.rar", destDir); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestSafeJoinNeutralizesPathTraversal(t *testing.T) {
	destDir := t.TempDir()
	got, err := safeJoin(destDir, "../../etc/passwd")
	if err != nil {
		t.Fatalf("safeJoin: %v", err)
	}
	if !bytes.HasPrefix([]byte(got), []byte(filepath.Clean(destDir)+string(filepath.Separator))) {
		t.Fatalf("safeJoin(%q) = %q escaped destDir", "../../etc/passwd", got)
	}
}

func TestSafeJoinAllowsNestedPath(t *testing.T) {
	destDir := t.TempDir()
	got, err := safeJoin(destDir, "breeze/widgets/bg.svg")
	if err != nil {
		t.Fatalf("safeJoin: %v", err)
	}
	want := filepath.Join(destDir, "breeze", "widgets", "bg.svg")
	if got != want {
		t.Fatalf("safeJoin = %q, want %q", got, want)
	}
}
