package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[generate]
internal_code = "500 internal"
log = false

[diagnostics]
max = 5

[[docs.combine]]
unit = "AppErrors"
cases = ["NotFound", "NotFound2"]
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, err := Load(nested)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Root != root {
		t.Fatalf("root = %q, want %q", m.Root, root)
	}
	want := Default()
	want.Generate.InternalCode = "500 internal"
	want.Generate.Log = false
	want.Diagnostics.Max = 5
	want.Docs.Combine = []CombineRule{{Unit: "AppErrors", Cases: []string{"NotFound", "NotFound2"}}}
	if diff := cmp.Diff(want, m.Config); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadNoManifest(t *testing.T) {
	dir := t.TempDir()
	if _, ok, err := FindManifest(dir); err != nil || ok {
		// Маловероятно, но в окружении выше temp может лежать jsonerr.toml.
		t.Skipf("manifest found above temp dir: ok=%v err=%v", ok, err)
	}
	if _, err := Load(dir); !errors.Is(err, ErrNoManifest) {
		t.Fatalf("expected ErrNoManifest, got %v", err)
	}
	m, err := LoadOrDefault(dir)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), m.Config); diff != "" {
		t.Fatalf("default mismatch:\n%s", diff)
	}
}

func TestLoadRejectsBadManifest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "[generate]\nfoo = 1\n"},
		{"empty internal code", "[generate]\ninternal_code = \" \"\n"},
		{"bad suffix", "[generate]\nsuffix = \"_gen.txt\"\n"},
		{"negative max", "[diagnostics]\nmax = -1\n"},
		{"combine arity", "[[docs.combine]]\nunit = \"U\"\ncases = [\"A\"]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			if _, err := LoadConfig(path); !errors.Is(err, ErrBadManifest) {
				t.Fatalf("expected ErrBadManifest, got %v", err)
			}
		})
	}
}

func TestInitRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path, err := Init(dir)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load written manifest: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("round trip mismatch:\n%s", diff)
	}
	if _, err := Init(dir); !errors.Is(err, ErrManifestExists) {
		t.Fatalf("second init: %v", err)
	}
}

func TestConfigDigest(t *testing.T) {
	a := Default()
	b := Default()
	if a.Digest() != b.Digest() {
		t.Fatalf("equal configs must hash equally")
	}
	b.Generate.Log = false
	if a.Digest() == b.Digest() {
		t.Fatalf("log flag must change the digest")
	}
	c := Default()
	c.Docs.Combine = []CombineRule{{Unit: "U", Cases: []string{"A", "B"}}}
	if a.Digest() != c.Digest() {
		t.Fatalf("combine rules must not change the digest")
	}
}
