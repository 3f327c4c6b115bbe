package registry

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSourceInterfaces(t *testing.T) {
	var _ RegistrationSource = (*FileSource)(nil)
	var _ FlatListSource = (*FileSource)(nil)
}

func writeFixture(t *testing.T, root string, kind, id string, v any) {
	t.Helper()
	dir := filepath.Join(root, kind, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.json"), b, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFileSourceRegistrationResolve(t *testing.T) {
	root := t.TempDir()
	idx := registrationIndex{Items: []registrationItem{{
		Lower: "1.0.0", Upper: "1.0.0",
		Items: []registrationLeaf{{CatalogEntry: jsonEntry("Pkg", "1.0.0")}},
	}}}
	writeFixture(t, root, "registrations", "pkg", idx)

	src := NewFileSource(root)
	r, err := New(src.HTTPClient(), src)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := r.ResolveAll(context.Background(), "Pkg")
	if err != nil {
		t.Fatalf("ResolveAll() error = %v", err)
	}
	if len(got) != 1 || got[0].Identity.Version.String() != "1.0.0" {
		t.Errorf("got %v, want one entry at 1.0.0", got)
	}
}

func TestFileSourceMissingIsAbsent(t *testing.T) {
	root := t.TempDir()
	src := NewFileSource(root)
	r, err := New(src.HTTPClient(), src)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := r.ResolveAll(context.Background(), "Nope")
	if err != nil {
		t.Fatalf("ResolveAll() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestFileSourceURLs(t *testing.T) {
	src := NewFileSource("/registry/root")

	if got := src.RegistrationURL("Pkg"); got != "file:///registry/root/registrations/pkg/index.json" {
		t.Errorf("RegistrationURL() = %q", got)
	}
	if got := src.FlatListingURL("Pkg"); got != "file:///registry/root/flat/pkg/index.json" {
		t.Errorf("FlatListingURL() = %q", got)
	}
}
