package colormap

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadScale(t *testing.T) {
	t.Parallel()

	s, err := LoadScale("viridis")
	if err != nil {
		t.Fatalf("LoadScale failed: %v", err)
	}
	if s.Len() != 11 || s[0] != "#440154" || s.Last() != "#fde725" {
		t.Fatalf("unexpected viridis palette: %v", s)
	}

	if _, err := LoadScale("no-such-palette"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadScale_ReturnsCopy(t *testing.T) {
	t.Parallel()

	s := MustLoadScale("magma")
	s[0] = "#ffffff"
	if again := MustLoadScale("magma"); again[0] != "#000004" {
		t.Fatalf("registry palette was mutated through a loaded copy: %v", again)
	}
}

func TestBuiltinNames(t *testing.T) {
	t.Parallel()

	reg, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin failed: %v", err)
	}
	names := reg.Names()
	if !slices.IsSorted(names) {
		t.Fatalf("names not sorted: %v", names)
	}
	for _, want := range []string{"viridis", "plasma", "inferno", "magma", "seurat", "category20", "spectral"} {
		if !reg.Has(want) {
			t.Errorf("expected builtin palette %q", want)
		}
	}
	if reg.Len() != len(names) {
		t.Fatalf("Len() = %d, want %d", reg.Len(), len(names))
	}
}

func TestRegistryWith(t *testing.T) {
	t.Parallel()

	base, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin failed: %v", err)
	}

	extra := map[string]ColorScale{
		"site":    {"#000000", "#ffffff"},
		"viridis": {"#111111"},
	}
	reg, err := base.With(extra)
	if err != nil {
		t.Fatalf("With failed: %v", err)
	}

	got, err := reg.Load("site")
	if err != nil {
		t.Fatalf("Load(site) failed: %v", err)
	}
	if diff := cmp.Diff(ColorScale{"#000000", "#ffffff"}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	overridden, _ := reg.Load("viridis")
	if diff := cmp.Diff(ColorScale{"#111111"}, overridden); diff != "" {
		t.Fatalf("override not applied (-want +got):\n%s", diff)
	}

	if base.Has("site") {
		t.Fatalf("With modified the base registry")
	}
	if orig, _ := base.Load("viridis"); orig.Len() != 11 {
		t.Fatalf("With modified a base palette: %v", orig)
	}

	extra["site"][0] = "#ff0000"
	if again, _ := reg.Load("site"); again[0] != "#000000" {
		t.Fatalf("registry aliases the caller's map values")
	}
}

func TestRegistryWith_Invalid(t *testing.T) {
	t.Parallel()

	base, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin failed: %v", err)
	}
	if _, err := base.With(map[string]ColorScale{"": {"#000000"}}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for empty name, got %v", err)
	}
	if _, err := base.With(map[string]ColorScale{"empty": {}}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for empty palette, got %v", err)
	}
}

func TestReadScaleDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := WriteScaleFile(filepath.Join(dir, "plain.json"), ColorScale{"#000000", "#ffffff"}); err != nil {
		t.Fatalf("write plain: %v", err)
	}
	if err := WriteScaleFile(filepath.Join(dir, "packed.json.zst"), ColorScale{"#ff0000", "#00ff00", "#0000ff"}); err != nil {
		t.Fatalf("write packed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatalf("write readme: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.json"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	scales, err := ReadScaleDir(dir)
	if err != nil {
		t.Fatalf("ReadScaleDir failed: %v", err)
	}
	want := map[string]ColorScale{
		"plain":  {"#000000", "#ffffff"},
		"packed": {"#ff0000", "#00ff00", "#0000ff"},
	}
	if diff := cmp.Diff(want, scales); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestReadScaleDir_Duplicate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"dup.json", "dup.json.zst"} {
		if err := WriteScaleFile(filepath.Join(dir, name), ColorScale{"#000000"}); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if _, err := ReadScaleDir(dir); err == nil {
		t.Fatalf("expected error for duplicate palette name")
	}
}

func TestReadScaleFile_Empty(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(p, []byte("[]"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadScaleFile(p); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestScaleName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"/x/viridis.json":    "viridis",
		"blues.json.zst":     "blues",
		"dir/with.dots.json": "with.dots",
	}
	for in, want := range cases {
		got, ok := ScaleName(in)
		if !ok || got != want {
			t.Errorf("ScaleName(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := ScaleName("palette.csv"); ok {
		t.Errorf("expected .csv to be rejected")
	}
}
