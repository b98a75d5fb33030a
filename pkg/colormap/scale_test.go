package colormap

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var letters = ColorScale{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}

func TestSample(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		scale ColorScale
		count int
		want  ColorScale
	}{
		{"three", letters, 3, ColorScale{"a", "d", "j"}},
		{"exact", letters, 10, letters},
		{"clamped", letters, 15, letters},
		{"one", letters, 1, ColorScale{"j"}},
		{"two", letters, 2, ColorScale{"a", "j"}},
		{"five", letters, 5, ColorScale{"a", "c", "e", "g", "j"}},
		// step 1.5: round(1.5) must go up to 2
		{"halfAwayFromZero", ColorScale{"0", "1", "2", "3", "4", "5"}, 4, ColorScale{"0", "2", "3", "5"}},
		{"singleColor", ColorScale{"x"}, 4, ColorScale{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sample(tt.scale, tt.count)
			if err != nil {
				t.Fatalf("Sample(%d) failed: %v", tt.count, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Sample(%d) mismatch (-want +got):\n%s", tt.count, diff)
			}
		})
	}
}

func TestSample_InvalidArgument(t *testing.T) {
	t.Parallel()

	if _, err := Sample(ColorScale{}, 5); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for empty scale, got %v", err)
	}
	if _, err := Sample(ColorScale(nil), 5); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for nil scale, got %v", err)
	}
	for _, n := range []int{0, -1} {
		if _, err := Sample(letters, n); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument for count %d, got %v", n, err)
		}
	}
}

func TestSample_Properties(t *testing.T) {
	t.Parallel()

	reg, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin failed: %v", err)
	}

	for _, name := range reg.Names() {
		p, err := reg.Load(name)
		if err != nil {
			t.Fatalf("Load(%q) failed: %v", name, err)
		}
		full, err := Sample(p, len(p))
		if err != nil {
			t.Fatalf("%s: Sample(full) failed: %v", name, err)
		}
		if diff := cmp.Diff(p, full); diff != "" {
			t.Fatalf("%s: Sample(len) should return the palette unchanged:\n%s", name, diff)
		}

		for n := 1; n <= len(p)+3; n++ {
			got, err := Sample(p, n)
			if err != nil {
				t.Fatalf("%s: Sample(%d) failed: %v", name, n, err)
			}
			if want := min(n, len(p)); len(got) != want {
				t.Fatalf("%s: Sample(%d) returned %d colors, want %d", name, n, len(got), want)
			}
			if got[len(got)-1] != p.Last() {
				t.Fatalf("%s: Sample(%d) ends with %s, want %s", name, n, got[len(got)-1], p.Last())
			}
			if n > len(p) {
				if diff := cmp.Diff(full, got); diff != "" {
					t.Fatalf("%s: Sample(%d) should equal Sample(len):\n%s", name, n, diff)
				}
			}
			assertOrdered(t, p, got)

			again, _ := Sample(p, n)
			if diff := cmp.Diff(got, again); diff != "" {
				t.Fatalf("%s: Sample(%d) not deterministic:\n%s", name, n, diff)
			}
		}
	}
}

// assertOrdered checks that sample is a strictly increasing subsequence of scale.
func assertOrdered(t *testing.T, scale, sample ColorScale) {
	t.Helper()

	pos := make(map[string]int, len(scale))
	for i, c := range scale {
		if _, dup := pos[c]; !dup {
			pos[c] = i
		}
	}
	prev := -1
	for _, c := range sample {
		i, ok := pos[c]
		if !ok {
			t.Fatalf("sampled color %s not in scale", c)
		}
		if i <= prev {
			t.Fatalf("sample %v is not ordered like %v", sample, scale)
		}
		prev = i
	}
}

func TestSample_DoesNotAlias(t *testing.T) {
	t.Parallel()

	src := ColorScale{"a", "b", "c"}
	got, err := src.Sample(3)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	got[0] = "z"
	if src[0] != "a" {
		t.Fatalf("Sample result aliases its input")
	}
}

func TestSample_Generic(t *testing.T) {
	t.Parallel()

	got, err := Sample([]int{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, 3)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if diff := cmp.Diff([]int{10, 40, 100}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSample_Concurrent(t *testing.T) {
	t.Parallel()

	p := MustLoadScale("viridis")
	want, _ := Sample(p, 5)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Sample(p, 5)
			if err != nil {
				errs <- err
				return
			}
			if diff := cmp.Diff(want, got); diff != "" {
				errs <- fmt.Errorf("concurrent sample mismatch:\n%s", diff)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestGradient(t *testing.T) {
	t.Parallel()

	got, err := Gradient(ColorScale{"#000000", "#ffffff"}, 3)
	if err != nil {
		t.Fatalf("Gradient failed: %v", err)
	}
	want := ColorScale{"#000000", "#808080", "#ffffff"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	one, err := Gradient(ColorScale{"#000000", "#ffffff"}, 1)
	if err != nil {
		t.Fatalf("Gradient(1) failed: %v", err)
	}
	if diff := cmp.Diff(ColorScale{"#ffffff"}, one); diff != "" {
		t.Fatalf("Gradient(1) mismatch (-want +got):\n%s", diff)
	}

	if _, err := Gradient(ColorScale{"#000000"}, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := Gradient(ColorScale{"not-a-color"}, 2); err == nil {
		t.Fatalf("expected parse error for invalid color")
	}
}
