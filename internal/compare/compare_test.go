package compare

import (
	"errors"
	"math"
	"testing"

	"github.com/ironsheep/bmp-tools-mcp/internal/bitmap"
)

func createSolidBuffer(t *testing.T, width, height int, hasAlpha bool, c bitmap.BGRColor) *bitmap.Buffer {
	t.Helper()
	b, err := bitmap.New(width, height, hasAlpha)
	if err != nil {
		t.Fatalf("bitmap.New failed: %v", err)
	}
	b.Fill(c)
	return b
}

// createHaystack returns a 10x10 solid image with a 2x2 needle stamped at (nx, ny),
// along with the needle itself.
func createHaystack(t *testing.T, nx, ny int) (*bitmap.Buffer, *bitmap.Buffer) {
	t.Helper()
	bg := bitmap.BGRColor{B: 40, G: 40, R: 40}
	hay := createSolidBuffer(t, 10, 10, false, bg)
	needle := createSolidBuffer(t, 2, 2, false, bg)
	colors := []bitmap.BGRColor{{R: 255}, {G: 255}, {B: 255}, {R: 1, G: 2, B: 3}}
	for i, c := range colors {
		x, y := i%2, i/2
		needle.Set(x, y, c)
		hay.Set(nx+x, ny+y, c)
	}
	return hay, needle
}

func TestPixelEqual(t *testing.T) {
	c := bitmap.BGRColor{B: 1, G: 2, R: 3}
	a := createSolidBuffer(t, 4, 3, false, c)

	alphaCopy := createSolidBuffer(t, 4, 3, true, c)
	alphaCopy.SetAlpha(1, 1, 77)

	changed := a.Clone()
	changed.Set(3, 2, bitmap.BGRColor{B: 1, G: 2, R: 4})

	tests := []struct {
		name string
		b    *bitmap.Buffer
		want bool
	}{
		{"identical clone", a.Clone(), true},
		{"same colors different format", alphaCopy, true},
		{"last pixel differs", changed, false},
		{"different width", createSolidBuffer(t, 5, 3, false, c), false},
		{"different height", createSolidBuffer(t, 4, 2, false, c), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PixelEqual(a, tt.b); got != tt.want {
				t.Errorf("PixelEqual = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindSubImage(t *testing.T) {
	hay, needle := createHaystack(t, 3, 4)
	x, y, found := FindSubImage(hay, needle)
	if !found || x != 3 || y != 4 {
		t.Errorf("FindSubImage = (%d, %d, %v), want (3, 4, true)", x, y, found)
	}
}

func TestFindSubImage_FirstMatch(t *testing.T) {
	hay, needle := createHaystack(t, 6, 5)
	for i := 0; i < 4; i++ {
		hay.Set(1+i%2, 2+i/2, needle.At(i%2, i/2))
	}
	x, y, found := FindSubImage(hay, needle)
	if !found || x != 1 || y != 2 {
		t.Errorf("FindSubImage = (%d, %d, %v), want the earlier match (1, 2)", x, y, found)
	}
}

func TestFindSubImage_EdgeOffsetsSkipped(t *testing.T) {
	tests := []struct {
		name   string
		nx, ny int
		found  bool
	}{
		{"origin", 0, 0, true},
		{"last tried column", 7, 0, true},
		{"last tried row", 0, 7, true},
		{"touching right edge", 8, 3, false},
		{"touching bottom edge", 3, 8, false},
		{"bottom-right corner", 8, 8, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hay, needle := createHaystack(t, tt.nx, tt.ny)
			x, y, found := FindSubImage(hay, needle)
			if found != tt.found {
				t.Fatalf("found = %v, want %v", found, tt.found)
			}
			if found && (x != tt.nx || y != tt.ny) {
				t.Errorf("position (%d,%d), want (%d,%d)", x, y, tt.nx, tt.ny)
			}
		})
	}
}

func TestFindSubImage_NotFound(t *testing.T) {
	hay := createSolidBuffer(t, 10, 10, false, bitmap.BGRColor{})
	needle := createSolidBuffer(t, 3, 3, false, bitmap.BGRColor{R: 9})
	if _, _, found := FindSubImage(hay, needle); found {
		t.Error("absent needle reported as found")
	}

	// A needle as large as the haystack leaves no offsets to try.
	if _, _, found := FindSubImage(hay, hay.Clone()); found {
		t.Error("same-size needle should not be found")
	}
	if _, _, found := FindSubImage(needle, hay); found {
		t.Error("needle larger than haystack should not be found")
	}
	if _, _, found := FindSubImage(nil, needle); found {
		t.Error("nil haystack should not match")
	}
}

func TestDiff_Identical(t *testing.T) {
	a := createSolidBuffer(t, 3, 3, false, bitmap.BGRColor{B: 10, G: 200, R: 30})
	r, err := Diff(a, a.Clone())
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if !r.Identical || r.PixelsDifferent != 0 || r.MeanDeltaE != 0 || r.SimilarityScore != 1 {
		t.Errorf("unexpected report for identical images: %+v", r)
	}
	if r.TotalPixels != 9 {
		t.Errorf("TotalPixels: got %d, want 9", r.TotalPixels)
	}
}

func TestDiff_BlackWhite(t *testing.T) {
	a := createSolidBuffer(t, 2, 2, false, bitmap.BGRColor{})
	b := a.Clone()
	b.Set(0, 0, bitmap.BGRColor{B: 255, G: 255, R: 255})

	r, err := Diff(a, b)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if r.PixelsDifferent != 1 || r.Identical {
		t.Errorf("PixelsDifferent: got %d", r.PixelsDifferent)
	}
	if r.SimilarityScore != 0.75 {
		t.Errorf("SimilarityScore: got %v, want 0.75", r.SimilarityScore)
	}
	// Black to white spans the whole lightness axis, a CIEDE2000 distance of about 1.
	if math.Abs(r.MaxDeltaE-1) > 0.01 {
		t.Errorf("MaxDeltaE: got %v, want about 1", r.MaxDeltaE)
	}
	if math.Abs(r.MeanDeltaE-r.MaxDeltaE/4) > 1e-9 {
		t.Errorf("MeanDeltaE: got %v, want %v", r.MeanDeltaE, r.MaxDeltaE/4)
	}

	mean, err := MeanDeltaE(a, b)
	if err != nil {
		t.Fatalf("MeanDeltaE failed: %v", err)
	}
	if mean != r.MeanDeltaE {
		t.Errorf("MeanDeltaE: got %v, want %v", mean, r.MeanDeltaE)
	}
}

func TestDiff_Perceptual(t *testing.T) {
	base := createSolidBuffer(t, 1, 1, false, bitmap.BGRColor{B: 100, G: 100, R: 100})
	near := createSolidBuffer(t, 1, 1, false, bitmap.BGRColor{B: 101, G: 100, R: 100})
	far := createSolidBuffer(t, 1, 1, false, bitmap.BGRColor{B: 100, G: 100, R: 220})

	dNear, err := MeanDeltaE(base, near)
	if err != nil {
		t.Fatalf("MeanDeltaE failed: %v", err)
	}
	dFar, err := MeanDeltaE(base, far)
	if err != nil {
		t.Fatalf("MeanDeltaE failed: %v", err)
	}
	if !(dNear > 0 && dNear < dFar) {
		t.Errorf("expected 0 < near (%v) < far (%v)", dNear, dFar)
	}
}

func TestDiff_SizeMismatch(t *testing.T) {
	a := createSolidBuffer(t, 2, 2, false, bitmap.BGRColor{})
	b := createSolidBuffer(t, 2, 3, false, bitmap.BGRColor{})

	var geoErr *bitmap.GeometryError
	if _, err := Diff(a, b); !errors.As(err, &geoErr) {
		t.Errorf("expected GeometryError, got %v", err)
	}
	if _, err := MeanDeltaE(a, nil); err == nil {
		t.Error("nil buffer should fail")
	}
}
