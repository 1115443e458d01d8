package svgraster

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Eryk-dev/svg-crop-api/svgdoc"
)

func TestMaskFillsClipRegion(t *testing.T) {
	mask := Mask(100, 80, svgdoc.Box{X: 10, Y: 20, W: 30, H: 40})

	if got := mask.Bounds(); got.Dx() != 100 || got.Dy() != 80 {
		t.Fatalf("mask size %v, want 100x80", got)
	}

	inside := [][2]int{{11, 21}, {25, 40}, {38, 58}}
	for _, p := range inside {
		if v := mask.GrayAt(p[0], p[1]).Y; v != 255 {
			t.Errorf("pixel (%d,%d) = %d, want 255", p[0], p[1], v)
		}
	}
	outside := [][2]int{{0, 0}, {5, 40}, {25, 5}, {60, 40}, {25, 70}, {99, 79}}
	for _, p := range outside {
		if v := mask.GrayAt(p[0], p[1]).Y; v != 0 {
			t.Errorf("pixel (%d,%d) = %d, want 0", p[0], p[1], v)
		}
	}
}

func TestMaskRoundsToNearestPixel(t *testing.T) {
	mask := Mask(20, 20, svgdoc.Box{X: 4.6, Y: 4.6, W: 10, H: 10})
	// Rounded to (5,5)-(15,15).
	if v := mask.GrayAt(6, 6).Y; v != 255 {
		t.Errorf("pixel (6,6) = %d, want 255", v)
	}
	if v := mask.GrayAt(4, 4).Y; v != 0 {
		t.Errorf("pixel (4,4) = %d, want 0", v)
	}
}

func TestMaskClampsToCanvas(t *testing.T) {
	// A clip reaching past the canvas must not panic and must still fill
	// the overlapping part.
	mask := Mask(50, 50, svgdoc.Box{X: 40, Y: 40, W: 100, H: 100})
	if v := mask.GrayAt(45, 45).Y; v != 255 {
		t.Errorf("pixel (45,45) = %d, want 255", v)
	}
	if v := mask.GrayAt(10, 10).Y; v != 0 {
		t.Errorf("pixel (10,10) = %d, want 0", v)
	}
}

func TestWriteMask(t *testing.T) {
	dir := t.TempDir()
	mask := Mask(10, 10, svgdoc.Box{X: 0, Y: 0, W: 5, H: 5})

	path, err := WriteMask(dir, 3, mask)
	if err != nil {
		t.Fatalf("WriteMask: %s", err)
	}
	if filepath.Base(path) != "mask_region3.png" {
		t.Errorf("unexpected file name %q", filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening written mask: %s", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding written mask: %s", err)
	}
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 10 {
		t.Errorf("written mask size %v, want 10x10", b)
	}
}
