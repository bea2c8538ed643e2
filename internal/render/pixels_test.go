package render

import (
	"image/color"
	"testing"

	"physarum/internal/core"
)

type stubSim struct{ size core.Size }

func (s stubSim) Name() string { return "stub" }
func (s stubSim) Size() core.Size { return s.size }
func (s stubSim) Reset(int64) {}
func (s stubSim) Step() {}
func (s stubSim) Pixels(dst []byte) {
	for i := range dst {
		dst[i] = byte(i)
	}
}

func TestSnapshotCopiesPixels(t *testing.T) {
	img := Snapshot(stubSim{size: core.Size{W: 3, H: 2}})
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if img.Pix[5] != 5 || len(img.Pix) != 24 {
		t.Fatalf("pixels not copied: %v", img.Pix)
	}
}

func TestFlatten(t *testing.T) {
	buf := []byte{
		255, 255, 255, 255, // opaque white stays
		0, 0, 0, 0, // transparent takes the background
		255, 0, 0, 128, // half red over blue
	}
	Flatten(buf, color.RGBA{B: 200, A: 255})
	want := []byte{
		255, 255, 255, 255,
		0, 0, 200, 255,
		128, 0, 100, 255,
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("byte %d = %d, want %d (%v)", i, buf[i], want[i], buf)
		}
	}
}

func TestFlattenImageLeavesSourceAlone(t *testing.T) {
	img := Snapshot(stubSim{size: core.Size{W: 1, H: 1}})
	out := FlattenImage(img, color.RGBA{A: 255})
	if img.Pix[3] != 3 {
		t.Fatal("source image modified")
	}
	if out.Pix[3] != 255 {
		t.Fatalf("flattened alpha = %d", out.Pix[3])
	}
}
