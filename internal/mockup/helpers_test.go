package mockup

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/youruser/mockupapp/internal/imageops/native"
)

func writeImage(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, imaging.Save(img, p))
	return p
}

func readNRGBA(t *testing.T, p string) *image.NRGBA {
	t.Helper()
	img, err := imaging.Open(p)
	require.NoError(t, err)
	return imaging.Clone(img)
}

func grayImage(w, h int, f func(x, y int) uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := f(x, y)
			img.SetNRGBA(x, y, color.NRGBA{v, v, v, 255})
		}
	}
	return img
}

func newTestEngine(t *testing.T) (*Engine, *recorder) {
	t.Helper()
	rec := newRecorder(native.New())
	e := NewEngine(rec, nil)
	e.TempDir = t.TempDir()
	return e, rec
}
