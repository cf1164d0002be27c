package artwork

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// QRCard places a QR code centred on a white square card with margin pixels of
// padding on every side, so the code keeps a quiet zone after warping.
func QRCard(qr image.Image, size, margin int) *image.NRGBA {
	if margin < 0 {
		margin = 0
	}
	inner := size - 2*margin
	if inner < 1 {
		inner = 1
	}
	card := imaging.New(size, size, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	q := imaging.Resize(qr, inner, inner, imaging.NearestNeighbor)
	return imaging.Paste(card, q, image.Pt(margin, margin))
}
