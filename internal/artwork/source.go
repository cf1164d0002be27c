// Package artwork turns the ways a caller can supply artwork (a local file,
// a URL or QR text) into an image file the pipeline can read.
package artwork

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/youruser/mockupapp/internal/domain"
)

// Source describes one artwork. Exactly one of Path, URL and QRText is set.
type Source struct {
	Path   string
	URL    string
	QRText string
	// QRSize is the card size for QR artwork; 0 means DefaultQRSize.
	QRSize int
}

func (s Source) Validate() error {
	n := 0
	for _, v := range []string{s.Path, s.URL, s.QRText} {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	bad := func(msg string) error {
		return &domain.OpError{Op: "artwork.source", Kind: domain.KindInvalidRequest, Err: errors.New(msg)}
	}
	switch {
	case n == 0:
		return bad("one of path, url or qr text is required")
	case n > 1:
		return bad("path, url and qr text are mutually exclusive")
	case s.URL != "" && !strings.HasPrefix(s.URL, "http://") && !strings.HasPrefix(s.URL, "https://"):
		return bad("url must be http or https")
	case s.QRSize < 0 || s.QRSize > MaxQRSize:
		return bad(fmt.Sprintf("qr size must be between 0 and %d", MaxQRSize))
	}
	return nil
}

// Materialize returns a path to the artwork image. Local files are returned
// as is; downloaded and generated artwork is written as PNG into dir.
func (s Source) Materialize(ctx context.Context, dir string) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}

	var img image.Image
	switch {
	case s.Path != "":
		if _, err := os.Stat(s.Path); err != nil {
			return "", &domain.OpError{Op: "artwork.source", Kind: domain.KindInvalidRequest, Path: s.Path, Err: err}
		}
		return s.Path, nil
	case s.URL != "":
		var err error
		if img, err = DownloadImage(ctx, s.URL); err != nil {
			return "", err
		}
	default:
		size := s.QRSize
		if size == 0 {
			size = DefaultQRSize
		}
		qr, err := GenerateQRImage(s.QRText, size)
		if err != nil {
			return "", &domain.OpError{Op: "artwork.qr", Kind: domain.KindInvalidRequest, Err: err}
		}
		img = QRCard(qr, size, size/10)
	}

	out := filepath.Join(dir, "artwork.png")
	if err := imaging.Save(img, out); err != nil {
		return "", fmt.Errorf("save artwork: %w", err)
	}
	return out, nil
}
