package artwork

import (
	"bytes"
	"context"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/youruser/mockupapp/internal/domain"
	"github.com/youruser/mockupapp/internal/util"
)

// DownloadImage fetches url and decodes it as an image.
func DownloadImage(ctx context.Context, url string) (image.Image, error) {
	body, err := util.GetBytes(ctx, url)
	if err != nil {
		return nil, &domain.OpError{Op: "artwork.download", Kind: domain.KindExternal, Path: url, Err: err}
	}
	img, err := imaging.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, &domain.OpError{Op: "artwork.download", Kind: domain.KindInvalidRequest, Path: url, Err: err}
	}
	return img, nil
}
