package spacedevs

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"spacedash/pkg/errors"
)

// CheckImage verifies that data starts with a decodable image header and
// returns its format name
func CheckImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New(errors.ErrorTypeImage, "empty image body")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", errors.Wrap(errors.ErrorTypeImage, err, "unrecognized image content")
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return "", errors.New(errors.ErrorTypeImage, "image has no pixels")
	}
	return format, nil
}
