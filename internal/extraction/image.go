package extraction

import (
	"bytes"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"

	apperrors "kaihelper/internal/errors"
)

const jpegQuality = 90

// NormalizeImage decodes uploaded image bytes of unknown format (JPEG, PNG,
// GIF, or WebP) and re-encodes them as JPEG, the format the vision model is
// prompted with. Undecodable input fails here, before any external call is
// made.
func NormalizeImage(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidImage, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidImage, err)
	}
	return buf.Bytes(), nil
}
