package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/danielokoye/submittal-scan/internal/common"
)

// CropTop returns the top slice of a PNG-encoded page image, re-encoded as
// PNG. The slice keeps the full width and floor(height*percentage/100) rows.
// Manufacturer and product labels conventionally sit near the top of a page,
// so the extractor call only needs this region.
func CropTop(pngBytes []byte, percentage int) ([]byte, error) {
	if percentage <= 0 || percentage > 100 {
		return nil, common.NewAppError("CROP_ERROR",
			fmt.Sprintf("percentage %d out of range (0,100]", percentage), common.ErrInvalidInput)
	}

	img, err := png.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		return nil, fmt.Errorf("decode page image: %w", err)
	}

	bounds := img.Bounds()
	cropHeight := bounds.Dy() * percentage / 100
	if cropHeight == 0 {
		return nil, common.NewAppError("CROP_ERROR", "crop region is empty", common.ErrInvalidInput)
	}

	rect := image.Rect(0, 0, bounds.Dx(), cropHeight)
	cropped := image.NewRGBA(rect)
	draw.Draw(cropped, rect, img, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("encode cropped image: %w", err)
	}
	return buf.Bytes(), nil
}
