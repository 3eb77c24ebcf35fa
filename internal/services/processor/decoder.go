package processor

import (
	"bytes"
	"fmt"
	"image"

	"github.com/adrium/goheif"
	"github.com/disintegration/imaging"
	"github.com/phambaophuc/image-watermark/pkg/utils"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp"
)

// DecodeImage decodes a source image with its EXIF orientation applied.
func (p *ImageProcessor) DecodeImage(data []byte) (image.Image, error) {
	if utils.IsHeifHeader(data) {
		img, err := goheif.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: heif: %v", ErrDecode, err)
		}
		return orient(img, data), nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// orient applies the EXIF orientation tag of data to img.
func orient(img image.Image, data []byte) image.Image {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return img
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return img
	}
	o, err := tag.Int(0)
	if err != nil {
		return img
	}

	// 1=normal, 2=flip-h, 3=180, 4=flip-v, 5=transpose, 6=270, 7=transverse, 8=90
	switch o {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}
