package processor

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"
)

// OutputFormat is the encoding of a watermarked image.
type OutputFormat int

const (
	FormatPNG OutputFormat = iota
	FormatJPEG
)

// FormatForName picks JPEG for names ending in .jpg or .jpeg and PNG for
// anything else. The match is case-sensitive.
func FormatForName(name string) OutputFormat {
	if strings.HasSuffix(name, ".jpg") || strings.HasSuffix(name, ".jpeg") {
		return FormatJPEG
	}
	return FormatPNG
}

func (f OutputFormat) Suffix() string {
	if f == FormatJPEG {
		return ".jpeg"
	}
	return ".png"
}

func (f OutputFormat) ContentType() string {
	if f == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

func (f OutputFormat) String() string {
	return strings.TrimPrefix(f.Suffix(), ".")
}

func (p *ImageProcessor) encodeImage(w io.Writer, img image.Image, format OutputFormat) error {
	var err error
	switch format {
	case FormatJPEG:
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(p.jpegQuality))
	default:
		err = imaging.Encode(w, img, imaging.PNG)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}
