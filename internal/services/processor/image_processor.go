package processor

import (
	"bytes"
	"image"

	"golang.org/x/image/draw"
)

const defaultJPEGQuality = 75

type ImageProcessor struct {
	font        *Font
	jpegQuality int
}

func NewImageProcessor(f *Font, jpegQuality int) *ImageProcessor {
	if jpegQuality < 1 || jpegQuality > 100 {
		jpegQuality = defaultJPEGQuality
	}
	return &ImageProcessor{font: f, jpegQuality: jpegQuality}
}

// Output is an encoded watermarked image.
type Output struct {
	Buffer *bytes.Buffer
	Format OutputFormat
	Width  int
	Height int
}

// Render composites the watermark described by style over img. The canvas
// keeps the dimensions of img.
func (p *ImageProcessor) Render(img image.Image, style Style) (*image.RGBA, *Plan, error) {
	bounds := img.Bounds()
	faces := p.font.faces()
	defer faces.Close()

	plan, err := Layout(bounds.Dx(), bounds.Dy(), style, faces)
	if err != nil {
		return nil, nil, err
	}
	if faces.err != nil {
		return nil, nil, faces.err
	}

	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), img, bounds.Min, draw.Src)

	if err := compose(canvas, plan, faces); err != nil {
		return nil, nil, err
	}
	return canvas, plan, nil
}

// ProcessImage decodes data, watermarks it and encodes it in format.
func (p *ImageProcessor) ProcessImage(data []byte, style Style, format OutputFormat) (*Output, error) {
	img, err := p.DecodeImage(data)
	if err != nil {
		return nil, err
	}

	canvas, _, err := p.Render(img, style)
	if err != nil {
		return nil, err
	}

	buffer := &bytes.Buffer{}
	if err := p.encodeImage(buffer, canvas, format); err != nil {
		return nil, err
	}

	return &Output{
		Buffer: buffer,
		Format: format,
		Width:  canvas.Bounds().Dx(),
		Height: canvas.Bounds().Dy(),
	}, nil
}
