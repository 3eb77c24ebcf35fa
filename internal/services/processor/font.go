package processor

import (
	"fmt"
	"math"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Font is a parsed TrueType/OpenType font. It is safe for concurrent use;
// faces derived from it are not and live for a single render.
type Font struct {
	otf *opentype.Font
}

var defaultFont struct {
	once sync.Once
	font *Font
	err  error
}

// DefaultFont returns the bundled Go Regular font.
func DefaultFont() (*Font, error) {
	defaultFont.once.Do(func() {
		defaultFont.font, defaultFont.err = ParseFont(goregular.TTF)
	})
	return defaultFont.font, defaultFont.err
}

// LoadFont reads a font file. An empty path selects DefaultFont.
func LoadFont(path string) (*Font, error) {
	if path == "" {
		return DefaultFont()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	return ParseFont(data)
}

func ParseFont(data []byte) (*Font, error) {
	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &Font{otf: otf}, nil
}

func (f *Font) faces() *faceSet {
	return &faceSet{font: f.otf, cache: make(map[float64]font.Face)}
}

// faceSet caches one face per pixel size. It implements Measurer so boxes are
// sized with the faces that draw them.
type faceSet struct {
	font  *opentype.Font
	cache map[float64]font.Face
	err   error
}

func (fs *faceSet) face(size float64) (font.Face, error) {
	if face, ok := fs.cache[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(fs.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %.2fpx face: %w", size, err)
	}
	fs.cache[size] = face
	return face, nil
}

func (fs *faceSet) Measure(text string, size float64) float64 {
	face, err := fs.face(size)
	if err != nil {
		if fs.err == nil {
			fs.err = err
		}
		return 0
	}
	return fromFixed(font.MeasureString(face, text))
}

func (fs *faceSet) Close() {
	for _, face := range fs.cache {
		face.Close()
	}
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
