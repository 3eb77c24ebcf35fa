package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
)

var ErrSourceTooLarge = errors.New("source image exceeds size limit")

// DownloadImage fetches a remote image, refusing bodies larger than maxSize.
func DownloadImage(ctx context.Context, client *http.Client, imageURL string, maxSize int64) ([]byte, string, error) {
	u, err := url.Parse(imageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, "", fmt.Errorf("invalid image url %q", imageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	// one extra byte tells an exact-limit body from an oversized one
	imageData, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}
	if int64(len(imageData)) > maxSize {
		return nil, "", fmt.Errorf("%w: more than %d bytes", ErrSourceTooLarge, maxSize)
	}

	if len(imageData) == 0 {
		return nil, "", fmt.Errorf("empty image data")
	}

	contentType := http.DetectContentType(imageData)
	if !IsValidImageType(contentType) && !IsHeifHeader(imageData) {
		return nil, "", fmt.Errorf("invalid content type: %s", contentType)
	}

	return imageData, contentType, nil
}

// IsValidImageType checks if content type is a valid image type
func IsValidImageType(contentType string) bool {
	validTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/gif",
		"image/webp",
		"image/bmp",
		"image/tiff",
		"image/heic",
		"image/heif",
	}

	ct := strings.ToLower(contentType)
	for _, validType := range validTypes {
		if strings.Contains(ct, validType) {
			return true
		}
	}
	return false
}

var heifBrands = []string{"heic", "heix", "hevc", "hevx", "heim", "heis", "mif1", "msf1"}

// IsHeifHeader sniffs the ISO-BMFF ftyp box of HEIC/HEIF files, which
// DetectContentType does not recognise as images. Other ftyp brands such as
// MP4 are rejected.
func IsHeifHeader(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	brand := string(data[8:12])
	for _, b := range heifBrands {
		if brand == b {
			return true
		}
	}
	return false
}

// GenerateFilename names an uploaded watermark: {origin}_{tenant}_{uuid}{suffix}.
func GenerateFilename(originName, tenantKey, suffix string) string {
	return fmt.Sprintf("%s_%s_%s%s", originName, tenantKey, uuid.New().String(), suffix)
}

// DisplayFilename is the name reported back to callers.
func DisplayFilename(originName, suffix string) string {
	return fmt.Sprintf("%s_watermark_%s", originName, suffix)
}

// GenerateStorageKey places filename under prefix.
func GenerateStorageKey(prefix, filename string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return filename
	}
	return path.Join(prefix, filename)
}
