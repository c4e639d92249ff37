package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/LaurentJouron/LITReview/internal/config"
	"github.com/LaurentJouron/LITReview/internal/models"
	"github.com/LaurentJouron/LITReview/internal/observability"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	_ "image/gif" // register GIF decoder
	_ "image/png" // register PNG decoder

	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	DefaultMediaDir           = "/tmp/litreview/media"
	DefaultImageMaxUploadSize = 5 * 1024 * 1024

	// Stored illustrations are thumbnailed to fit this bound on the
	// longest side, aspect ratio preserved. Images already inside the
	// bound are kept as-is.
	ThumbnailMaxSize = 300

	JPEGQuality = 82
	WebPQuality = 70
)

// StoredImage describes a persisted ticket illustration.
type StoredImage struct {
	Path     string // relative path of the JPEG thumbnail under the media dir
	WebPPath string // relative path of the WebP variant
	Width    int
	Height   int
}

// ImageService decodes, thumbnails, and persists ticket illustrations.
type ImageService struct {
	mediaDir           string
	maxUploadSizeBytes int64
}

// NewImageService returns a new ImageService rooted at the configured media dir.
func NewImageService(cfg *config.Config) *ImageService {
	mediaDir := DefaultMediaDir
	if cfg != nil && cfg.MediaDir != "" {
		mediaDir = cfg.MediaDir
	}
	return &ImageService{
		mediaDir:           mediaDir,
		maxUploadSizeBytes: DefaultImageMaxUploadSize,
	}
}

// MediaDir returns the root directory where images are stored.
func (s *ImageService) MediaDir() string {
	return s.mediaDir
}

// Store validates, thumbnails, and writes an uploaded image, returning the
// stored variants. The write happens synchronously so callers only persist
// a ticket once its illustration is on disk.
func (s *ImageService) Store(content []byte, contentType string) (*StoredImage, error) {
	if len(content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(content)
	if !isAllowedImageMIME(detectedType) {
		return nil, models.NewValidationError("Invalid image type")
	}
	if provided := normalizeContentType(contentType); strings.HasPrefix(provided, "image/") && !isMatchingContentType(provided, detectedType) {
		return nil, models.NewValidationError("Image content type mismatch")
	}

	start := time.Now()
	decoded, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	thumb := resizeToFit(decoded, ThumbnailMaxSize, ThumbnailMaxSize)

	encodedJPG, err := encodeJPEG(thumb, JPEGQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	encodedWebP, err := encodeWebP(thumb, WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	observability.ObserveImageProcessing(format, start)

	name := uuid.NewString()
	jpgRel := filepath.ToSlash(filepath.Join(name[:2], name+".jpg"))
	webpRel := filepath.ToSlash(filepath.Join(name[:2], name+".webp"))
	jpgAbs := filepath.Join(s.mediaDir, jpgRel)
	webpAbs := filepath.Join(s.mediaDir, webpRel)

	if err := writeBytesToFile(jpgAbs, encodedJPG); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := writeBytesToFile(webpAbs, encodedWebP); err != nil {
		_ = os.Remove(jpgAbs)
		return nil, models.NewInternalError(err)
	}

	b := thumb.Bounds()
	return &StoredImage{
		Path:     jpgRel,
		WebPPath: webpRel,
		Width:    b.Dx(),
		Height:   b.Dy(),
	}, nil
}

// Remove deletes a stored image and its WebP variant. Missing files are
// not an error.
func (s *ImageService) Remove(relPath string) {
	if relPath == "" {
		return
	}
	abs := filepath.Join(s.mediaDir, filepath.FromSlash(relPath))
	_ = os.Remove(abs)
	if strings.HasSuffix(abs, ".jpg") {
		_ = os.Remove(strings.TrimSuffix(abs, ".jpg") + ".webp")
	}
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	p := normalizeContentType(provided)
	d := normalizeContentType(detected)
	if p == d {
		return true
	}
	return (p == "image/jpg" && d == "image/jpeg") || (p == "image/jpeg" && d == "image/jpg")
}

func writeBytesToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
