package storage

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	"framez/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	MaxUploadSizeBytes = 10 * 1024 * 1024
	MasterMaxSize      = 2048
	JPEGQuality        = 82
	WebPQuality        = 70
)

// ProcessImage validates and normalizes an uploaded image. It returns
// the master JPEG plus a smaller WebP rendition of the same frame.
// Anything that fails to decode as jpeg, png, gif or webp is rejected.
func ProcessImage(data []byte) (masterJPEG, masterWebP []byte, err error) {
	if len(data) > MaxUploadSizeBytes {
		return nil, nil, models.NewValidationError("File too large (max 10MB)")
	}
	if !isAllowedImageMIME(http.DetectContentType(data)) {
		return nil, nil, models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, models.NewValidationError("Invalid image file")
	}
	if !isSupportedFormat(format) {
		return nil, nil, models.NewValidationError("Unsupported image format")
	}

	master := resizeToFit(decoded, MasterMaxSize, MasterMaxSize)

	jpegBytes, err := encodeJPEG(master, JPEGQuality)
	if err != nil {
		return nil, nil, models.NewInternalError(err)
	}
	webpBytes, err := encodeWebP(master, WebPQuality)
	if err != nil {
		return nil, nil, models.NewInternalError(err)
	}
	return jpegBytes, webpBytes, nil
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
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}
