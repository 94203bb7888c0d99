// Package images rewrites storage URLs to the resized rendition and decodes
// admin uploads.
package images

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	DefaultWidth   = 800
	DefaultQuality = 75

	objectPath = "/storage/v1/object/public/"
	renderPath = "/storage/v1/render/image/public/"
)

var (
	ErrNotDataURL = errors.New("image is not a base64 data URL")
	ErrNotImage   = errors.New("upload is not an image")
	ErrTooLarge   = errors.New("image exceeds the upload limit")
)

// Optimize points a public storage object URL at the image transformation
// endpoint with the given width and quality. Zero values use the defaults.
// Empty input and inline data URLs are returned as they are.
func Optimize(url string, width, quality int) string {
	if url == "" || strings.HasPrefix(url, "data:") {
		return url
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if quality <= 0 {
		quality = DefaultQuality
	}

	base, _, _ := strings.Cut(strings.Replace(url, objectPath, renderPath, 1), "?")
	return base + "?width=" + strconv.Itoa(width) + "&quality=" + strconv.Itoa(quality) + "&resize=contain"
}

// Upload is a decoded data URL.
type Upload struct {
	Data      []byte
	MimeType  string
	Extension string
}

// DecodeDataURL decodes "data:<mime>;base64,<payload>". The declared type is
// ignored; the content is sniffed and must be an image no larger than
// maxBytes (no limit when maxBytes <= 0).
func DecodeDataURL(s string, maxBytes int64) (Upload, error) {
	header, payload, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return Upload{}, ErrNotDataURL
	}

	if maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(payload))) > maxBytes+2 {
		return Upload{}, ErrTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Upload{}, fmt.Errorf("%w: %w", ErrNotDataURL, err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return Upload{}, ErrTooLarge
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return Upload{}, fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}
	return Upload{Data: data, MimeType: mt.String(), Extension: mt.Extension()}, nil
}
