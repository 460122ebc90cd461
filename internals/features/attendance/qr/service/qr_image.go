package service

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"
)

type ImageFormat string

const (
	FormatPNG  ImageFormat = "png"
	FormatWebP ImageFormat = "webp"

	DefaultImageSize = 256
	MinImageSize     = 128
	MaxImageSize     = 1024

	quietZoneModules = 2
)

func ParseImageFormat(s string) (ImageFormat, bool) {
	switch ImageFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatPNG:
		return FormatPNG, true
	case FormatWebP:
		return FormatWebP, true
	}
	return "", false
}

func (f ImageFormat) ContentType() string {
	if f == FormatWebP {
		return "image/webp"
	}
	return "image/png"
}

func ClampImageSize(size int) int {
	switch {
	case size <= 0:
		return DefaultImageSize
	case size < MinImageSize:
		return MinImageSize
	case size > MaxImageSize:
		return MaxImageSize
	}
	return size
}

// RenderQR draws data as a size x size black-on-white QR symbol (level M)
// with a two-module quiet zone.
func RenderQR(data string, size int, format ImageFormat) ([]byte, error) {
	if data == "" {
		return nil, withCause(ErrRequestFormat, errEmptyIdentifier)
	}
	size = ClampImageSize(size)

	q, err := qrcode.New(data, qrcode.Medium)
	if err != nil {
		return nil, withCause(ErrRequestFormat, fmt.Errorf("qr encode: %w", err))
	}
	q.DisableBorder = true
	q.ForegroundColor = color.Black
	q.BackgroundColor = color.White

	modules := len(q.Bitmap())
	inner := size * modules / (modules + 2*quietZoneModules)
	symbol := q.Image(inner)

	canvas := imaging.New(size, size, color.White)
	out := imaging.PasteCenter(canvas, symbol)

	return encodeImage(out, format)
}

func encodeImage(img image.Image, format ImageFormat) ([]byte, error) {
	buf := new(bytes.Buffer)
	switch format {
	case FormatWebP:
		if err := webp.Encode(buf, img, &webp.Options{Lossless: true}); err != nil {
			return nil, internalError("Failed to render QR code", fmt.Errorf("webp encode: %w", err))
		}
	default:
		if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
			return nil, internalError("Failed to render QR code", fmt.Errorf("png encode: %w", err))
		}
	}
	return buf.Bytes(), nil
}
