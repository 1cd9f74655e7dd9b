// Package qrcode renders text as a QR code PNG.
package qrcode

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	goqrcode "github.com/skip2/go-qrcode"
)

const (
	MinSize     = 128
	MaxSize     = 1024
	DefaultSize = 256

	// MaxTextLength is the byte capacity of the largest QR version at the highest
	// error correction level.
	MaxTextLength = 1273
)

var (
	ErrTextRequired = errors.New("text is required")
	ErrTextTooLong  = fmt.Errorf("text must be at most %d bytes", MaxTextLength)
	ErrInvalidSize  = fmt.Errorf("size must be between %d and %d", MinSize, MaxSize)
)

// Options describes the QR code to render. A zero Size means DefaultSize.
type Options struct {
	Text string
	Size int
}

// Image is a rendered QR code.
type Image struct {
	PNG      []byte
	Size     int
	Filename string
}

// Generate renders opts.Text as a square black-on-white PNG with the highest
// error correction level.
func Generate(opts Options) (Image, error) {
	text := strings.TrimSpace(opts.Text)
	if text == "" {
		return Image{}, ErrTextRequired
	}
	if len(text) > MaxTextLength {
		return Image{}, ErrTextTooLong
	}

	size := opts.Size
	if size == 0 {
		size = DefaultSize
	}
	if size < MinSize || size > MaxSize {
		return Image{}, ErrInvalidSize
	}

	q, err := goqrcode.New(text, goqrcode.Highest)
	if err != nil {
		return Image{}, fmt.Errorf("encoding qr code: %w", err)
	}
	q.ForegroundColor = color.Black
	q.BackgroundColor = color.White

	png, err := q.PNG(size)
	if err != nil {
		return Image{}, fmt.Errorf("rendering qr code: %w", err)
	}

	return Image{
		PNG:      png,
		Size:     size,
		Filename: Filename(time.Now()),
	}, nil
}

// Filename is the download name for a QR code rendered at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("qr-code-%d.png", t.UnixMilli())
}
