// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

// Package photo bounds meal photos before they are stored: images are scaled
// down to fit configured pixel limits (never scaled up) and re-encoded as
// JPEG at a configured quality.
package photo

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

// ErrEncoding is returned when the input cannot be decoded as an image or
// re-encoding produces no output.
var ErrEncoding = errors.New("photo encoding failed")

const (
	// DefaultMaxWidth and DefaultMaxHeight bound stored photo dimensions.
	DefaultMaxWidth  = 800
	DefaultMaxHeight = 800

	// DefaultQuality is the JPEG re-encoding quality (1-100).
	DefaultQuality = 80
)

// Compressor resizes and re-encodes photos. The zero value is not usable;
// construct with [NewCompressor].
type Compressor struct {
	maxWidth  int
	maxHeight int
	quality   int
}

// NewCompressor returns a Compressor with the given bounds. Non-positive
// values fall back to the package defaults.
func NewCompressor(maxWidth, maxHeight, quality int) *Compressor {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if maxHeight <= 0 {
		maxHeight = DefaultMaxHeight
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Compressor{maxWidth: maxWidth, maxHeight: maxHeight, quality: quality}
}

// Compress decodes the image read from r, scales it down so neither
// dimension exceeds the configured maximum (aspect ratio preserved, images
// already within bounds are left at their original size), and re-encodes it
// as JPEG at the configured quality.
//
// Returns [ErrEncoding] (wrapped) when the input is not a decodable image or
// the encoded output is empty.
func (c *Compressor) Compress(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: decode input: %v", ErrEncoding, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("%w: zero-sized image", ErrEncoding)
	}

	if bounds.Dx() > c.maxWidth || bounds.Dy() > c.maxHeight {
		// Fit scales down preserving aspect ratio; it never scales up.
		img = imaging.Fit(img, c.maxWidth, c.maxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(c.quality)); err != nil {
		return nil, fmt.Errorf("%w: encode jpeg: %v", ErrEncoding, err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("%w: empty output", ErrEncoding)
	}

	return buf.Bytes(), nil
}
