// Copyright 2026 The Qoi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package qoi implements the QOI (Quite OK Image) lossless image file format.
//
// A QOI file is a 14 byte header, a stream of variable-length chunks (one to
// five bytes each) and an 8 byte end marker. Chunks encode pixels as literal
// RGB/RGBA values, as small differences to the previous pixel, as references
// into a 64 entry cache of recently seen pixels or as runs of the previous
// pixel. Both the cache and the previous-pixel register are per decode or
// encode call, never shared.
//
// QOI is specified at https://qoiformat.org/qoi-specification.pdf
package qoi

import (
	"errors"
	"image"
	"image/color"
	"io"
)

// Magic is the byte string prefix of every QOI image file.
const Magic = "qoif"

var (
	ErrBadArgument           = errors.New("qoi: bad argument")
	ErrBadMagic              = errors.New("qoi: not a QOI file")
	ErrImageTooLarge         = errors.New("qoi: image is too large")
	ErrInvalidDimensions     = errors.New("qoi: invalid image dimensions")
	ErrInvalidEndMarker      = errors.New("qoi: invalid end marker")
	ErrInvalidRunLength      = errors.New("qoi: run length overruns the image")
	ErrTrailingData          = errors.New("qoi: trailing data after end marker")
	ErrUnexpectedEOF         = errors.New("qoi: unexpected end of file")
	ErrUnsupportedChannels   = errors.New("qoi: unsupported channel count")
	ErrUnsupportedColorspace = errors.New("qoi: unsupported colorspace")
)

// MaxDimension is the largest width or height this package accepts, matching
// the image size limit of common host applications.
const MaxDimension = 1 << 19

// maxPixels caps the total pixel count before the output buffer is
// allocated. The worst case encoding is 5 bytes per pixel, so this keeps any
// single image (and its decode allocation) comfortably under 2 GiB.
const maxPixels = 400_000_000

// HeaderSize is the byte length of the fixed QOI file header.
const HeaderSize = 14

const endMarkerSize = 8

var endMarker = [endMarkerSize]byte{0, 0, 0, 0, 0, 0, 0, 1}

const (
	opIndex = 0x00 // 00xxxxxx
	opDiff  = 0x40 // 01xxxxxx
	opLuma  = 0x80 // 10xxxxxx
	opRun   = 0xC0 // 11xxxxxx
	opRGB   = 0xFE // 11111110
	opRGBA  = 0xFF // 11111111

	maskOp = 0xC0 // top 2 bits select the short ops
	mask6  = 0x3F
	mask4  = 0x0F
	mask2  = 0x03
)

const (
	cacheSize    = 64
	maxRunLength = 62
)

// Colorspace is the purely informative colorspace tag carried in the file
// header. It does not change how pixel values are encoded or decoded.
type Colorspace uint8

const (
	ColorspaceSRGB   = Colorspace(0) // sRGB with linear alpha
	ColorspaceLinear = Colorspace(1) // all channels linear
)

func (c Colorspace) String() string {
	switch c {
	case ColorspaceSRGB:
		return "srgb"
	case ColorspaceLinear:
		return "linear"
	}
	return "invalid"
}

// Pixel is one image pixel: four 8 bit channels, non-premultiplied alpha.
// Two Pixels are the same pixel if and only if they are == to each other.
type Pixel struct {
	R uint8
	G uint8
	B uint8
	A uint8
}

// cacheIndex is the position of p in the recently-seen-pixel cache. All four
// channels feed the hash, so two pixels differing only in alpha occupy (and
// evict each other from) the same or different slots purely by arithmetic.
func cacheIndex(p Pixel) uint8 {
	return (3*p.R + 5*p.G + 7*p.B + 11*p.A) % cacheSize
}

// Image is a decoded (or to-be-encoded) QOI image: a row-major pixel grid
// plus the two header fields that are not derivable from the grid itself.
//
// len(Pix) must equal Width*Height. Decode always returns an Image upholding
// that invariant and Encode rejects one that does not.
type Image struct {
	// Pix holds the pixels in row-major order: Pix[y*Width+x].
	Pix []Pixel

	Width  int
	Height int

	Colorspace Colorspace

	// HasAlpha states whether the alpha channel is meaningful. It selects
	// the header's channel count (4 instead of 3). The chunk stream itself
	// is channel-count agnostic.
	HasAlpha bool
}

// ColorModel implements image.Image.
func (m *Image) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements image.Image.
func (m *Image) Bounds() image.Rectangle { return image.Rect(0, 0, m.Width, m.Height) }

// At implements image.Image.
func (m *Image) At(x int, y int) color.Color {
	if !(image.Point{x, y}).In(m.Bounds()) {
		return color.NRGBA{}
	}
	p := m.Pix[(y*m.Width)+x]
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}
}

// PixelAt returns the pixel at (x, y), which must be within Bounds.
func (m *Image) PixelAt(x int, y int) Pixel {
	return m.Pix[(y*m.Width)+x]
}

func init() {
	image.RegisterFormat("qoi", Magic, decodeReader, decodeConfigReader)
}

func decodeReader(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m, err := Decode(data, nil)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func decodeConfigReader(r io.Reader) (image.Config, error) {
	buf := [HeaderSize]byte{}
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return image.Config{}, ErrUnexpectedEOF
		}
		return image.Config{}, err
	}
	h, err := ParseHeader(buf[:])
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(h.Width),
		Height:     int(h.Height),
	}, nil
}
