// Copyright 2026 The Qoi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package imgconv transfers pixel grids between the Go standard library's
// image types and the qoi package's native image type.
//
// It is an incomplete implementation (and hence an internal package), only
// providing what's needed by the github.com/nigeltao/qoi module. Transfers
// run row by row and report per-row progress.
package imgconv

import (
	"image"
	"image/color"

	"github.com/nigeltao/qoi/lib/qoi"
)

// ToImage transfers m into a qoi.Image carrying the given header fields.
//
// Alpha is un-premultiplied where the source type requires it. If withAlpha
// is false every pixel's alpha is forced to 0xFF, matching an export with
// the alpha channel switched off.
//
// progress, if non-nil, is called once per transferred row with a fraction
// in [0, 1].
func ToImage(m image.Image, colorspace qoi.Colorspace, withAlpha bool, progress func(float64)) *qoi.Image {
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := &qoi.Image{
		Pix:        make([]qoi.Pixel, w*h),
		Width:      w,
		Height:     h,
		Colorspace: colorspace,
		HasAlpha:   withAlpha,
	}

	switch m := m.(type) {
	case *qoi.Image:
		copy(dst.Pix, m.Pix)
		if progress != nil {
			progress(1)
		}

	case *image.NRGBA:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := m.NRGBAAt(b.Min.X+x, b.Min.Y+y)
				dst.Pix[(y*w)+x] = qoi.Pixel{R: c.R, G: c.G, B: c.B, A: c.A}
			}
			if progress != nil {
				progress(float64(y+1) / float64(h))
			}
		}

	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.NRGBAModel.Convert(m.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				dst.Pix[(y*w)+x] = qoi.Pixel{R: c.R, G: c.G, B: c.B, A: c.A}
			}
			if progress != nil {
				progress(float64(y+1) / float64(h))
			}
		}
	}

	if !withAlpha {
		for i := range dst.Pix {
			dst.Pix[i].A = 0xFF
		}
	}
	return dst
}

// FromImage transfers src into a standard library *image.NRGBA.
//
// progress, if non-nil, is called once per transferred row with a fraction
// in [0, 1].
func FromImage(src *qoi.Image, progress func(float64)) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, src.Width, src.Height))
	for y := 0; y < src.Height; y++ {
		row := src.Pix[y*src.Width : (y+1)*src.Width]
		d := dst.Pix[y*dst.Stride:]
		for x, p := range row {
			d[(4*x)+0] = p.R
			d[(4*x)+1] = p.G
			d[(4*x)+2] = p.B
			d[(4*x)+3] = p.A
		}
		if progress != nil {
			progress(float64(y+1) / float64(src.Height))
		}
	}
	return dst
}

// HasTransparency reports whether any pixel of m is not fully opaque.
func HasTransparency(m image.Image) bool {
	b := m.Bounds()

	if m, ok := m.(*image.NRGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			i := m.PixOffset(b.Min.X, y) + 3
			for x := b.Min.X; x < b.Max.X; x++ {
				if m.Pix[i] != 0xFF {
					return true
				}
				i += 4
			}
		}
		return false
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := m.At(x, y).RGBA(); a != 0xFFFF {
				return true
			}
		}
	}
	return false
}
