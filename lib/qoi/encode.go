// Copyright 2026 The Qoi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package qoi

// EncodeOptions are optional arguments to Encode. The zero value is valid
// and means to use the default configuration.
type EncodeOptions struct {
	// Progress, if non-nil, is called with a fraction in [0, 1] at coarse
	// granularity (once per literal pixel chunk). Fractions are
	// monotonically non-decreasing. It runs on the caller's goroutine and
	// should not block.
	Progress func(fractionComplete float64)
}

// Encode serializes src as a complete QOI file.
//
// It can fail only on a malformed argument (nil src, out of range
// dimensions or colorspace, a Pix buffer whose length is not Width*Height).
// Any pixel content has a valid encoding.
func Encode(src *Image, options *EncodeOptions) ([]byte, error) {
	if src == nil {
		return nil, ErrBadArgument
	}
	if (src.Width <= 0) || (src.Width > MaxDimension) ||
		(src.Height <= 0) || (src.Height > MaxDimension) {
		return nil, ErrInvalidDimensions
	}
	if (src.Colorspace != ColorspaceSRGB) && (src.Colorspace != ColorspaceLinear) {
		return nil, ErrBadArgument
	}
	if (uint64(src.Width) * uint64(src.Height)) > maxPixels {
		return nil, ErrImageTooLarge
	}
	numPixels := src.Width * src.Height
	if len(src.Pix) != numPixels {
		return nil, ErrBadArgument
	}

	var progress func(float64)
	if options != nil {
		progress = options.Progress
	}

	// Worst case is one 5 byte literal chunk per pixel. Allocating that up
	// front keeps the hot loop free of append growth.
	dst := make([]byte, 0, HeaderSize+(numPixels*5)+endMarkerSize)
	dst = appendHeader(dst, src)

	cache := [cacheSize]Pixel{}
	prev := Pixel{A: 0xFF}

	for i := 0; i < numPixels; {
		px := src.Pix[i]

		if px == prev {
			// Greedily extend the run, flushing a chunk every
			// maxRunLength pixels and once more for any remainder.
			run := 0
			for {
				run++
				i++
				more := (i < numPixels) && (src.Pix[i] == prev)
				if (run == maxRunLength) || !more {
					dst = append(dst, opRun|uint8(run-1))
					run = 0
				}
				if !more {
					break
				}
			}
			continue
		}

		hash := cacheIndex(px)

		if cache[hash] == px {
			dst = append(dst, opIndex|hash)
		} else if !src.HasAlpha || (px.A == prev.A) {
			dr := int32(px.R) - int32(prev.R)
			dg := int32(px.G) - int32(prev.G)
			db := int32(px.B) - int32(prev.B)
			drdg := dr - dg
			dbdg := db - dg

			if (-2 <= dr) && (dr <= 1) &&
				(-2 <= dg) && (dg <= 1) &&
				(-2 <= db) && (db <= 1) {
				dst = append(dst, opDiff|
					(uint8(dr+2)<<4)|
					(uint8(dg+2)<<2)|
					(uint8(db+2)<<0))
			} else if (-32 <= dg) && (dg <= 31) &&
				(-8 <= drdg) && (drdg <= 7) &&
				(-8 <= dbdg) && (dbdg <= 7) {
				dst = append(dst,
					opLuma|uint8(dg+32),
					(uint8(drdg+8)<<4)|(uint8(dbdg+8)<<0))
			} else {
				dst = append(dst, opRGB, px.R, px.G, px.B)
				if progress != nil {
					progress(float64(i+1) / float64(numPixels))
				}
			}
			cache[hash] = px
		} else {
			dst = append(dst, opRGBA, px.R, px.G, px.B, px.A)
			if progress != nil {
				progress(float64(i+1) / float64(numPixels))
			}
			cache[hash] = px
		}

		prev = px
		i++
	}

	dst = append(dst, endMarker[:]...)
	if progress != nil {
		progress(1)
	}
	return dst, nil
}
