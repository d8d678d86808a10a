// Copyright 2026 The Qoi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package qoi

import (
	"bytes"
)

// DecodeOptions are optional arguments to Decode. The zero value is valid
// and means to use the default configuration.
type DecodeOptions struct {
	// Progress, if non-nil, is called with a fraction in [0, 1] at coarse
	// granularity (once per literal pixel chunk). Fractions are
	// monotonically non-decreasing. It runs on the caller's goroutine and
	// should not block.
	Progress func(fractionComplete float64)
}

// Decode parses a complete QOI file held in data.
//
// It is a pure function over the byte buffer: it performs no I/O, and on
// error it returns no partial image. The error is one of this package's Err
// values for any malformed input.
func Decode(data []byte, options *DecodeOptions) (*Image, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if (uint64(h.Width) * uint64(h.Height)) > maxPixels {
		return nil, ErrImageTooLarge
	}
	numPixels := int(h.Width) * int(h.Height)

	var progress func(float64)
	if options != nil {
		progress = options.Progress
	}

	pix := make([]Pixel, numPixels)
	cache := [cacheSize]Pixel{}
	px := Pixel{A: 0xFF}
	pos := HeaderSize

	i := 0
loop:
	for i < numPixels {
		// Any chunk is at most as long as the end marker, so requiring
		// endMarkerSize bytes up front covers both the current chunk and
		// the marker check below.
		if (len(data) - pos) < endMarkerSize {
			return nil, ErrUnexpectedEOF
		}

		tag := data[pos]
		pos++

		switch {
		case tag == opRGB:
			px.R = data[pos+0]
			px.G = data[pos+1]
			px.B = data[pos+2]
			pos += 3
			pix[i] = px
			i++
			cache[cacheIndex(px)] = px
			if progress != nil {
				progress(float64(i) / float64(numPixels))
			}

		case tag == opRGBA:
			px.R = data[pos+0]
			px.G = data[pos+1]
			px.B = data[pos+2]
			px.A = data[pos+3]
			pos += 4
			pix[i] = px
			i++
			cache[cacheIndex(px)] = px
			if progress != nil {
				progress(float64(i) / float64(numPixels))
			}

		case (tag & maskOp) == opIndex:
			// An index-0 chunk is byte-identical to the first byte of the
			// end marker. The stream ends at the marker wherever it
			// appears, so look ahead before treating this as an index.
			if bytes.Equal(data[pos-1:pos-1+endMarkerSize], endMarker[:]) {
				pos--
				break loop
			}
			px = cache[tag&mask6]
			pix[i] = px
			i++

		case (tag & maskOp) == opDiff:
			px.R += ((tag >> 4) & mask2) - 2
			px.G += ((tag >> 2) & mask2) - 2
			px.B += ((tag >> 0) & mask2) - 2
			pix[i] = px
			i++
			cache[cacheIndex(px)] = px

		case (tag & maskOp) == opLuma:
			drdb := data[pos]
			pos++
			dg := (tag & mask6) - 32
			px.R += dg - 8 + ((drdb >> 4) & mask4)
			px.G += dg
			px.B += dg - 8 + ((drdb >> 0) & mask4)
			pix[i] = px
			i++
			cache[cacheIndex(px)] = px

		default: // (tag & maskOp) == opRun, tag is not opRGB or opRGBA.
			run := int(tag&mask6) + 1
			if (i + run) > numPixels {
				return nil, ErrInvalidRunLength
			}
			for ; run > 0; run-- {
				pix[i] = px
				i++
			}
		}
	}

	if (len(data) - pos) < endMarkerSize {
		return nil, ErrUnexpectedEOF
	}
	if !bytes.Equal(data[pos:pos+endMarkerSize], endMarker[:]) {
		return nil, ErrInvalidEndMarker
	}
	pos += endMarkerSize
	if pos != len(data) {
		return nil, ErrTrailingData
	}

	if progress != nil {
		progress(1)
	}
	return &Image{
		Pix:        pix,
		Width:      int(h.Width),
		Height:     int(h.Height),
		Colorspace: h.Colorspace,
		HasAlpha:   h.Channels == 4,
	}, nil
}
