// Copyright 2026 The Qoi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package qoi

// Header holds the fixed 14 byte QOI file header, after validation and
// big-endian conversion of the multi-byte fields.
type Header struct {
	Width      uint32
	Height     uint32
	Channels   uint8
	Colorspace Colorspace
}

// ParseHeader reads and validates the QOI header at the start of data.
//
// It returns ErrUnexpectedEOF if fewer than HeaderSize bytes are available,
// ErrBadMagic, ErrUnsupportedChannels or ErrUnsupportedColorspace if a field
// holds an unknown value, and ErrInvalidDimensions if either dimension is
// zero or above MaxDimension.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, ErrUnexpectedEOF
	}
	if (data[0] != Magic[0]) ||
		(data[1] != Magic[1]) ||
		(data[2] != Magic[2]) ||
		(data[3] != Magic[3]) {
		return Header{}, ErrBadMagic
	}

	h := Header{
		Width:      u32BE(data[4:]),
		Height:     u32BE(data[8:]),
		Channels:   data[12],
		Colorspace: Colorspace(data[13]),
	}

	if (h.Channels != 3) && (h.Channels != 4) {
		return Header{}, ErrUnsupportedChannels
	}
	if (h.Colorspace != ColorspaceSRGB) && (h.Colorspace != ColorspaceLinear) {
		return Header{}, ErrUnsupportedColorspace
	}
	if (h.Width == 0) || (h.Width > MaxDimension) ||
		(h.Height == 0) || (h.Height > MaxDimension) {
		return Header{}, ErrInvalidDimensions
	}
	return h, nil
}

// appendHeader appends src's 14 byte header to dst. The channel count is
// derived from the HasAlpha flag. The caller has already validated src.
func appendHeader(dst []byte, src *Image) []byte {
	channels := uint8(3)
	if src.HasAlpha {
		channels = 4
	}
	dst = append(dst, Magic...)
	dst = appendU32BE(dst, uint32(src.Width))
	dst = appendU32BE(dst, uint32(src.Height))
	return append(dst, channels, uint8(src.Colorspace))
}

// Big-endian wire order, assembled byte by byte rather than through any
// in-memory layout assumption.

func u32BE(b []byte) uint32 {
	return (uint32(b[0]) << 24) |
		(uint32(b[1]) << 16) |
		(uint32(b[2]) << 8) |
		(uint32(b[3]) << 0)
}

func appendU32BE(b []byte, u uint32) []byte {
	return append(b,
		uint8(u>>24),
		uint8(u>>16),
		uint8(u>>8),
		uint8(u>>0),
	)
}
