// Copyright 2026 The Qoi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package qoi

import (
	"errors"
	"testing"
)

// buildFile assembles a QOI file from raw header fields and chunk bytes,
// without any validation, so tests can construct malformed inputs.
func buildFile(width uint32, height uint32, channels uint8, colorspace uint8, chunks ...byte) []byte {
	data := []byte(Magic)
	data = appendU32BE(data, width)
	data = appendU32BE(data, height)
	data = append(data, channels, colorspace)
	data = append(data, chunks...)
	return append(data, endMarker[:]...)
}

func TestDecodeChunkTypes(tt *testing.T) {
	// 4x1, RGBA: an RGB literal, a small diff (+1, -1, 0), a luma diff
	// (dg=+5, dr-dg=-3, db-dg=+2) and a run of 1.
	data := buildFile(4, 1, 4, 0,
		opRGB, 10, 20, 30,
		opDiff|(3<<4)|(1<<2)|2,
		opLuma|uint8(5+32), (5<<4)|10,
		opRun|0,
	)

	m, err := Decode(data, nil)
	if err != nil {
		tt.Fatalf("Decode: %v", err)
	}
	want := []Pixel{
		{10, 20, 30, 0xFF},
		{11, 19, 30, 0xFF},
		{13, 24, 37, 0xFF},
		{13, 24, 37, 0xFF},
	}
	for i, p := range want {
		if m.Pix[i] != p {
			tt.Errorf("Pix[%d]: got %v, want %v", i, m.Pix[i], p)
		}
	}
	if !m.HasAlpha {
		tt.Errorf("HasAlpha: got false, want true")
	}
}

func TestDecodeIndexChunk(tt *testing.T) {
	// (1, 2, 3, 4) hashes to slot 14. After an RGB literal changes the
	// previous pixel, an index chunk must bring it back from the cache.
	data := buildFile(3, 1, 4, 0,
		opRGBA, 1, 2, 3, 4,
		opRGB, 10, 20, 30,
		opIndex|14,
	)

	m, err := Decode(data, nil)
	if err != nil {
		tt.Fatalf("Decode: %v", err)
	}
	want := []Pixel{
		{1, 2, 3, 4},
		{10, 20, 30, 4},
		{1, 2, 3, 4},
	}
	for i, p := range want {
		if m.Pix[i] != p {
			tt.Errorf("Pix[%d]: got %v, want %v", i, m.Pix[i], p)
		}
	}
}

func TestDecodeEarlyEndMarker(tt *testing.T) {
	// The end marker appears where a chunk is expected, before all pixels
	// are written. This is the normal termination path, not an error, and
	// the unwritten pixels stay zero.
	data := buildFile(2, 1, 4, 0, opRGB, 9, 9, 9)

	m, err := Decode(data, nil)
	if err != nil {
		tt.Fatalf("Decode: %v", err)
	}
	if got, want := m.Pix[0], (Pixel{9, 9, 9, 0xFF}); got != want {
		tt.Errorf("Pix[0]: got %v, want %v", got, want)
	}
	if got, want := m.Pix[1], (Pixel{}); got != want {
		tt.Errorf("Pix[1]: got %v, want %v", got, want)
	}
}

func TestDecodeHeaderErrors(tt *testing.T) {
	testCases := []struct {
		name string
		data []byte
		want error
	}{{
		name: "empty",
		data: nil,
		want: ErrUnexpectedEOF,
	}, {
		name: "truncated header",
		data: []byte(Magic + "\x00\x00\x00\x01\x00"),
		want: ErrUnexpectedEOF,
	}, {
		name: "bad magic",
		data: func() []byte {
			d := buildFile(1, 1, 4, 0, opRGBA, 1, 2, 3, 4)
			d[0] = 'Q'
			return d
		}(),
		want: ErrBadMagic,
	}, {
		name: "channels 2",
		data: buildFile(1, 1, 2, 0, opRGBA, 1, 2, 3, 4),
		want: ErrUnsupportedChannels,
	}, {
		name: "channels 5",
		data: buildFile(1, 1, 5, 0, opRGBA, 1, 2, 3, 4),
		want: ErrUnsupportedChannels,
	}, {
		name: "colorspace 2",
		data: buildFile(1, 1, 4, 2, opRGBA, 1, 2, 3, 4),
		want: ErrUnsupportedColorspace,
	}, {
		name: "zero width",
		data: buildFile(0, 1, 4, 0),
		want: ErrInvalidDimensions,
	}, {
		name: "zero height",
		data: buildFile(1, 0, 4, 0),
		want: ErrInvalidDimensions,
	}, {
		name: "width above maximum",
		data: buildFile(MaxDimension+1, 1, 4, 0),
		want: ErrInvalidDimensions,
	}, {
		name: "too many pixels",
		data: buildFile(MaxDimension, MaxDimension, 4, 0),
		want: ErrImageTooLarge,
	}}

	for _, tc := range testCases {
		m, err := Decode(tc.data, nil)
		if !errors.Is(err, tc.want) {
			tt.Errorf("tc=%q: Decode: got %v, want %v", tc.name, err, tc.want)
		}
		if m != nil {
			tt.Errorf("tc=%q: Decode returned a partial image on error", tc.name)
		}
	}
}

func TestDecodeStreamErrors(tt *testing.T) {
	testCases := []struct {
		name string
		data []byte
		want error
	}{{
		name: "run overruns the pixel count",
		data: buildFile(1, 1, 4, 0, opRun|1),
		want: ErrInvalidRunLength,
	}, {
		name: "chunk stream cut before the end marker",
		data: buildFile(4, 1, 4, 0)[:HeaderSize+4],
		want: ErrUnexpectedEOF,
	}, {
		name: "corrupt end marker",
		data: func() []byte {
			d := buildFile(1, 1, 4, 0, opRGBA, 1, 2, 3, 4)
			d[len(d)-1] = 2
			return d
		}(),
		want: ErrInvalidEndMarker,
	}, {
		name: "trailing byte after the end marker",
		data: append(buildFile(1, 1, 4, 0, opRGBA, 1, 2, 3, 4), 0x00),
		want: ErrTrailingData,
	}}

	for _, tc := range testCases {
		m, err := Decode(tc.data, nil)
		if !errors.Is(err, tc.want) {
			tt.Errorf("tc=%q: Decode: got %v, want %v", tc.name, err, tc.want)
		}
		if m != nil {
			tt.Errorf("tc=%q: Decode returned a partial image on error", tc.name)
		}
	}
}

func TestDecodeTruncatedAtEveryOffset(tt *testing.T) {
	src := makeTestImage(9, 7, true)
	data, err := Encode(src, nil)
	if err != nil {
		tt.Fatalf("Encode: %v", err)
	}

	for cut := 0; cut < len(data); cut++ {
		m, err := Decode(data[:cut], nil)
		if m != nil {
			tt.Errorf("cut=%d: Decode returned a partial image on error", cut)
		}
		if cut < HeaderSize {
			if !errors.Is(err, ErrUnexpectedEOF) {
				tt.Errorf("cut=%d: got %v, want %v", cut, err, ErrUnexpectedEOF)
			}
		} else if !errors.Is(err, ErrUnexpectedEOF) && !errors.Is(err, ErrInvalidEndMarker) {
			tt.Errorf("cut=%d: got %v, want unexpected EOF or invalid end marker", cut, err)
		}
	}
}

func TestParseHeader(tt *testing.T) {
	h, err := ParseHeader(buildFile(640, 480, 3, 1))
	if err != nil {
		tt.Fatalf("ParseHeader: %v", err)
	}
	want := Header{Width: 640, Height: 480, Channels: 3, Colorspace: ColorspaceLinear}
	if h != want {
		tt.Fatalf("ParseHeader: got %+v, want %+v", h, want)
	}
}

func TestDecodeProgressIsMonotonic(tt *testing.T) {
	src := makeTestImage(31, 17, true)
	data, err := Encode(src, nil)
	if err != nil {
		tt.Fatalf("Encode: %v", err)
	}

	prev, calls := float64(0), 0
	_, err = Decode(data, &DecodeOptions{
		Progress: func(f float64) {
			if (f < prev) || (f < 0) || (f > 1) {
				tt.Fatalf("progress went from %v to %v", prev, f)
			}
			prev = f
			calls++
		},
	})
	if err != nil {
		tt.Fatalf("Decode: %v", err)
	}
	if calls == 0 {
		tt.Fatalf("progress was never reported")
	}
	if prev != 1 {
		tt.Fatalf("final progress: got %v, want 1", prev)
	}
}
