// Copyright 2026 The Qoi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// qoipack decodes and encodes the QOI (Quite OK Image) lossless image file
// format.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/nigeltao/qoi/internal/imgconv"
	"github.com/nigeltao/qoi/internal/nie"
	"github.com/nigeltao/qoi/lib/qoi"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	decodeFlag     = flag.Bool("decode", false, "whether to decode the input")
	encodeFlag     = flag.Bool("encode", false, "whether to encode the input")
	outputFlag     = flag.String("output", "", "output format")
	colorspaceFlag = flag.String("colorspace", "srgb", "colorspace header tag to write when encoding")
	noAlphaFlag    = flag.Bool("noalpha", false, "whether to drop the alpha channel when encoding")
	verboseFlag    = flag.Bool("v", false, "whether to print progress to stderr")
)

const usageStr = `qoipack decodes and encodes the QOI lossless image file format.

Usage: choose one of

    qoipack -decode [path]
    qoipack -encode [path]

The path to the input image file is optional. If omitted, stdin is read.

When decoding you can also pass one of these flags (before the path):

    -output=nie-bn4
    -output=png (this is the default)

When encoding you can also pass these flags (before the path):

    -colorspace=srgb (this is the default)
    -colorspace=linear
    -noalpha

The output image (in NIE/PNG or QOI format) is written to stdout.

Decode inputs QOI and outputs NIE/PNG.
Encode inputs BMP, GIF, JPEG, PNG, TIFF or WEBP and outputs QOI.
`

var (
	ErrBadColorspaceFlag = errors.New("main: bad -colorspace flag")
	ErrBadOutputFlag     = errors.New("main: bad -output flag")
)

func main() {
	if err := main1(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func main1() error {
	flag.Usage = func() { os.Stderr.WriteString(usageStr) }
	flag.Parse()

	inFile := os.Stdin
	switch flag.NArg() {
	case 0:
		// No-op.
	case 1:
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			return err
		}
		defer f.Close()
		inFile = f
	default:
		return errors.New("too many filenames; the maximum is one")
	}

	if *decodeFlag && !*encodeFlag {
		return decode(inFile)
	}
	if !*decodeFlag && *encodeFlag {
		return encode(inFile)
	}
	return errors.New("must specify exactly one of -decode, -encode or -help")
}

// progressPrinter returns a qoi progress callback that writes whole-percent
// steps to stderr, or nil when not verbose.
func progressPrinter(label string) func(float64) {
	if !*verboseFlag {
		return nil
	}
	lastPercent := -1
	return func(fractionComplete float64) {
		if percent := int(fractionComplete * 100); percent > lastPercent {
			lastPercent = percent
			fmt.Fprintf(os.Stderr, "%s %3d%%\n", label, percent)
		}
	}
}

func decode(inFile *os.File) error {
	switch *outputFlag {
	case "", "nie-bn4", "png":
		// No-op.
	default:
		return ErrBadOutputFlag
	}

	data, err := io.ReadAll(inFile)
	if err != nil {
		return err
	}
	src, err := qoi.Decode(data, &qoi.DecodeOptions{
		Progress: progressPrinter("decode"),
	})
	if err != nil {
		return err
	}

	if *outputFlag == "nie-bn4" {
		dst, err := nie.EncodeBN4(src)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(dst)
		return err
	}
	return png.Encode(os.Stdout, imgconv.FromImage(src, progressPrinter("convert")))
}

func encode(inFile *os.File) error {
	switch *outputFlag {
	case "", "qoi":
		// No-op.
	default:
		return ErrBadOutputFlag
	}

	colorspace := qoi.ColorspaceSRGB
	switch *colorspaceFlag {
	case "", "srgb":
		// No-op.
	case "linear":
		colorspace = qoi.ColorspaceLinear
	default:
		return ErrBadColorspaceFlag
	}

	src, _, err := image.Decode(inFile)
	if err != nil {
		return err
	}

	withAlpha := !*noAlphaFlag && imgconv.HasTransparency(src)
	m := imgconv.ToImage(src, colorspace, withAlpha, progressPrinter("convert"))

	dst, err := qoi.Encode(m, &qoi.EncodeOptions{
		Progress: progressPrinter("encode"),
	})
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(dst)
	return err
}
