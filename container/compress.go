/*
 * compress.go, part of confcat.
 *
 * Copyright 2026 The confcat authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package container

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Codec is the compression used for the container file.
type Codec int

const (
	Auto Codec = iota //choose from the file name
	Zstd
	Gzip
	XZ
)

func (C Codec) String() string {
	switch C {
	case Zstd:
		return "zstd"
	case Gzip:
		return "gzip"
	case XZ:
		return "xz"
	}
	return "auto"
}

// ParseCodec reads a codec name as given by Codec.String. The empty
// string means Auto.
func ParseCodec(s string) (Codec, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return Auto, nil
	case "zstd", "zst":
		return Zstd, nil
	case "gzip", "gz":
		return Gzip, nil
	case "xz":
		return XZ, nil
	}
	return Auto, fmt.Errorf("unknown codec %q", s)
}

// CodecFor returns the codec for a container file name: gzip for names ending in
// ".gz", xz for ".xz" and zstd for everything else.
func CodecFor(name string) Codec {
	switch {
	case strings.HasSuffix(strings.ToLower(name), ".gz"):
		return Gzip
	case strings.HasSuffix(strings.ToLower(name), ".xz"):
		return XZ
	}
	return Zstd
}

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

//sniff finds out the codec from the first bytes of the data, so the container can be
//read from any byte stream, regardless of its name.
func sniff(data []byte) (Codec, error) {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return Zstd, nil
	case bytes.HasPrefix(data, gzipMagic):
		return Gzip, nil
	case bytes.HasPrefix(data, xzMagic):
		return XZ, nil
	}
	return Auto, fmt.Errorf("%w: unknown compression", ErrCorrupt)
}

//newWriter wraps w in a compressing writer. Level 0 means the default
//for each codec. Closing the returned writer doesn't close w.
func newWriter(c Codec, w io.Writer, level int) (io.WriteCloser, error) {
	switch c {
	case Gzip:
		if level == 0 {
			level = gzip.DefaultCompression
		}
		return gzip.NewWriterLevel(w, level)
	case XZ:
		return xz.NewWriter(w)
	default:
		lvl := zstd.SpeedDefault
		if level > 0 {
			lvl = zstd.EncoderLevelFromZstd(level)
		}
		return zstd.NewWriter(w, zstd.WithEncoderLevel(lvl))
	}
}

//decompress returns the uncompressed content of data, and the codec it was compressed with.
func decompress(data []byte) ([]byte, Codec, error) {
	c, err := sniff(data)
	if err != nil {
		return nil, c, err
	}
	var ret []byte
	switch c {
	case Zstd:
		var d *zstd.Decoder
		d, err = zstd.NewReader(nil)
		if err != nil {
			return nil, c, err
		}
		defer d.Close()
		ret, err = d.DecodeAll(data, nil)
	case Gzip:
		var r *gzip.Reader
		r, err = gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			break
		}
		ret, err = io.ReadAll(r)
		r.Close()
	case XZ:
		var r *xz.Reader
		r, err = xz.NewReader(bytes.NewReader(data))
		if err != nil {
			break
		}
		ret, err = io.ReadAll(r)
	}
	if err != nil {
		return nil, c, fmt.Errorf("%w: can't decompress (%s): %s", ErrCorrupt, c, err.Error())
	}
	return ret, c, nil
}
