// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"io"
)

const (
	varInt1Max = 0x80               // 2^7
	varInt2Max = 0x4000             // 2^14
	varInt4Max = 0x20000000         // 2^29
	varInt8Max = 0x1000000000000000 // 2^60

	varInt2Prefix = uint16(0x8000)
	varInt4Prefix = uint32(0xC0000000)
	varInt8Prefix = uint64(0xE000000000000000)
)

// EncodeVarInt writes val to w using the smallest of the four widths
// (1, 2, 4 or 8 bytes) that can represent it, prefixing the high bits of
// the first byte with the width selector described in doc.go. It fails
// with ValueOutOfRangeError for val >= 2^60.
func EncodeVarInt(w io.Writer, val uint64) error {
	switch {
	case val < varInt1Max:
		_, err := w.Write([]byte{byte(val)})
		return err
	case val < varInt2Max:
		var buf [2]byte
		binary.BigEndian.PutUint16(buf[:], uint16(val)|varInt2Prefix)
		_, err := w.Write(buf[:])
		return err
	case val < varInt4Max:
		var buf [4]byte
		binary.BigEndian.PutUint32(buf[:], uint32(val)|varInt4Prefix)
		_, err := w.Write(buf[:])
		return err
	case val < varInt8Max:
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], val|varInt8Prefix)
		_, err := w.Write(buf[:])
		return err
	default:
		return &ValueOutOfRangeError{Value: val}
	}
}

// readFull reads exactly len(buf) bytes from r, returning ErrUnexpectedEOF
// (not io.EOF/io.ErrUnexpectedEOF) the moment the stream can't supply
// them, so codecs see one error no matter where the source ran dry.
func readFull(r io.Reader, buf []byte) error {
	_, err := io.ReadFull(r, buf)
	if err != nil {
		return ErrUnexpectedEOF
	}
	return nil
}

// decodeVarInt reads one varint from r. It reports via firstByteEOF
// whether zero bytes were consumed before hitting EOF, so callers in
// "eof is okay between values" mode can tell a clean stream end from a
// truncated value.
func decodeVarInt(r io.Reader) (val uint64, firstByteEOF bool, err error) {
	var first [1]byte
	if _, rerr := io.ReadFull(r, first[:]); rerr != nil {
		return 0, true, ErrUnexpectedEOF
	}
	b0 := first[0]
	switch {
	case b0&0x80 == 0:
		return uint64(b0), false, nil
	case b0&0xC0 == 0x80:
		var rest [1]byte
		if err := readFull(r, rest[:]); err != nil {
			return 0, false, err
		}
		return uint64(b0&0x3F)<<8 | uint64(rest[0]), false, nil
	case b0&0xE0 == 0xC0:
		var rest [3]byte
		if err := readFull(r, rest[:]); err != nil {
			return 0, false, err
		}
		v := uint64(b0 & 0x1F)
		for _, b := range rest {
			v = v<<8 | uint64(b)
		}
		return v, false, nil
	case b0&0xF0 == 0xE0:
		var rest [7]byte
		if err := readFull(r, rest[:]); err != nil {
			return 0, false, err
		}
		v := uint64(b0 & 0x0F)
		for _, b := range rest {
			v = v<<8 | uint64(b)
		}
		return v, false, nil
	default:
		return 0, false, ErrInvalidVarInt
	}
}

// DecodeVarInt reads one varint from r, tolerating non-minimal
// encodings (e.g. 0x80 0x00 decodes to 0).
func DecodeVarInt(r io.Reader) (uint64, error) {
	val, _, err := decodeVarInt(r)
	return val, err
}
