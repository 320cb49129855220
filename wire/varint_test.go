// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarIntBoundaries(t *testing.T) {
	cases := []struct {
		name string
		val  uint64
		size int
	}{
		{"zero", 0, 1},
		{"one byte max", 0x7F, 1},
		{"two byte min", 0x80, 2},
		{"two byte max", 0x3FFF, 2},
		{"four byte min", 0x4000, 4},
		{"four byte max", 0x1FFFFFFF, 4},
		{"eight byte min", 0x20000000, 8},
		{"eight byte max", 0x0FFFFFFFFFFFFFFF, 8},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, EncodeVarInt(&buf, c.val))
			require.Equal(t, c.size, buf.Len())

			got, err := DecodeVarInt(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			require.Equal(t, c.val, got)
		})
	}
}

func TestVarIntOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	err := EncodeVarInt(&buf, 0x1000000000000000)
	require.Error(t, err)
	var target *ValueOutOfRangeError
	require.ErrorAs(t, err, &target)
}

func TestVarIntToleratesNonMinimalEncoding(t *testing.T) {
	// 0x80 0x00 is a non-minimal 2-byte encoding of zero.
	got, err := DecodeVarInt(bytes.NewReader([]byte{0x80, 0x00}))
	require.NoError(t, err)
	require.EqualValues(t, 0, got)
}

func TestVarIntInvalidFirstByte(t *testing.T) {
	_, err := DecodeVarInt(bytes.NewReader([]byte{0xF0}))
	require.ErrorIs(t, err, ErrParse)
}

func TestVarIntUnexpectedEOF(t *testing.T) {
	_, err := DecodeVarInt(bytes.NewReader([]byte{0x80}))
	require.ErrorIs(t, err, ErrUnexpectedEOF)
}
