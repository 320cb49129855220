// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"math/big"
)

// intVariantBig is the variant key used for integers too large for an
// 8-byte fixed encoding.
const intVariantBig = "big"

// intCodec encodes arbitrary-precision non-negative integers (*big.Int),
// choosing the smallest of a 1/2/4/8 fixed-width big-endian encoding, or
// falling back to a varint-length-prefixed encoding for anything larger.
// Host values are always *big.Int so that small and enormous integers
// round-trip to the same Go type.
type intCodec struct{}

func (intCodec) Variants() []Variant {
	return []Variant{1, 2, 4, 8, intVariantBig}
}

func (intCodec) SelectVariant(value any) (WriteFunc, Variant, bool, error) {
	v, ok := value.(*big.Int)
	if !ok || v == nil {
		return nil, nil, false, fmt.Errorf("wire: integer codec given %T", value)
	}
	if v.Sign() < 0 {
		return nil, nil, false, fmt.Errorf("wire: integer codec cannot encode negative value %s", v)
	}

	byteLen := (v.BitLen() + 7) / 8
	if byteLen == 0 {
		byteLen = 1
	}
	switch {
	case byteLen <= 1:
		return encodeFixedInt(1), 1, false, nil
	case byteLen <= 2:
		return encodeFixedInt(2), 2, false, nil
	case byteLen <= 4:
		return encodeFixedInt(4), 4, false, nil
	case byteLen <= 8:
		return encodeFixedInt(8), 8, false, nil
	default:
		return encodeBigInt, intVariantBig, true, nil
	}
}

func encodeFixedInt(width int) WriteFunc {
	return func(value any, enc *Encoder) error {
		v := value.(*big.Int)
		buf := make([]byte, width)
		v.FillBytes(buf)
		return enc.writeRaw(buf)
	}
}

func encodeBigInt(value any, enc *Encoder) error {
	v := value.(*big.Int)
	byteLen := (v.BitLen() + 7) / 8
	if byteLen == 0 {
		byteLen = 1
	}
	if err := enc.EncodeVarInt(uint64(byteLen)); err != nil {
		return err
	}
	buf := make([]byte, byteLen)
	v.FillBytes(buf)
	return enc.writeRaw(buf)
}

func (intCodec) Decode(variant Variant, dec *Decoder) (any, error) {
	var width int
	switch variant {
	case intVariantBig:
		n, err := dec.DecodeVarInt()
		if err != nil {
			return nil, err
		}
		width = int(n)
	default:
		width = variant.(int)
	}
	buf, err := dec.Read(width)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(buf), nil
}
