// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// floatCodec has a single variant: 8 raw bytes holding the IEEE-754
// big-endian bit pattern. float64 values are back-referable only when
// passed by pointer (*float64); by-value floats have no stable
// identity to key a back-reference on.
type floatCodec struct{}

func (floatCodec) Variants() []Variant { return []Variant{nil} }

func (floatCodec) SelectVariant(value any) (WriteFunc, Variant, bool, error) {
	switch value.(type) {
	case float64, *float64:
	default:
		return nil, nil, false, fmt.Errorf("wire: float codec given %T", value)
	}
	write := func(value any, enc *Encoder) error {
		var f float64
		switch v := value.(type) {
		case float64:
			f = v
		case *float64:
			f = *v
		}
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(f))
		return enc.writeRaw(buf[:])
	}
	_, isPtr := value.(*float64)
	return write, nil, isPtr, nil
}

func (floatCodec) Decode(_ Variant, dec *Decoder) (any, error) {
	buf, err := dec.Read(8)
	if err != nil {
		return nil, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(buf)), nil
}
