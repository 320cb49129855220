// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import "fmt"

// bytesCodec has a single variant: a varint length followed by the raw
// bytes.
type bytesCodec struct{}

func (bytesCodec) Variants() []Variant { return []Variant{nil} }

func (bytesCodec) SelectVariant(value any) (WriteFunc, Variant, bool, error) {
	v, ok := value.([]byte)
	if !ok {
		return nil, nil, false, fmt.Errorf("wire: byte-string codec given %T", value)
	}
	return func(value any, enc *Encoder) error {
		b := value.([]byte)
		if err := enc.EncodeVarInt(uint64(len(b))); err != nil {
			return err
		}
		return enc.writeRaw(b)
	}, nil, len(v) > 0, nil
}

func (bytesCodec) Decode(_ Variant, dec *Decoder) (any, error) {
	length, err := dec.DecodeVarInt()
	if err != nil {
		return nil, err
	}
	return dec.Read(int(length))
}
