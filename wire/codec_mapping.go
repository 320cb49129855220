// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import "fmt"

// Mapping is the host type for the mapping kind: key and value are each
// encoded as full objects, so keys need not be restricted to Go's
// comparable-type rules at the wire level (only the in-memory Go map
// requires comparable keys).
type Mapping map[any]any

type mappingCodec struct{}

func (mappingCodec) Variants() []Variant { return []Variant{nil} }

func (mappingCodec) SelectVariant(value any) (WriteFunc, Variant, bool, error) {
	if _, ok := value.(Mapping); !ok {
		return nil, nil, false, fmt.Errorf("wire: mapping codec given %T", value)
	}
	return encodeMapping, nil, true, nil
}

func encodeMapping(value any, enc *Encoder) error {
	m := value.(Mapping)
	if err := enc.EncodeVarInt(uint64(len(m))); err != nil {
		return err
	}
	for k, v := range m {
		if err := enc.EncodeObject(k); err != nil {
			return err
		}
		if err := enc.EncodeObject(v); err != nil {
			return err
		}
	}
	return nil
}

func (mappingCodec) Decode(_ Variant, dec *Decoder) (any, error) {
	count, err := dec.DecodeVarInt()
	if err != nil {
		return nil, err
	}
	result := make(Mapping, count)
	for i := uint64(0); i < count; i++ {
		key, err := dec.DecodeObject(false, true)
		if err != nil {
			return nil, err
		}
		val, err := dec.DecodeObject(false, true)
		if err != nil {
			return nil, err
		}
		result[key] = val
	}
	return result, nil
}
