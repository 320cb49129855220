// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import "fmt"

// List, Tuple and Set are the three ordered-collection host types. Each
// gets its own kind (and so its own control code) even though their Go
// representation and wire layout are identical, mirroring the distinct
// sequence types the source registers for lists, tuples and sets.
//
// Set is implemented as an ordered slice rather than a true
// unordered/deduplicating collection: Go has no built-in generic
// unordered collection over arbitrary, possibly non-comparable element
// types without reflection-heavy machinery this package doesn't
// otherwise need.
type (
	List  []any
	Tuple []any
	Set   []any
)

type sequenceCodec struct {
	factory func([]any) any
}

func (sequenceCodec) Variants() []Variant { return []Variant{nil} }

func (c sequenceCodec) SelectVariant(value any) (WriteFunc, Variant, bool, error) {
	if _, err := sequenceItems(value); err != nil {
		return nil, nil, false, err
	}
	return encodeSequence, nil, true, nil
}

func encodeSequence(value any, enc *Encoder) error {
	items, err := sequenceItems(value)
	if err != nil {
		return err
	}
	if err := enc.EncodeVarInt(uint64(len(items))); err != nil {
		return err
	}
	for _, item := range items {
		if err := enc.EncodeObject(item); err != nil {
			return err
		}
	}
	return nil
}

func sequenceItems(value any) ([]any, error) {
	switch v := value.(type) {
	case List:
		return []any(v), nil
	case Tuple:
		return []any(v), nil
	case Set:
		return []any(v), nil
	default:
		return nil, fmt.Errorf("wire: sequence codec given %T", value)
	}
}

func (c sequenceCodec) Decode(_ Variant, dec *Decoder) (any, error) {
	count, err := dec.DecodeVarInt()
	if err != nil {
		return nil, err
	}
	items := make([]any, 0, count)
	for i := uint64(0); i < count; i++ {
		item, err := dec.DecodeObject(false, true)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return c.factory(items), nil
}
