// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

// NullType, SkipType and EllipsisType are the three sentinel host types.
// Each has its own empty-payload kind and its own control code.
type NullType struct{}
type SkipType struct{}
type EllipsisType struct{}

// Null, Skip and Ellipsis are the sentinel values. A literal Go nil
// passed to Encoder.EncodeObject is treated as Null.
var (
	Null     = NullType{}
	Skip     = SkipType{}
	Ellipsis = EllipsisType{}
)

// sentinelCodec encodes one fixed sentinel value with an empty payload
// and a single, non-back-referable variant.
type sentinelCodec struct {
	value any
}

func (c *sentinelCodec) Variants() []Variant { return []Variant{nil} }

func (c *sentinelCodec) SelectVariant(any) (WriteFunc, Variant, bool, error) {
	return func(any, *Encoder) error { return nil }, nil, false, nil
}

func (c *sentinelCodec) Decode(Variant, *Decoder) (any, error) {
	return c.value, nil
}
