// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import "fmt"

// boolCodec has two variants, false and true; the variant key *is* the
// value, so the payload is empty.
type boolCodec struct{}

func (boolCodec) Variants() []Variant { return []Variant{false, true} }

func (boolCodec) SelectVariant(value any) (WriteFunc, Variant, bool, error) {
	v, ok := value.(bool)
	if !ok {
		return nil, nil, false, fmt.Errorf("wire: bool codec given %T", value)
	}
	return func(any, *Encoder) error { return nil }, v, false, nil
}

func (boolCodec) Decode(variant Variant, _ *Decoder) (any, error) {
	return variant.(bool), nil
}
