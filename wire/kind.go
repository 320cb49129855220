// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

// Variant is a discriminator chosen per value within one Kind, selecting
// a narrower on-wire encoding. Variant keys must be comparable (usable
// as a Go map key) and, for a variant that travels inline in a record
// declaration, must be encodable as a "simple" already-registered kind
// (see Schema.DefineRecord).
type Variant any

// WriteFunc writes one value's payload (everything after the control
// code) to enc. It must consume exactly what the matching Decode call
// will read back.
type WriteFunc func(value any, enc *Encoder) error

// KindCodec implements one value-kind's wire encoding: sentinel,
// boolean, integer, byte-string, text, float64, decimal, timestamp,
// sequence, mapping, record, or a caller-registered kind.
type KindCodec interface {
	// Variants lists every variant this codec supports, in a stable
	// order. Schema.RegisterKind allocates one control code per entry,
	// in this order, when codes are not given explicitly.
	Variants() []Variant

	// SelectVariant picks the variant used to encode value, along with
	// the WriteFunc that performs the encoding and whether the value
	// may be elided via a back-reference on a later occurrence.
	SelectVariant(value any) (write WriteFunc, variant Variant, backReferable bool, err error)

	// Decode reconstructs a value of the given variant by reading
	// exactly the bytes the matching WriteFunc produced.
	Decode(variant Variant, dec *Decoder) (any, error)
}
