// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"unicode/utf8"
)

const (
	textVariantEmpty = 0
	textVariantOne   = 1
	textVariantLong  = "long"
)

// stringCodec implements the text kind: an empty-payload variant for
// "", a bare-UTF-8-bytes variant for a single rune, and a
// length-prefixed variant for everything else.
type stringCodec struct{}

func (stringCodec) Variants() []Variant {
	return []Variant{textVariantEmpty, textVariantOne, textVariantLong}
}

func (stringCodec) SelectVariant(value any) (WriteFunc, Variant, bool, error) {
	v, ok := value.(string)
	if !ok {
		return nil, nil, false, fmt.Errorf("wire: text codec given %T", value)
	}
	switch utf8.RuneCountInString(v) {
	case 0:
		return func(any, *Encoder) error { return nil }, textVariantEmpty, false, nil
	case 1:
		return func(value any, enc *Encoder) error {
			return enc.writeRaw([]byte(value.(string)))
		}, textVariantOne, false, nil
	default:
		return func(value any, enc *Encoder) error {
			content := []byte(value.(string))
			if err := enc.EncodeVarInt(uint64(len(content))); err != nil {
				return err
			}
			return enc.writeRaw(content)
		}, textVariantLong, true, nil
	}
}

// utf8LeadByteLen returns how many bytes (including the lead byte) a
// UTF-8 encoded rune occupies, classified from its lead byte alone.
func utf8LeadByteLen(lead byte) (int, error) {
	switch {
	case lead&0x80 == 0:
		return 1, nil
	case lead&0xE0 == 0xC0:
		return 2, nil
	case lead&0xF0 == 0xE0:
		return 3, nil
	case lead&0xF8 == 0xF0:
		return 4, nil
	default:
		return 0, fmt.Errorf("%w: invalid UTF-8 lead byte 0x%02x", ErrParse, lead)
	}
}

func (stringCodec) Decode(variant Variant, dec *Decoder) (any, error) {
	switch variant {
	case textVariantEmpty:
		return "", nil
	case textVariantOne:
		lead, err := dec.Read(1)
		if err != nil {
			return nil, err
		}
		size, err := utf8LeadByteLen(lead[0])
		if err != nil {
			return nil, err
		}
		if size == 1 {
			return string(lead), nil
		}
		rest, err := dec.Read(size - 1)
		if err != nil {
			return nil, err
		}
		return string(append(lead, rest...)), nil
	default:
		length, err := dec.DecodeVarInt()
		if err != nil {
			return nil, err
		}
		content, err := dec.Read(int(length))
		if err != nil {
			return nil, err
		}
		return string(content), nil
	}
}
