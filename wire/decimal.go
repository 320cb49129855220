// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"math/big"
	"strings"
)

// Decimal is an arbitrary-precision signed decimal number, represented
// as a sign plus a big.Int unscaled magnitude and a decimal point
// position.
type Decimal struct {
	negative bool
	unscaled *big.Int
	// scale is the number of digits to the right of the decimal point.
	scale int
}

// NewDecimalFromString parses a plain decimal literal such as "-12.340".
func NewDecimalFromString(s string) (Decimal, error) {
	negative := false
	switch {
	case strings.HasPrefix(s, "-"):
		negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	digits := intPart + fracPart
	if digits == "" {
		return Decimal{}, fmt.Errorf("wire: invalid decimal literal %q", s)
	}
	unscaled, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return Decimal{}, fmt.Errorf("wire: invalid decimal literal %q", s)
	}
	scale := 0
	if hasFrac {
		scale = len(fracPart)
	}
	return Decimal{negative: negative, unscaled: unscaled, scale: scale}, nil
}

// String renders the plain decimal literal, e.g. "-12.340".
func (d Decimal) String() string {
	digits := "0"
	if d.unscaled != nil {
		digits = d.unscaled.String()
	}
	for len(digits) <= d.scale {
		digits = "0" + digits
	}
	var b strings.Builder
	if d.negative && digits != "0" {
		b.WriteByte('-')
	}
	if d.scale == 0 {
		b.WriteString(digits)
	} else {
		split := len(digits) - d.scale
		b.WriteString(digits[:split])
		b.WriteByte('.')
		b.WriteString(digits[split:])
	}
	return b.String()
}

// Digit nibbles are shifted up by one so that zero is never a valid
// nibble: '0'..'9' pack as 0x1..0xA, '.' as 0xB, and 0xF pads the low
// nibble of the final byte when the digit count is odd. Nibbles 0x0 and
// 0xC..0xE never appear in a well-formed payload.
const (
	decimalDotNibble = 0x0B
	decimalPadNibble = 0x0F
)

func decimalNibble(ch byte) byte {
	if ch == '.' {
		return decimalDotNibble
	}
	return ch - '0' + 1
}

func decimalChar(nibble byte) (byte, bool) {
	switch {
	case nibble >= 0x1 && nibble <= 0xA:
		return '0' + nibble - 1, true
	case nibble == decimalDotNibble:
		return '.', true
	default:
		return 0, false
	}
}

// decimalCodec implements the decimal kind: a sign variant (+1/-1)
// followed by a varint digit count and the digit string packed two
// symbols per byte, high nibble first, with a trailing 0x0F pad nibble
// when the digit count is odd.
type decimalCodec struct{}

func (decimalCodec) Variants() []Variant { return []Variant{1, -1} }

func (decimalCodec) SelectVariant(value any) (WriteFunc, Variant, bool, error) {
	switch v := value.(type) {
	case Decimal:
		variant := 1
		if v.negative {
			variant = -1
		}
		return encodeDecimal, variant, false, nil
	case *Decimal:
		variant := 1
		if v.negative {
			variant = -1
		}
		return encodeDecimal, variant, true, nil
	default:
		return nil, nil, false, fmt.Errorf("wire: decimal codec given %T", value)
	}
}

func encodeDecimal(value any, enc *Encoder) error {
	var d Decimal
	switch v := value.(type) {
	case Decimal:
		d = v
	case *Decimal:
		d = *v
	}
	s := strings.TrimPrefix(d.String(), "-")
	if err := enc.EncodeVarInt(uint64(len(s))); err != nil {
		return err
	}
	buf := make([]byte, 0, len(s)/2+1)
	for i := 0; i+1 < len(s); i += 2 {
		buf = append(buf, decimalNibble(s[i])<<4|decimalNibble(s[i+1]))
	}
	if len(s)%2 == 1 {
		buf = append(buf, decimalNibble(s[len(s)-1])<<4|decimalPadNibble)
	}
	_, err := enc.Write(buf)
	return err
}

func (decimalCodec) Decode(variant Variant, dec *Decoder) (any, error) {
	length, err := dec.DecodeVarInt()
	if err != nil {
		return nil, err
	}
	n := int(length)
	buf, err := dec.Read(n/2 + n%2)
	if err != nil {
		return nil, err
	}
	chars := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		nibble := buf[i/2] >> 4
		if i%2 == 1 {
			nibble = buf[i/2] & 0x0F
		}
		ch, ok := decimalChar(nibble)
		if !ok {
			return nil, fmt.Errorf("%w: invalid nibble 0x%x", ErrDecimalCorruption, nibble)
		}
		chars = append(chars, ch)
	}
	if n%2 == 1 && buf[len(buf)-1]&0x0F != decimalPadNibble {
		return nil, fmt.Errorf("%w: missing pad nibble", ErrDecimalCorruption)
	}
	literal := string(chars)
	if variant.(int) < 0 {
		literal = "-" + literal
	}
	return NewDecimalFromString(literal)
}
