// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"time"
)

const (
	timestampVariantISO  = "iso"
	timestampVariantIANA = "iana"
)

// timestampCodec has two variants: "iso", an RFC 3339 literal with
// whatever offset the value carries, and "iana", a UTC RFC 3339 literal
// followed by the zone's IANA name, used whenever the value's
// *time.Location has a loadable name (i.e. came from time.LoadLocation
// rather than a fixed numeric offset).
type timestampCodec struct{}

func (timestampCodec) Variants() []Variant {
	return []Variant{timestampVariantISO, timestampVariantIANA}
}

func timestampOf(value any) (time.Time, bool, error) {
	switch v := value.(type) {
	case time.Time:
		return v, false, nil
	case *time.Time:
		return *v, true, nil
	default:
		return time.Time{}, false, fmt.Errorf("wire: timestamp codec given %T", value)
	}
}

func hasIANAName(loc *time.Location) bool {
	if loc == nil || loc == time.UTC || loc == time.Local {
		return loc == time.UTC
	}
	name := loc.String()
	if name == "" || name == "UTC" {
		return name == "UTC"
	}
	if _, err := time.LoadLocation(name); err != nil {
		return false
	}
	return true
}

func (timestampCodec) SelectVariant(value any) (WriteFunc, Variant, bool, error) {
	t, isPtr, err := timestampOf(value)
	if err != nil {
		return nil, nil, false, err
	}
	if hasIANAName(t.Location()) && t.Location() != time.UTC {
		return encodeIANATimestamp, timestampVariantIANA, isPtr, nil
	}
	return encodeISOTimestamp, timestampVariantISO, isPtr, nil
}

func encodeISOTimestamp(value any, enc *Encoder) error {
	t, _, err := timestampOf(value)
	if err != nil {
		return err
	}
	return enc.EncodeString(t.Format(time.RFC3339Nano))
}

func encodeIANATimestamp(value any, enc *Encoder) error {
	t, _, err := timestampOf(value)
	if err != nil {
		return err
	}
	if err := enc.EncodeString(t.UTC().Format(time.RFC3339Nano)); err != nil {
		return err
	}
	return enc.EncodeString(t.Location().String())
}

func (timestampCodec) Decode(variant Variant, dec *Decoder) (any, error) {
	literal, err := dec.DecodeString()
	if err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, literal)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid timestamp literal %q: %v", ErrParse, literal, err)
	}
	if variant == timestampVariantIANA {
		zoneName, err := dec.DecodeString()
		if err != nil {
			return nil, err
		}
		loc, err := time.LoadLocation(zoneName)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown IANA zone %q: %v", ErrParse, zoneName, err)
		}
		t = t.In(loc)
	}
	return t, nil
}
