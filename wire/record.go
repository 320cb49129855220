// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import "fmt"

// Record is the generic fallback host type for a record whose wire name
// has no registered Go type: its fields decode into a plain field-name
// keyed map.
type Record map[string]any

// RecordField maps one wire field onto a Go value. WireName is the
// name shared with peers. Get reads the field off a host value when
// encoding; it returns ok=false (equivalent to SKIP) when the field has
// no value to send. Set is the field name passed to NewFromFields when
// decoding; SkipField excludes the decoded value instead of handing it
// to NewFromFields, so either side of a field mapping can opt out.
type RecordField struct {
	WireName string
	Get      func(value any) (any, bool)
	Set      string
}

// SkipField, used as RecordField.Set, discards a decoded field instead
// of passing it to NewFromFields.
const SkipField = "-"

// RecordDefinition describes one record type: the Go type used when
// encoding, the wire name shared with peers, the ordered field list,
// and the factory used to build a decoded Go value from field values.
type RecordDefinition struct {
	GoType        any
	WireName      string
	Fields        []RecordField
	NewFromFields func(fields map[string]any) (any, error)
}

type recordCodec struct {
	def *RecordDefinition
}

func (recordCodec) Variants() []Variant { return []Variant{nil} }

func (c *recordCodec) SelectVariant(any) (WriteFunc, Variant, bool, error) {
	return c.encode, nil, true, nil
}

func (c *recordCodec) encode(value any, enc *Encoder) error {
	for _, field := range c.def.Fields {
		fieldValue, ok := field.Get(value)
		if !ok {
			if err := enc.EncodeObject(Skip); err != nil {
				return err
			}
			continue
		}
		if err := enc.EncodeObject(fieldValue); err != nil {
			return err
		}
	}
	return nil
}

func (c *recordCodec) Decode(_ Variant, dec *Decoder) (any, error) {
	values := make(map[string]any, len(c.def.Fields))
	for _, field := range c.def.Fields {
		v, err := dec.DecodeObject(false, true)
		if err != nil {
			return nil, err
		}
		if _, isSkip := v.(SkipType); isSkip {
			continue
		}
		if field.Set == SkipField {
			continue
		}
		values[field.Set] = v
	}
	return c.def.NewFromFields(values)
}

// genericRecordCodec decodes unregistered record kinds into Record, and
// refuses to encode: a caller can only ever produce a Record-kind value
// by receiving one from the wire, never by constructing one locally,
// since no field list is known ahead of the wire declaration.
type genericRecordCodec struct {
	wireName string
	fields   []string
}

func (genericRecordCodec) Variants() []Variant { return []Variant{nil} }

func (c *genericRecordCodec) SelectVariant(value any) (WriteFunc, Variant, bool, error) {
	return nil, nil, false, fmt.Errorf("wire: record %q has no registered Go type to encode", c.wireName)
}

func (c *genericRecordCodec) Decode(_ Variant, dec *Decoder) (any, error) {
	values := make(Record, len(c.fields))
	for _, name := range c.fields {
		v, err := dec.DecodeObject(false, true)
		if err != nil {
			return nil, err
		}
		if _, isSkip := v.(SkipType); isSkip {
			continue
		}
		values[name] = v
	}
	return values, nil
}
