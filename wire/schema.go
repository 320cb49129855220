// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"
	"math/big"
	"reflect"
	"time"
)

// Schema is a registry of kind codecs and record definitions.
// RegisterKind, DefineRecord and DefineGenericRecord change it in place;
// forking a Schema (explicitly via Fork, or
// implicitly via Encoder/Decoder) copies its four lookup tables so that
// records declared mid-stream on one Encoder never leak into the
// Schema other Encoders are forked from.
type Schema struct {
	encoders         map[reflect.Type]*encoderEntry
	decoders         map[uint64]*decoderEntry
	recordDefsByType map[reflect.Type]*RecordDefinition
	recordDefsByName map[string]*RecordDefinition
	maxControlCode   uint64
}

// NewSchema returns a Schema preloaded with the built-in kinds (the
// same starting point default_schema gives every caller in the source
// implementation), ready to accept DefineRecord calls.
func NewSchema() *Schema {
	return defaultSchema.Fork()
}

// Fork returns an independent copy of s: registering a kind or record
// on the fork never affects s, and vice versa.
func (s *Schema) Fork() *Schema {
	fork := &Schema{
		encoders:         make(map[reflect.Type]*encoderEntry, len(s.encoders)),
		decoders:         make(map[uint64]*decoderEntry, len(s.decoders)),
		recordDefsByType: make(map[reflect.Type]*RecordDefinition, len(s.recordDefsByType)),
		recordDefsByName: make(map[string]*RecordDefinition, len(s.recordDefsByName)),
		maxControlCode:   s.maxControlCode,
	}
	for k, v := range s.encoders {
		fork.encoders[k] = v
	}
	for k, v := range s.decoders {
		fork.decoders[k] = v
	}
	for k, v := range s.recordDefsByType {
		fork.recordDefsByType[k] = v
	}
	for k, v := range s.recordDefsByName {
		fork.recordDefsByName[k] = v
	}
	return fork
}

// RegisterKind adds a new kind to the schema: goType is the Go host
// representation used to pick codec for encoding; codec.Variants()
// determines how many control codes it needs. Passing no explicit
// controlCodes auto-allocates the next ones above the schema's current
// high-water mark.
func (s *Schema) RegisterKind(goType reflect.Type, codec KindCodec, controlCodes ...uint64) error {
	variants := codec.Variants()
	if len(controlCodes) == 0 {
		controlCodes = make([]uint64, len(variants))
		for i := range controlCodes {
			s.maxControlCode++
			controlCodes[i] = s.maxControlCode
		}
	} else if len(controlCodes) != len(variants) {
		return &SchemaConflictError{Reason: "control code count does not match variant count"}
	}

	variantMap := make(map[Variant]uint64, len(variants))
	seen := make(map[uint64]bool, len(controlCodes))
	for i, v := range variants {
		variantMap[v] = controlCodes[i]
	}
	for _, code := range controlCodes {
		if seen[code] {
			return &SchemaConflictError{Reason: "duplicate control code in registration"}
		}
		seen[code] = true
		if _, exists := s.decoders[code]; exists {
			return &SchemaConflictError{Reason: "control code already registered"}
		}
		if code > s.maxControlCode {
			s.maxControlCode = code
		}
	}
	for variant, code := range variantMap {
		s.decoders[code] = &decoderEntry{codec: codec, variant: variant}
	}
	s.encoders[goType] = &encoderEntry{codec: codec, variants: variantMap}
	return nil
}

// DefineRecord registers a record type so this schema's Encoders can
// encode def.GoType and its Decoders can recognize def.WireName.
// Neither side allocates a control code until the record is actually
// declared mid-stream, so defining a record costs nothing on the wire
// until a value of that type is first encoded.
//
// An empty WireName defaults to the Go type's own name. Two distinct
// types cannot claim the same wire name; redefining a type under a new
// name drops its old wire-name entry.
func (s *Schema) DefineRecord(def RecordDefinition) error {
	goType := reflect.TypeOf(def.GoType)
	if def.WireName == "" {
		def.WireName = goType.Name()
	}
	// A generic (typeless) definition of the same name is upgraded,
	// not conflicted with: catalogs load generically first, and a Go
	// type may bind to the name later in the same process.
	if existing, ok := s.recordDefsByName[def.WireName]; ok && existing.GoType != nil {
		if reflect.TypeOf(existing.GoType) != goType {
			return &SchemaConflictError{Reason: fmt.Sprintf(
				"wire name %q already defined for type %v", def.WireName, reflect.TypeOf(existing.GoType))}
		}
	}
	if previous, ok := s.recordDefsByType[goType]; ok && previous.WireName != def.WireName {
		delete(s.recordDefsByName, previous.WireName)
	}
	for i := range def.Fields {
		if def.Fields[i].Set == "" {
			def.Fields[i].Set = def.Fields[i].WireName
		}
	}
	s.recordDefsByType[goType] = &def
	s.recordDefsByName[def.WireName] = &def
	return nil
}

// DefineGenericRecord registers a record by wire name and field list
// alone, with no Go host type bound to it. A Decoder that reads a
// declaration for wireName uses it to decode straight into a Record
// rather than falling back to the fully-unrecognized path; an Encoder
// gains nothing from it, since generic records have no Go type to
// dispatch encoding from. This is how an externally-loaded record
// catalog (see service/registry) makes itself useful to a schema.
func (s *Schema) DefineGenericRecord(wireName string, fields []string) error {
	if existing, ok := s.recordDefsByName[wireName]; ok && existing.GoType != nil {
		return &SchemaConflictError{Reason: fmt.Sprintf(
			"wire name %q already defined for type %v", wireName, reflect.TypeOf(existing.GoType))}
	}
	recordFields := make([]RecordField, len(fields))
	for i, f := range fields {
		recordFields[i] = RecordField{WireName: f, Set: f}
	}
	s.recordDefsByName[wireName] = &RecordDefinition{
		WireName: wireName,
		Fields:   recordFields,
		NewFromFields: func(values map[string]any) (any, error) {
			return Record(values), nil
		},
	}
	return nil
}

// Encoder forks the schema and returns a new single-stream Encoder
// writing to w.
func (s *Schema) Encoder(w io.Writer, opts ...EncoderOption) *Encoder {
	fork := s.Fork()
	return newEncoder(w, fork.encoders, fork.recordDefsByType, fork.maxControlCode, opts...)
}

// Decoder forks the schema and returns a new single-stream Decoder
// reading from r.
func (s *Schema) Decoder(r io.Reader, opts ...DecoderOption) *Decoder {
	fork := s.Fork()
	return newDecoder(r, fork.decoders, fork.recordDefsByName, opts...)
}

// DumpBytes encodes value into a freshly allocated byte slice.
func (s *Schema) DumpBytes(value any, opts ...EncoderOption) ([]byte, error) {
	var buf bytes.Buffer
	enc := s.Encoder(&buf, opts...)
	if err := enc.EncodeObject(value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadBytes decodes the single leading object out of buf.
func (s *Schema) LoadBytes(buf []byte, opts ...DecoderOption) (any, error) {
	dec := s.Decoder(bytes.NewReader(buf), opts...)
	return dec.DecodeObject(false, true)
}

// DumpBytes encodes value using the default schema of built-in kinds.
func DumpBytes(value any) ([]byte, error) {
	return defaultSchema.DumpBytes(value)
}

// LoadBytes decodes the single leading object out of buf using the
// default schema of built-in kinds.
func LoadBytes(buf []byte) (any, error) {
	return defaultSchema.LoadBytes(buf)
}

var defaultSchema = buildDefaultSchema()

func buildDefaultSchema() *Schema {
	s := &Schema{
		encoders:         map[reflect.Type]*encoderEntry{},
		decoders:         map[uint64]*decoderEntry{},
		recordDefsByType: map[reflect.Type]*RecordDefinition{},
		recordDefsByName: map[string]*RecordDefinition{},
	}
	// Control codes 0 and 1 are reserved for record declarations and
	// back-references; 2-8 are held back for future fixed assignments
	// and never allocated to kinds.
	s.maxControlCode = firstAllocatableControlCode - 1

	mustRegister := func(goType reflect.Type, codec KindCodec) {
		if err := s.RegisterKind(goType, codec); err != nil {
			panic(err)
		}
	}

	mustRegister(reflect.TypeOf(SkipType{}), &sentinelCodec{value: Skip})
	mustRegister(reflect.TypeOf(NullType{}), &sentinelCodec{value: Null})
	mustRegister(reflect.TypeOf(EllipsisType{}), &sentinelCodec{value: Ellipsis})
	mustRegister(reflect.TypeOf(false), boolCodec{})
	mustRegister(reflect.TypeOf((*big.Int)(nil)), intCodec{})
	mustRegister(reflect.TypeOf([]byte(nil)), bytesCodec{})
	mustRegister(reflect.TypeOf(""), stringCodec{})

	// float64, Decimal and time.Time each get one allocation of control
	// codes shared between their by-value and by-pointer Go
	// representations: the wire form is identical either way, only the
	// pointer form opts into back-referencing.
	mustRegisterAliased(s, reflect.TypeOf(float64(0)), reflect.TypeOf((*float64)(nil)), floatCodec{})
	mustRegisterAliased(s, reflect.TypeOf(Decimal{}), reflect.TypeOf((*Decimal)(nil)), decimalCodec{})
	mustRegisterAliased(s, reflect.TypeOf(time.Time{}), reflect.TypeOf((*time.Time)(nil)), timestampCodec{})

	mustRegister(reflect.TypeOf(Tuple(nil)), sequenceCodec{factory: func(items []any) any { return Tuple(items) }})
	mustRegister(reflect.TypeOf(List(nil)), sequenceCodec{factory: func(items []any) any { return List(items) }})
	mustRegister(reflect.TypeOf(Set(nil)), sequenceCodec{factory: func(items []any) any { return Set(items) }})
	mustRegister(reflect.TypeOf(Mapping(nil)), mappingCodec{})

	return s
}

// mustRegisterAliased registers codec once (allocating control codes
// under primaryType) and then aliases pointerType's encoder lookup onto
// the exact same entry, without allocating or re-registering decoders.
func mustRegisterAliased(s *Schema, primaryType, pointerType reflect.Type, codec KindCodec) {
	if err := s.RegisterKind(primaryType, codec); err != nil {
		panic(err)
	}
	s.encoders[pointerType] = s.encoders[primaryType]
}
