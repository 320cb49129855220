// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/sirupsen/logrus"
)

type decoderEntry struct {
	codec   KindCodec
	variant Variant
}

// Decoder is a single-stream, single-threaded decoding context forked
// from a Schema. Unlike Encoder, its back-reference table is always an
// unbounded plain map: capping it risks failing to resolve a
// back-reference the peer's encoder legitimately emitted earlier in the
// stream.
type Decoder struct {
	r          io.Reader
	position   int64
	decoders   map[uint64]*decoderEntry
	recordDefs map[string]*RecordDefinition
	backRefs   map[int64]any
	logger     logrus.FieldLogger
}

type countingReader struct{ dec *Decoder }

func (c countingReader) Read(p []byte) (int, error) {
	n, err := c.dec.r.Read(p)
	c.dec.position += int64(n)
	return n, err
}

func newDecoder(r io.Reader, decoders map[uint64]*decoderEntry, recordDefs map[string]*RecordDefinition, opts ...DecoderOption) *Decoder {
	cfg := decoderConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Decoder{
		r:          r,
		decoders:   decoders,
		recordDefs: recordDefs,
		backRefs:   make(map[int64]any),
		logger:     cfg.logger,
	}
}

// source returns the io.Reader built-in codecs read their payload bytes
// from; going through it keeps the Decoder's position counter accurate,
// which is what back-reference offsets are resolved against.
func (d *Decoder) source() io.Reader { return countingReader{dec: d} }

// Read reads exactly n payload bytes, failing with ErrUnexpectedEOF if
// the source cannot supply them. Kind codecs use it for fixed-width and
// length-prefixed payloads.
func (d *Decoder) Read(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := readFull(d.source(), buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// DecodeVarInt reads a bare varint with no control code, the read-side
// counterpart of Encoder.EncodeVarInt.
func (d *Decoder) DecodeVarInt() (uint64, error) {
	val, _, err := decodeVarInt(d.source())
	return val, err
}

// DecodeString reads a length-prefixed UTF-8 byte string with no
// leading control code, the read-side counterpart of Encoder.EncodeString.
func (d *Decoder) DecodeString() (string, error) {
	length, err := d.DecodeVarInt()
	if err != nil {
		return "", err
	}
	buf, err := d.Read(int(length))
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// Next reads the next top-level value, treating a clean end of stream
// as io.EOF. It is the lazy-sequence view of the stream:
//
//	for v, err := dec.Next(); err != io.EOF; v, err = dec.Next() { ... }
func (d *Decoder) Next() (any, error) {
	return d.DecodeObject(true, true)
}

// DecodeObject reads one value from the stream. When eofOkay is true, a
// clean end of stream (nothing at all read before EOF) is reported as
// io.EOF rather than ErrUnexpectedEOF, letting callers iterate a stream
// of top-level objects. When typeDefOkay is false, encountering a
// record declaration is an error — used while decoding a record
// declaration's own variant-key values, which must not themselves
// trigger a nested declaration.
func (d *Decoder) DecodeObject(eofOkay, typeDefOkay bool) (any, error) {
	for {
		position := d.position
		val, firstByteEOF, err := decodeVarInt(d.source())
		if err != nil {
			if eofOkay && firstByteEOF {
				return nil, io.EOF
			}
			return nil, err
		}
		controlCode := val

		if controlCode == recordDeclarationControlCode {
			if !typeDefOkay {
				return nil, ErrInvalidDeclarationSite
			}
			if err := d.declareRecord(); err != nil {
				return nil, err
			}
			continue
		}
		if controlCode == backReferenceControlCode {
			return d.decodeBackReference(position)
		}

		entry, ok := d.decoders[controlCode]
		if !ok {
			return nil, &UnknownControlCodeError{Code: controlCode}
		}
		result, err := entry.codec.Decode(entry.variant, d)
		if err != nil {
			return nil, err
		}
		d.backRefs[position] = result
		return result, nil
	}
}

func (d *Decoder) decodeBackReference(currentPosition int64) (any, error) {
	offset, err := d.DecodeVarInt()
	if err != nil {
		return nil, err
	}
	value, ok := d.backRefs[currentPosition-int64(offset)]
	if !ok {
		return nil, &InvalidBackReferenceError{Position: currentPosition - int64(offset)}
	}
	return value, nil
}

func (d *Decoder) declareRecord() error {
	wireName, err := d.DecodeString()
	if err != nil {
		return err
	}
	variantCount, err := d.DecodeVarInt()
	if err != nil {
		return err
	}
	type declaredVariant struct {
		code    uint64
		variant any
	}
	variants := make([]declaredVariant, 0, variantCount)
	for i := uint64(0); i < variantCount; i++ {
		code, err := d.DecodeVarInt()
		if err != nil {
			return err
		}
		variant, err := d.DecodeObject(false, false)
		if err != nil {
			return err
		}
		variants = append(variants, declaredVariant{code: code, variant: variant})
	}

	fieldCount, err := d.DecodeVarInt()
	if err != nil {
		return err
	}
	fieldNames := make([]string, fieldCount)
	for i := range fieldNames {
		fieldNames[i], err = d.DecodeString()
		if err != nil {
			return err
		}
	}

	def, known := d.recordDefs[wireName]
	var codec KindCodec
	if known {
		matched, err := matchRecordFields(def, fieldNames)
		if err != nil {
			return err
		}
		codec = &recordCodec{def: matched}
	} else {
		codec = &genericRecordCodec{wireName: wireName, fields: fieldNames}
	}
	if d.logger != nil {
		d.logger.WithFields(logrus.Fields{"record": wireName, "known": known}).
			Debug("wire: received record declaration")
	}

	for _, v := range variants {
		d.decoders[v.code] = &decoderEntry{codec: codec, variant: v.variant}
	}
	return nil
}

// matchRecordFields reorders and re-slices def's fields to match the
// wire-declared field order/subset, which may differ from (or be a
// subset of) what this process has registered locally.
func matchRecordFields(def *RecordDefinition, wireFields []string) (*RecordDefinition, error) {
	byName := make(map[string]RecordField, len(def.Fields))
	for _, f := range def.Fields {
		byName[f.WireName] = f
	}
	matched := make([]RecordField, len(wireFields))
	for i, name := range wireFields {
		field, ok := byName[name]
		if !ok {
			matched[i] = RecordField{WireName: name, Set: SkipField}
			continue
		}
		matched[i] = field
	}
	return &RecordDefinition{
		GoType:        def.GoType,
		WireName:      def.WireName,
		Fields:        matched,
		NewFromFields: def.NewFromFields,
	}, nil
}
