// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"io"
	"reflect"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"
)

const (
	recordDeclarationControlCode = 0
	backReferenceControlCode     = 1
	firstAllocatableControlCode  = 9
)

type encoderEntry struct {
	codec    KindCodec
	variants map[Variant]uint64
}

// backRefEntry pairs a recorded stream position with the value that was
// written there. The value is retained deliberately: the table is keyed
// by a data pointer, and only a live reference keeps the garbage
// collector from freeing that memory and handing the same address to an
// unrelated later allocation, which would make an address match lie.
type backRefEntry struct {
	value    any
	position int64
}

// backRefTable is the encoder-side identity→entry table. It is
// implemented either as a plain unbounded map or, when a capacity is
// configured, as an LRU cache that evicts the oldest entry once full —
// a deliberate resource bound the decoder side cannot share, since
// evicting a decoder's position→value entry would make a later,
// legitimately emitted back-reference unresolvable. Evicting an encoder
// entry also drops its retained value, so a reused address can never
// match a stale entry: the entry is gone before the address can recycle.
type backRefTable interface {
	get(key uintptr) (int64, bool)
	add(key uintptr, value any, position int64)
}

type unboundedBackRefTable map[uintptr]backRefEntry

func (t unboundedBackRefTable) get(key uintptr) (int64, bool) {
	e, ok := t[key]
	return e.position, ok
}

func (t unboundedBackRefTable) add(key uintptr, value any, position int64) {
	t[key] = backRefEntry{value: value, position: position}
}

type lruBackRefTable struct{ cache *lru.Cache }

func (t lruBackRefTable) get(key uintptr) (int64, bool) {
	v, ok := t.cache.Get(key)
	if !ok {
		return 0, false
	}
	return v.(backRefEntry).position, true
}

func (t lruBackRefTable) add(key uintptr, value any, position int64) {
	t.cache.Add(key, backRefEntry{value: value, position: position})
}

// Encoder is a single-stream, single-threaded encoding context forked
// from a Schema. It owns its own copy of the schema's type tables so
// that records declared mid-stream extend only this Encoder, never the
// Schema it was created from.
type Encoder struct {
	w              io.Writer
	position       int64
	encoders       map[reflect.Type]*encoderEntry
	recordDefs     map[reflect.Type]*RecordDefinition
	maxControlCode uint64
	backRefs       backRefTable
	logger         logrus.FieldLogger
}

// countingWriter is what codecs see from Encoder.sink(); every write
// through it advances the Encoder's notion of its own stream position,
// which back-referencing depends on.
type countingWriter struct{ enc *Encoder }

func (c countingWriter) Write(p []byte) (int, error) {
	n, err := c.enc.w.Write(p)
	c.enc.position += int64(n)
	return n, err
}

func newEncoder(w io.Writer, encoders map[reflect.Type]*encoderEntry, recordDefs map[reflect.Type]*RecordDefinition, maxControlCode uint64, opts ...EncoderOption) *Encoder {
	cfg := encoderConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	enc := &Encoder{
		w:              w,
		encoders:       encoders,
		recordDefs:     recordDefs,
		maxControlCode: maxControlCode,
		logger:         cfg.logger,
	}
	if cfg.backRefCapacity > 0 {
		cache, err := lru.New(cfg.backRefCapacity)
		if err != nil {
			// Only returned by lru.New for a non-positive size, which
			// cfg.backRefCapacity > 0 already rules out.
			panic(err)
		}
		enc.backRefs = lruBackRefTable{cache: cache}
	} else {
		enc.backRefs = make(unboundedBackRefTable)
	}
	return enc
}

// sink returns the io.Writer built-in codecs write their payload bytes
// to; going through it (rather than the raw io.Writer passed at
// construction) keeps the Encoder's position counter accurate.
func (e *Encoder) sink() io.Writer { return countingWriter{enc: e} }

// Write writes p directly to the stream, advancing the position counter
// back-references are computed from. Kind codecs use it for fixed or
// already-length-prefixed payload bytes.
func (e *Encoder) Write(p []byte) (int, error) {
	return e.sink().Write(p)
}

func (e *Encoder) writeRaw(p []byte) error {
	_, err := e.Write(p)
	return err
}

// EncodeVarInt writes val as a bare varint with no control code, for
// codecs framing their own lengths and counts.
func (e *Encoder) EncodeVarInt(val uint64) error {
	return EncodeVarInt(e.sink(), val)
}

// EncodeString writes value as a length-prefixed UTF-8 byte string with
// no leading control code, for codecs (text declarations, record wire
// names) that need a bare string field rather than a dispatched object.
func (e *Encoder) EncodeString(value string) error {
	content := []byte(value)
	if err := e.EncodeVarInt(uint64(len(content))); err != nil {
		return err
	}
	return e.writeRaw(content)
}

// EncodeObject writes value to the stream, declaring its record type
// first if this is the first time this Encoder has seen it. A nil
// value is treated as Null.
func (e *Encoder) EncodeObject(value any) error {
	return e.encodeObject(value, false)
}

func (e *Encoder) encodeObject(value any, simpleForm bool) error {
	if value == nil {
		value = Null
	}
	t := reflect.TypeOf(value)
	entry, ok := e.encoders[t]
	if !ok {
		if simpleForm {
			return &UnknownTypeError{Type: t}
		}
		def, ok := e.recordDefs[t]
		if !ok {
			return &UnknownTypeError{Type: t}
		}
		if err := e.declareRecord(t, def); err != nil {
			return err
		}
		entry = e.encoders[t]
	}

	write, variant, backReferable, err := entry.codec.SelectVariant(value)
	if err != nil {
		return err
	}

	position := e.position
	var backRefKey uintptr
	var hasBackRefKey bool
	if backReferable {
		if key, ok := identityOf(value); ok {
			if refPos, found := e.backRefs.get(key); found {
				return e.encodeBackReference(refPos)
			}
			backRefKey, hasBackRefKey = key, true
		}
	}

	controlCode, ok := entry.variants[variant]
	if !ok {
		return &SchemaConflictError{Reason: "no control code registered for selected variant"}
	}
	if err := e.EncodeVarInt(controlCode); err != nil {
		return err
	}
	if err := write(value, e); err != nil {
		return err
	}
	if hasBackRefKey {
		e.backRefs.add(backRefKey, value, position)
	}
	return nil
}

func (e *Encoder) encodeBackReference(recordedPosition int64) error {
	offset := e.position - recordedPosition
	if e.logger != nil {
		e.logger.WithField("offset", offset).Debug("wire: emitting back-reference")
	}
	if err := e.EncodeVarInt(backReferenceControlCode); err != nil {
		return err
	}
	return e.EncodeVarInt(uint64(offset))
}

func (e *Encoder) declareRecord(t reflect.Type, def *RecordDefinition) error {
	codec := &recordCodec{def: def}
	e.maxControlCode++
	code := e.maxControlCode
	e.encoders[t] = &encoderEntry{codec: codec, variants: map[Variant]uint64{nil: code}}
	if e.logger != nil {
		e.logger.WithFields(logrus.Fields{"record": def.WireName, "code": code}).
			Debug("wire: declaring record")
	}

	if err := e.EncodeVarInt(recordDeclarationControlCode); err != nil {
		return err
	}
	if err := e.EncodeString(def.WireName); err != nil {
		return err
	}
	if err := e.EncodeVarInt(1); err != nil {
		return err
	}
	if err := e.EncodeVarInt(code); err != nil {
		return err
	}
	if err := e.encodeObject(Null, true); err != nil {
		return err
	}
	if err := e.EncodeVarInt(uint64(len(def.Fields))); err != nil {
		return err
	}
	for _, field := range def.Fields {
		if err := e.EncodeString(field.WireName); err != nil {
			return err
		}
	}
	return nil
}
