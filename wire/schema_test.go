// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"math/big"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

// celsius is a caller-supplied kind used to prove the codec contract is
// open to types this package has never heard of.
type celsius int64

type celsiusCodec struct{}

func (celsiusCodec) Variants() []Variant { return []Variant{nil} }

func (celsiusCodec) SelectVariant(value any) (WriteFunc, Variant, bool, error) {
	return func(value any, enc *Encoder) error {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(value.(celsius)))
		_, err := enc.Write(buf[:])
		return err
	}, nil, false, nil
}

func (celsiusCodec) Decode(_ Variant, dec *Decoder) (any, error) {
	buf, err := dec.Read(8)
	if err != nil {
		return nil, err
	}
	return celsius(binary.BigEndian.Uint64(buf)), nil
}

func TestRegisterKindCustomRoundTrip(t *testing.T) {
	s := NewSchema()
	require.NoError(t, s.RegisterKind(reflect.TypeOf(celsius(0)), celsiusCodec{}))

	got := dumpLoad(t, s, celsius(-40))
	require.Equal(t, celsius(-40), got)
}

func TestRegisterKindExplicitCodeCollision(t *testing.T) {
	s := NewSchema()
	// Code 9 is already held by the first built-in kind.
	err := s.RegisterKind(reflect.TypeOf(celsius(0)), celsiusCodec{}, 9)
	var conflict *SchemaConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestRegisterKindCodeCountMismatch(t *testing.T) {
	s := NewSchema()
	err := s.RegisterKind(reflect.TypeOf(celsius(0)), celsiusCodec{}, 100, 101)
	var conflict *SchemaConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestForkIsolation(t *testing.T) {
	parent := NewSchema()
	fork := parent.Fork()
	require.NoError(t, fork.DefineRecord(simpleRecordDefinition()))

	// The fork can encode the record; the parent has never heard of it.
	_, err := fork.DumpBytes(simpleRecord{AString: "x", AnInt: big.NewInt(1)})
	require.NoError(t, err)

	_, err = parent.DumpBytes(simpleRecord{AString: "x", AnInt: big.NewInt(1)})
	var unknown *UnknownTypeError
	require.ErrorAs(t, err, &unknown)
}

func TestDefineRecordDefaultsWireNameFromType(t *testing.T) {
	s := NewSchema()
	def := simpleRecordDefinition()
	def.WireName = ""
	require.NoError(t, s.DefineRecord(def))

	buf, err := s.DumpBytes(simpleRecord{AString: "x", AnInt: big.NewInt(1)})
	require.NoError(t, err)

	reader := NewSchema()
	got, err := reader.LoadBytes(buf)
	require.NoError(t, err)
	_, ok := got.(Record)
	require.True(t, ok, "unregistered reader should fall back to a generic Record")
}

type otherRecord struct {
	Value string
}

func TestDefineRecordWireNameConflict(t *testing.T) {
	s := NewSchema()
	require.NoError(t, s.DefineRecord(simpleRecordDefinition()))

	err := s.DefineRecord(RecordDefinition{
		GoType:   otherRecord{},
		WireName: "Simple",
		Fields: []RecordField{
			{WireName: "value", Get: func(v any) (any, bool) { return v.(otherRecord).Value, true }},
		},
		NewFromFields: func(fields map[string]any) (any, error) {
			return otherRecord{Value: fields["value"].(string)}, nil
		},
	})
	var conflict *SchemaConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestDefineRecordRenameDropsOldWireName(t *testing.T) {
	s := NewSchema()
	require.NoError(t, s.DefineRecord(simpleRecordDefinition()))

	renamed := simpleRecordDefinition()
	renamed.WireName = "SimpleV2"
	require.NoError(t, s.DefineRecord(renamed))

	// The old name is free again for another type.
	require.NoError(t, s.DefineGenericRecord("Simple", []string{"whatever"}))
}

func TestDefineGenericRecordConflictsWithTypedRecord(t *testing.T) {
	s := NewSchema()
	require.NoError(t, s.DefineRecord(simpleRecordDefinition()))

	err := s.DefineGenericRecord("Simple", []string{"a_string"})
	var conflict *SchemaConflictError
	require.ErrorAs(t, err, &conflict)
}
