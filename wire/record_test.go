// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

type simpleRecord struct {
	AString string
	AnInt   *big.Int
}

func simpleRecordDefinition() RecordDefinition {
	return RecordDefinition{
		GoType:   simpleRecord{},
		WireName: "Simple",
		Fields: []RecordField{
			{WireName: "a_string", Get: func(v any) (any, bool) { return v.(simpleRecord).AString, true }, Set: "a_string"},
			{WireName: "an_int", Get: func(v any) (any, bool) { return v.(simpleRecord).AnInt, true }, Set: "an_int"},
		},
		NewFromFields: func(fields map[string]any) (any, error) {
			return simpleRecord{
				AString: fields["a_string"].(string),
				AnInt:   fields["an_int"].(*big.Int),
			}, nil
		},
	}
}

func TestRecordRoundTrip(t *testing.T) {
	s := NewSchema()
	require.NoError(t, s.DefineRecord(simpleRecordDefinition()))

	want := simpleRecord{AString: "hello", AnInt: big.NewInt(5)}
	got := dumpLoad(t, s, want)
	require.Equal(t, want, got)
}

func TestRecordDeclaredOncePerEncoder(t *testing.T) {
	s := NewSchema()
	require.NoError(t, s.DefineRecord(simpleRecordDefinition()))

	var buf bytes.Buffer
	enc := s.Encoder(&buf)
	require.NoError(t, enc.EncodeObject(simpleRecord{AString: "a", AnInt: big.NewInt(1)}))
	firstLen := buf.Len()
	require.NoError(t, enc.EncodeObject(simpleRecord{AString: "b", AnInt: big.NewInt(2)}))
	secondValueLen := buf.Len() - firstLen

	// The second record of the same type must not repeat the
	// declaration, so it should take noticeably less space than the
	// first (which paid for the wire name, variant and field list).
	require.Less(t, secondValueLen, firstLen)
}

func TestRecordUnknownWireNameDecodesGeneric(t *testing.T) {
	writer := NewSchema()
	require.NoError(t, writer.DefineRecord(simpleRecordDefinition()))
	buf, err := writer.DumpBytes(simpleRecord{AString: "hello", AnInt: big.NewInt(5)})
	require.NoError(t, err)

	reader := NewSchema() // does not know about "Simple"
	got, err := reader.LoadBytes(buf)
	require.NoError(t, err)

	record, ok := got.(Record)
	require.True(t, ok)
	require.Equal(t, "hello", record["a_string"])
}
