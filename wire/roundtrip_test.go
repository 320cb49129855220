// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"
	"math/big"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func dumpLoad(t *testing.T, s *Schema, value any) any {
	t.Helper()
	buf, err := s.DumpBytes(value)
	require.NoError(t, err)
	got, err := s.LoadBytes(buf)
	require.NoError(t, err)
	return got
}

func TestRoundTripBaseTypes(t *testing.T) {
	s := NewSchema()
	cases := []struct {
		name string
		val  any
	}{
		{"null", Null},
		{"skip", Skip},
		{"ellipsis", Ellipsis},
		{"true", true},
		{"false", false},
		{"zero", big.NewInt(0)},
		{"one", big.NewInt(1)},
		{"ten thousand", big.NewInt(10000)},
		{"two pow 33", new(big.Int).Lsh(big.NewInt(1), 33)},
		{"huge", mustBigFromString("1000000000000000000000")},
		{"float zero", 0.0},
		{"float frac", 0.9},
		{"empty string", ""},
		{"ascii rune", "y"},
		{"two byte rune", "£"},
		{"three byte rune", "✓"},
		{"four byte rune", "\U0001F44D"},
		{"ascii word", "hello"},
		{"mixed bytes chars", "Hey \U0001F44D"},
		{"bytes", []byte("some bytes")},
		{"tuple", Tuple{big.NewInt(1), big.NewInt(2), big.NewInt(3)}},
		{"list", List{"x", "y", "zee"}},
	}
	bigIntComparer := cmp.Comparer(func(a, b *big.Int) bool {
		if a == nil || b == nil {
			return a == b
		}
		return a.Cmp(b) == 0
	})
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := dumpLoad(t, s, c.val)
			if diff := cmp.Diff(c.val, got, bigIntComparer, cmp.AllowUnexported(Decimal{})); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func mustBigFromString(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad literal " + s)
	}
	return v
}

func TestRoundTripDecimal(t *testing.T) {
	s := NewSchema()
	for _, literal := range []string{"1.2345", "-600.54321", "0", "42"} {
		d, err := NewDecimalFromString(literal)
		require.NoError(t, err)
		got := dumpLoad(t, s, d)
		gotDecimal, ok := got.(Decimal)
		require.True(t, ok)
		require.Equal(t, literal, gotDecimal.String())
	}
}

func TestRoundTripTimestampISO(t *testing.T) {
	s := NewSchema()
	now := time.Date(2021, time.June, 30, 10, 21, 1, 0, time.UTC)
	got := dumpLoad(t, s, now)
	gotTime, ok := got.(time.Time)
	require.True(t, ok)
	require.True(t, now.Equal(gotTime))
}

func TestRoundTripTimestampIANA(t *testing.T) {
	s := NewSchema()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	original := time.Date(2021, time.January, 30, 10, 21, 1, 123000, time.UTC).In(loc)
	got := dumpLoad(t, s, original)
	gotTime, ok := got.(time.Time)
	require.True(t, ok)
	require.True(t, original.Equal(gotTime))
	require.Equal(t, loc.String(), gotTime.Location().String())
}

func TestRoundTripMapping(t *testing.T) {
	s := NewSchema()
	m := Mapping{"x": big.NewInt(1), big.NewInt(1): "y"}
	got := dumpLoad(t, s, m)
	gotMap, ok := got.(Mapping)
	require.True(t, ok)
	require.Len(t, gotMap, len(m))
}

func TestRoundTripSequenceOfTopLevelObjects(t *testing.T) {
	s := NewSchema()
	var buf bytes.Buffer
	enc := s.Encoder(&buf)
	values := []any{big.NewInt(1), "hello", true, Null}
	for _, v := range values {
		require.NoError(t, enc.EncodeObject(v))
	}

	dec := s.Decoder(bytes.NewReader(buf.Bytes()))
	for i, want := range values {
		got, err := dec.DecodeObject(true, true)
		require.NoErrorf(t, err, "value %d", i)
		require.Equal(t, want, got)
	}
	_, err := dec.DecodeObject(true, true)
	require.ErrorIs(t, err, io.EOF)
}
