// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/couling/messageflow/wire"
)

func TestFromJSON(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want any
	}{
		{"null", nil, wire.Null},
		{"bool", true, true},
		{"string", "hello", "hello"},
		{"whole number", json.Number("42"), big.NewInt(42)},
		{"negative number", json.Number("-3"), -3.0},
		{"fraction", json.Number("1.5"), 1.5},
		{"exponent", json.Number("1e3"), 1000.0},
		{"array", []any{json.Number("1"), "x"}, wire.List{big.NewInt(1), "x"}},
		{"object", map[string]any{"k": "v"}, wire.Mapping{"k": "v"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := fromJSON(c.in)
			if want, ok := c.want.(*big.Int); ok {
				require.Zero(t, want.Cmp(got.(*big.Int)))
				return
			}
			require.Equal(t, c.want, got)
		})
	}
}

func TestFromJSONRoundTripsThroughWire(t *testing.T) {
	doc := map[string]any{
		"name":  "sensor-1",
		"ok":    true,
		"reads": []any{json.Number("12"), json.Number("0.5")},
	}

	s := wire.NewSchema()
	buf, err := s.DumpBytes(fromJSON(doc))
	require.NoError(t, err)

	got, err := s.LoadBytes(buf)
	require.NoError(t, err)
	m, ok := got.(wire.Mapping)
	require.True(t, ok)
	require.Equal(t, "sensor-1", m["name"])
	require.Equal(t, true, m["ok"])
}
