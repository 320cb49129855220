// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/couling/messageflow/wire"
)

func writeDescriptor(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadReadsJSONDescriptors(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "point.json", `{"name": "Point", "fields": ["x", "y"]}`)
	writeDescriptor(t, dir, "alarm.json", `{"name": "Alarm", "fields": ["when", "message"]}`)
	writeDescriptor(t, dir, "notes.txt", `not a descriptor`)

	reg, err := Load(dir)
	require.NoError(t, err)

	descriptors := reg.Descriptors()
	require.Len(t, descriptors, 2)
	// File-name order, not declaration order.
	require.Equal(t, "Alarm", descriptors[0].Name)
	require.Equal(t, "Point", descriptors[1].Name)
	require.Equal(t, []string{"x", "y"}, descriptors[1].Fields)
}

func TestLoadRejectsMissingName(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "bad.json", `{"fields": ["x"]}`)

	_, err := Load(dir)
	require.Error(t, err)
}

func TestApplyRegistersGenericRecords(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "point.json", `{"name": "Point", "fields": ["x", "y"]}`)

	reg, err := Load(dir)
	require.NoError(t, err)

	schema := wire.NewSchema()
	require.NoError(t, reg.Apply(schema))

	// A peer that knows Point as a Go type writes a stream; this
	// process, holding only the JSON catalog, still decodes it.
	peer := wire.NewSchema()
	require.NoError(t, peer.DefineRecord(pointDefinition()))
	buf, err := peer.DumpBytes(point{X: "1", Y: "2"})
	require.NoError(t, err)

	got, err := schema.LoadBytes(buf)
	require.NoError(t, err)
	record, ok := got.(wire.Record)
	require.True(t, ok)
	require.Equal(t, "1", record["x"])
	require.Equal(t, "2", record["y"])
}

type point struct {
	X string
	Y string
}

func pointDefinition() wire.RecordDefinition {
	return wire.RecordDefinition{
		GoType:   point{},
		WireName: "Point",
		Fields: []wire.RecordField{
			{WireName: "x", Get: func(v any) (any, bool) { return v.(point).X, true }},
			{WireName: "y", Get: func(v any) (any, bool) { return v.(point).Y, true }},
		},
		NewFromFields: func(fields map[string]any) (any, error) {
			return point{X: fields["x"].(string), Y: fields["y"].(string)}, nil
		},
	}
}
