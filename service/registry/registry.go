// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package registry loads externally-described record definitions from
// a directory of JSON files and applies them to a schema at process
// start, so peers negotiating record layouts never have to ship Go
// source to describe them.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/couling/messageflow/wire"
)

// Descriptor is the on-disk shape of one *.json record definition file.
type Descriptor struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

// Registry is the set of record descriptors loaded from a directory,
// kept around (beyond just registering them into a Schema) so the rpc
// layer can answer DescribeSchema without re-reading the filesystem.
type Registry struct {
	descriptors []Descriptor
}

// Load reads every *.json file directly under dir (no recursion) as a
// Descriptor.
func Load(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("registry: reading %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	reg := &Registry{descriptors: make([]Descriptor, 0, len(names))}
	for _, name := range names {
		path := filepath.Join(dir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("registry: reading %s: %w", path, err)
		}
		var d Descriptor
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("registry: parsing %s: %w", path, err)
		}
		if d.Name == "" {
			return nil, fmt.Errorf("registry: %s: missing \"name\"", path)
		}
		reg.descriptors = append(reg.descriptors, d)
	}
	return reg, nil
}

// Descriptors returns every record descriptor this Registry loaded, in
// deterministic (file-name sorted) order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Apply registers every loaded descriptor onto schema as a generic
// record, so a Decoder built from schema recognizes their declarations
// without falling back to the fully-unrecognized decode path.
func (r *Registry) Apply(schema *wire.Schema) error {
	for _, d := range r.descriptors {
		if err := schema.DefineGenericRecord(d.Name, d.Fields); err != nil {
			return fmt.Errorf("registry: applying %q: %w", d.Name, err)
		}
	}
	return nil
}
