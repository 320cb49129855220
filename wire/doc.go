// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wire implements a self-describing, schema-assisted binary
// codec for streaming structured values between cooperating peers.
//
/*

A stream is a concatenation of top-level values. Each value is preceded
by a varint control code identifying its (kind, variant):

	VARINT  = a big-endian, width-prefixed unsigned integer, see below.
	CODE 0  = record type declaration follows.
	CODE 1  = back-reference follows (varint positive offset).
	CODE 2..8 = reserved, never allocated.
	CODE 9+ = assigned to (kind, variant) pairs as a schema registers them.

VarInt width is selected by the high bits of the first byte:

	0xxxxxxx                      1 byte,  7 value bits   (0 .. 2^7-1)
	10xxxxxx xxxxxxxx             2 bytes, 14 value bits   (0 .. 2^14-1)
	110xxxxx (3 more bytes)       4 bytes, 29 value bits   (0 .. 2^29-1)
	1110xxxx (7 more bytes)       8 bytes, 60 value bits   (0 .. 2^60-1)
	1111xxxx                      illegal

A record type declaration has the form:

	varint(0) . string(wire_name) .
	varint(variant_count) . { varint(code) . value(variant_key) }* .
	varint(field_count) . { string(field_wire_name) }*

It is emitted once, lazily, the first time the encoder sees a value of a
newly-declared record type, before the first byte of that value's data.
A decoder that does not recognize a declared wire name still decodes
every value of that type as a generic field-name -> value mapping
(a Record), so it never fails on an unrecognized record.

A back-reference has the form:

	varint(1) . varint(offset)

where offset is the distance, in bytes, from the position of the
back-reference's own control code back to the position of the original
value's control code. Only long strings, non-empty byte-strings,
integers too large for 8 bytes, floats, decimals, timestamps,
sequences, mappings, and records may ever be back-referenced, and then
only when the host value carries a stable identity (floats, decimals and
timestamps only when passed by pointer) - see identityOf in backref.go.

*/
package wire
