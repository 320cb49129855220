// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrParse is the base error for all decode failures. Every other
// decode error in this package wraps it so callers can test for "some
// parse failure" with errors.Is(err, ErrParse) without caring about
// the specific subtype.
var ErrParse = errors.New("wire: parse error")

// ErrUnexpectedEOF is returned when the source ends in the middle of a
// value. Hitting it exactly between two top-level values is not an
// error; the decoder's iteration mode converts that case into a clean
// end of stream.
var ErrUnexpectedEOF = fmt.Errorf("%w: unexpected end of stream", ErrParse)

// ErrInvalidVarInt is returned when a varint's first byte has the
// illegal 1111xxxx pattern.
var ErrInvalidVarInt = fmt.Errorf("%w: invalid varint first byte", ErrParse)

// ErrInvalidDeclarationSite is returned when a record declaration code
// is read somewhere recursion forbids one, such as while re-encoding a
// record's own variant key.
var ErrInvalidDeclarationSite = fmt.Errorf("%w: type declaration not allowed here", ErrParse)

// ErrDecimalCorruption is returned for a malformed digit nibble or a
// misplaced padding nibble in a decimal payload.
var ErrDecimalCorruption = fmt.Errorf("%w: corrupt decimal payload", ErrParse)

// UnknownControlCodeError is returned when a control code is not 0, not
// 1, and not present in the decoder's code table.
type UnknownControlCodeError struct {
	Code uint64
}

func (e *UnknownControlCodeError) Error() string {
	return fmt.Sprintf("wire: unknown control code %d", e.Code)
}

func (e *UnknownControlCodeError) Unwrap() error { return ErrParse }

// InvalidBackReferenceError is returned when a back-reference points at
// a byte offset with no recorded value.
type InvalidBackReferenceError struct {
	Position int64
}

func (e *InvalidBackReferenceError) Error() string {
	return fmt.Sprintf("wire: invalid back-reference to position %d", e.Position)
}

func (e *InvalidBackReferenceError) Unwrap() error { return ErrParse }

// UnknownTypeError is returned by the encoder when a value's host type
// is registered with the schema neither as a kind nor as a record.
type UnknownTypeError struct {
	Type reflect.Type
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("wire: cannot encode unknown type %s", e.Type)
}

// ValueOutOfRangeError is returned when a varint value is 2^60 or
// greater.
type ValueOutOfRangeError struct {
	Value uint64
}

func (e *ValueOutOfRangeError) Error() string {
	return fmt.Sprintf("wire: value %d out of range for varint", e.Value)
}

// SchemaConflictError is returned by Schema builder methods when a
// control code or wire name collides with an existing registration.
type SchemaConflictError struct {
	Reason string
}

func (e *SchemaConflictError) Error() string {
	return "wire: schema conflict: " + e.Reason
}
