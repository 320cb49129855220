// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import "github.com/sirupsen/logrus"

type encoderConfig struct {
	backRefCapacity int
	logger          logrus.FieldLogger
}

// EncoderOption configures an Encoder at construction time.
type EncoderOption func(*encoderConfig)

// WithBackRefCapacity bounds the encoder's identity→offset table to n
// entries, evicted oldest-first once full, instead of growing the table
// without bound for the life of the stream. A non-positive n (the
// default) leaves the table unbounded.
func WithBackRefCapacity(n int) EncoderOption {
	return func(c *encoderConfig) { c.backRefCapacity = n }
}

// WithEncoderLogger attaches a logger the Encoder uses for
// diagnostic-level tracing of declarations and back-references.
func WithEncoderLogger(logger logrus.FieldLogger) EncoderOption {
	return func(c *encoderConfig) { c.logger = logger }
}

type decoderConfig struct {
	logger logrus.FieldLogger
}

// DecoderOption configures a Decoder at construction time.
type DecoderOption func(*decoderConfig)

// WithDecoderLogger attaches a logger the Decoder uses for
// diagnostic-level tracing of declarations and back-references.
func WithDecoderLogger(logger logrus.FieldLogger) DecoderOption {
	return func(c *decoderConfig) { c.logger = logger }
}
