// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config parses the process's command-line flags into a Config.
package config

import (
	"errors"
	"time"

	"github.com/spf13/pflag"
)

// Config holds every setting the msgflow process needs at startup.
type Config struct {
	// Directory holds the JSON record-definition files loaded into the
	// schema registry at startup.
	Directory string

	// LogLevel is parsed by logrus.ParseLevel by the caller; kept as a
	// string here so config stays independent of the logging package.
	LogLevel string

	// BackRefCapacity bounds the back-reference table of encoders built
	// by the encode subcommand, via wire.WithBackRefCapacity; zero
	// leaves the table unbounded.
	BackRefCapacity int

	// Listen is the address the rpc server binds to.
	Listen string

	// StopTimeout bounds how long a graceful shutdown waits for
	// in-flight work before forcing an exit.
	StopTimeout time.Duration
}

// Parse reads flags from args (typically os.Args[1:]) into a Config,
// returning any positional arguments left over after the flags.
func Parse(name string, args []string) (Config, []string, error) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)

	directory := fs.StringP("config", "c", "", "configuration directory containing record definitions")
	logLevel := fs.String("log-level", "info", "logrus level: trace, debug, info, warn, error")
	backRefCapacity := fs.Int("back-ref-capacity", 0, "bound the encoder back-reference table (0 = unbounded)")
	listen := fs.String("listen", ":0", "address the rpc server listens on")
	stopTimeout := fs.Duration("stop-timeout", 5*time.Second, "time allowed for graceful shutdown")

	if err := fs.Parse(args); err != nil {
		return Config{}, nil, err
	}
	if len(*directory) == 0 {
		return Config{}, nil, errors.New("config: missing configuration directory")
	}

	return Config{
		Directory:       *directory,
		LogLevel:        *logLevel,
		BackRefCapacity: *backRefCapacity,
		Listen:          *listen,
		StopTimeout:     *stopTimeout,
	}, fs.Args(), nil
}
