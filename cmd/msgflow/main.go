// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/couling/messageflow/config"
	"github.com/couling/messageflow/internal/start"
	"github.com/couling/messageflow/rpc"
	"github.com/couling/messageflow/service/registry"
	"github.com/couling/messageflow/wire"
)

func main() {
	root := &cobra.Command{
		Use:   "msgflow",
		Short: "msgflow serves and inspects a self-describing record schema",
	}
	root.AddCommand(serveCmd(), encodeCmd(), inspectCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "serve",
		Short:              "load the record catalog and serve it to peers",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, reg, _, logger, err := loadConfig("msgflow serve", args)
			if err != nil {
				return err
			}
			server := rpc.NewServer(reg, logger)
			logger.WithField("server", server.ID).WithField("records", len(reg.Descriptors())).
				WithField("listen", cfg.Listen).Info("msgflow: serving")

			httpServer := &http.Server{Addr: cfg.Listen, Handler: server.Handler()}
			return start.Start(context.Background(), cfg.StopTimeout, func(ctx context.Context) error {
				return start.RunAll(ctx,
					func(ctx context.Context) error {
						err := httpServer.ListenAndServe()
						if err == http.ErrServerClosed {
							return nil
						}
						return err
					},
					func(ctx context.Context) error {
						<-ctx.Done()
						shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.StopTimeout)
						defer cancel()
						return httpServer.Shutdown(shutdownCtx)
					})
			})
		},
	}
}

func encodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "encode [json-file]",
		Short:              "encode JSON documents as a binary stream on stdout",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, rest, _, err := loadConfig("msgflow encode", args)
			if err != nil {
				return err
			}
			in := os.Stdin
			if len(rest) > 0 {
				in, err = os.Open(rest[0])
				if err != nil {
					return err
				}
				defer in.Close()
			}

			schema := wire.NewSchema()
			enc := schema.Encoder(os.Stdout, wire.WithBackRefCapacity(cfg.BackRefCapacity))
			dec := json.NewDecoder(in)
			dec.UseNumber()
			for {
				var doc any
				if err := dec.Decode(&doc); err == io.EOF {
					return nil
				} else if err != nil {
					return err
				}
				if err := enc.EncodeObject(fromJSON(doc)); err != nil {
					return err
				}
			}
		},
	}
}

// fromJSON maps a decoded JSON document onto the wire host types.
// Non-negative whole numbers become integers; other numbers become a
// float64, except those outside float64's range, which stay as their
// literal string.
func fromJSON(value any) any {
	switch v := value.(type) {
	case nil:
		return wire.Null
	case json.Number:
		literal := v.String()
		if !strings.ContainsAny(literal, ".eE-") {
			if n, ok := new(big.Int).SetString(literal, 10); ok {
				return n
			}
		}
		f, err := v.Float64()
		if err != nil {
			return literal
		}
		return f
	case []any:
		out := make(wire.List, len(v))
		for i, item := range v {
			out[i] = fromJSON(item)
		}
		return out
	case map[string]any:
		out := make(wire.Mapping, len(v))
		for key, val := range v {
			out[key] = fromJSON(val)
		}
		return out
	default:
		return value
	}
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "inspect [stream-file]",
		Short:              "print the record catalog, or decode a stream file, as JSON",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, reg, rest, _, err := loadConfig("msgflow inspect", args)
			if err != nil {
				return err
			}
			out := json.NewEncoder(os.Stdout)
			out.SetIndent("", "  ")
			if len(rest) == 0 {
				return out.Encode(reg.Descriptors())
			}

			f, err := os.Open(rest[0])
			if err != nil {
				return err
			}
			defer f.Close()

			schema := wire.NewSchema()
			if err := reg.Apply(schema); err != nil {
				return err
			}
			dec := schema.Decoder(f)
			for {
				value, err := dec.Next()
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return err
				}
				if err := out.Encode(renderValue(value)); err != nil {
					return err
				}
			}
		},
	}
}

// renderValue maps wire host types without a natural JSON form onto
// printable ones.
func renderValue(value any) any {
	switch v := value.(type) {
	case wire.NullType:
		return nil
	case wire.SkipType:
		return "<skip>"
	case wire.EllipsisType:
		return "..."
	case wire.Decimal:
		return v.String()
	case []byte:
		return fmt.Sprintf("0x%x", v)
	case wire.List:
		return renderSlice(v)
	case wire.Tuple:
		return renderSlice(v)
	case wire.Set:
		return renderSlice(v)
	case wire.Mapping:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[fmt.Sprint(renderValue(key))] = renderValue(val)
		}
		return out
	case wire.Record:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = renderValue(val)
		}
		return out
	default:
		return value
	}
}

func renderSlice(items []any) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = renderValue(item)
	}
	return out
}

func loadConfig(name string, args []string) (config.Config, *registry.Registry, []string, logrus.FieldLogger, error) {
	cfg, rest, err := config.Parse(name, args)
	if err != nil {
		return config.Config{}, nil, nil, nil, err
	}

	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, nil, nil, fmt.Errorf("main: %w", err)
	}
	logger.SetLevel(level)

	reg, err := registry.Load(cfg.Directory)
	if err != nil {
		return config.Config{}, nil, nil, nil, err
	}

	return cfg, reg, rest, logger, nil
}
