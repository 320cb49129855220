// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rpc declares the interface a msgflow peer exposes to other
// peers: a heartbeat (Alive) and a catalog of the records its schema
// currently recognizes (DescribeSchema).
package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/couling/messageflow/service/registry"
)

// SchemaService is implemented by a running msgflow server.
type SchemaService interface {
	Alive(ctx context.Context, req *AliveRequest) (*AliveResponse, error)
	DescribeSchema(ctx context.Context, req *DescribeSchemaRequest) (*DescribeSchemaResponse, error)
}

// AliveRequest carries the caller's identity so the server can log which
// peer is asking.
type AliveRequest struct {
	ClientID uuid.UUID
}

// AliveResponse identifies the server and echoes back the time it
// answered, so a caller can estimate clock skew.
type AliveResponse struct {
	ServerID uuid.UUID
	Now      time.Time
}

// DescribeSchemaRequest is empty: the full record catalog is always
// returned, there is nothing yet to filter by.
type DescribeSchemaRequest struct{}

// DescribeSchemaResponse lists every record a peer's schema recognizes.
type DescribeSchemaResponse struct {
	Records []RecordDescriptor
}

// RecordDescriptor names one record and its field order, matching the
// shape a caller would need to build a compatible schema of its own.
type RecordDescriptor struct {
	Name   string
	Fields []string
}

// Server is the in-process SchemaService implementation run by cmd/msgflow.
type Server struct {
	ID       uuid.UUID
	Registry *registry.Registry
	Log      logrus.FieldLogger
}

// NewServer returns a Server identifying itself with a fresh random ID.
func NewServer(reg *registry.Registry, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{ID: uuid.New(), Registry: reg, Log: log}
}

// Alive answers a heartbeat, logging which client asked.
func (s *Server) Alive(ctx context.Context, req *AliveRequest) (*AliveResponse, error) {
	s.Log.WithField("client", req.ClientID).Debug("rpc: alive")
	return &AliveResponse{ServerID: s.ID, Now: time.Now()}, nil
}

// DescribeSchema returns every record descriptor currently loaded into
// s.Registry.
func (s *Server) DescribeSchema(ctx context.Context, req *DescribeSchemaRequest) (*DescribeSchemaResponse, error) {
	descriptors := s.Registry.Descriptors()
	records := make([]RecordDescriptor, len(descriptors))
	for i, d := range descriptors {
		records[i] = RecordDescriptor{Name: d.Name, Fields: d.Fields}
	}
	return &DescribeSchemaResponse{Records: records}, nil
}

// Handler exposes the service over HTTP: GET /alive and GET /schema,
// both answering JSON.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/alive", func(w http.ResponseWriter, r *http.Request) {
		clientID, _ := uuid.Parse(r.URL.Query().Get("client"))
		resp, err := s.Alive(r.Context(), &AliveRequest{ClientID: clientID})
		writeJSON(w, resp, err, s.Log)
	})
	mux.HandleFunc("/schema", func(w http.ResponseWriter, r *http.Request) {
		resp, err := s.DescribeSchema(r.Context(), &DescribeSchemaRequest{})
		writeJSON(w, resp, err, s.Log)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, value any, err error, log logrus.FieldLogger) {
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(value); err != nil {
		log.WithError(err).Warn("rpc: writing response")
	}
}
