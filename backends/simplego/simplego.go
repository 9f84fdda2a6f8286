// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package simplego implements a simple, and not very fast, but very portable interpreter
// backend for looptrace traces.
//
// It executes one instruction at a time with nested loops over the views, and is used as the
// reference for correctness of the other backends.
package simplego

import (
	"strings"
	"sync/atomic"

	"github.com/gomlx/looptrace/backends"
	"github.com/pkg/errors"
)

// BackendName to be used in LOOPTRACE_BACKEND to specify this backend.
const BackendName = "go"

// Registers New() as the default constructor for "go" backend.
func init() {
	backends.Register(BackendName, New)
}

// New constructs a new SimpleGo Backend.
// There are no configurations, any non-empty option is an error.
func New(config string) (backends.Backend, error) {
	if config != "" {
		for _, part := range strings.Split(config, ",") {
			if part = strings.TrimSpace(part); part != "" {
				return nil, errors.Errorf("unknown configuration option %q for SimpleGo (%s) backend", part, BackendName)
			}
		}
	}
	return newBackend(), nil
}

func newBackend() *Backend {
	return &Backend{}
}

// Backend implements the backends.Backend interface.
type Backend struct {
	numExecuted atomic.Int64
	isFinalized atomic.Bool
}

// Compile-time check that simplego.Backend implements backends.Backend.
var _ backends.Backend = &Backend{}

// Name returns the short name of the backend.
func (b *Backend) Name() string {
	return BackendName
}

// String implement fmt.Stringer.
func (b *Backend) String() string { return BackendName }

// Description is a longer description of the Backend that can be used to pretty-print.
func (b *Backend) Description() string {
	return "Simple Go Portable Interpreter"
}

// Capabilities returns information about what is supported by this backend.
func (b *Backend) Capabilities() backends.Capabilities {
	return Capabilities
}

// NumExecuted returns the total number of instructions executed by the backend so far.
func (b *Backend) NumExecuted() int64 {
	return b.numExecuted.Load()
}

// Finalize releases all the associated resources immediately, and makes the backend invalid.
func (b *Backend) Finalize() {
	b.isFinalized.Store(true)
}
