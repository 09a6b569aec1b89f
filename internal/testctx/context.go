// Copyright 2026 LinkedIn Corporation. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package testctx is a test helper: a context.Context scoped to a test's
// lifetime, a scratch directory, and a WaitGroup for background
// goroutines a test starts and must join before it ends. The shape is
// grounded directly on the corpus's internal/testcontext (New(t)/
// NewWithTimeout(t,d)/Cleanup()/Go(func() error)/Dir(...)/File(...)).
package testctx

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// Context bundles a context.Context with test-scoped cleanup.
type Context struct {
	context.Context

	t      testing.TB
	cancel context.CancelFunc

	mu   sync.Mutex
	errs []error
	wg   sync.WaitGroup

	dir string
}

// New returns a Context whose Done channel closes when the test ends or
// Cleanup is called, whichever comes first.
func New(t testing.TB) *Context {
	return NewWithTimeout(t, 0)
}

// NewWithTimeout is New, but also cancels after timeout elapses
// (0 means no timeout).
func NewWithTimeout(t testing.TB, timeout time.Duration) *Context {
	var ctx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	t.Cleanup(cancel)
	return &Context{Context: ctx, t: t, cancel: cancel}
}

// Go runs fn in a goroutine, collecting its error for Cleanup to report.
func (c *Context) Go(fn func() error) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := fn(); err != nil {
			c.mu.Lock()
			c.errs = append(c.errs, err)
			c.mu.Unlock()
		}
	}()
}

// Check calls fn and records its error the same way Go does, without
// spawning a goroutine.
func (c *Context) Check(fn func() error) {
	if err := fn(); err != nil {
		c.mu.Lock()
		c.errs = append(c.errs, err)
		c.mu.Unlock()
	}
}

// Dir returns a scratch directory under the test's temp dir, creating it
// (and any path elements joined in) if needed.
func (c *Context) Dir(elem ...string) string {
	if c.dir == "" {
		c.dir = c.t.TempDir()
	}
	full := filepath.Join(append([]string{c.dir}, elem...)...)
	if err := os.MkdirAll(full, 0o755); err != nil {
		c.t.Fatal(err)
	}
	return full
}

// File returns a path under the test's scratch directory, creating its
// parent directory if needed. The final element is the file name, not a
// directory.
func (c *Context) File(elem ...string) string {
	if len(elem) == 0 {
		c.t.Fatal("testctx: File requires at least one path element")
	}
	dir := c.Dir(elem[:len(elem)-1]...)
	return filepath.Join(dir, elem[len(elem)-1])
}

// Cleanup cancels the context, waits for every goroutine started via Go
// to finish, and fails the test if any of them (or Check) reported an
// error.
func (c *Context) Cleanup() {
	c.cancel()
	c.wg.Wait()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, err := range c.errs {
		c.t.Error(err)
	}
}
