/*
 * Copyright 2025 SREDiag Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package registry keeps named handles to atomic values so a process can
// snapshot and restore them wholesale, e.g. across a hot restart.
package registry

import (
	"context"
	"errors"
	"fmt"

	cmap "github.com/orcaman/concurrent-map/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/srediag/atomicval/internal/debug"
	"github.com/srediag/atomicval/pkg/memorder"
)

var (
	ErrAlreadyRegistered = errors.New("name already registered")
	ErrUnknownName       = errors.New("unknown name")
)

// Snapshotter is the uniform, non-generic view of one atomic value;
// snapshot.Bind produces one.
type Snapshotter interface {
	EncodeSnapshot(ord memorder.Ordering) ([]byte, error)
	DecodeAndStore(data []byte, ord memorder.Ordering) error
}

// Config holds registry creation parameters. Meter and Tracer are optional;
// leave them nil to disable instrumentation.
type Config struct {
	Meter  metric.Meter
	Tracer trace.Tracer
}

// Registry maps names to snapshottable atomic values. All methods are safe
// for concurrent use.
type Registry struct {
	entries cmap.ConcurrentMap[string, Snapshotter]
	tracer  trace.Tracer

	snapshots metric.Int64Counter
	restores  metric.Int64Counter
}

// New builds a registry from cfg.
func New(cfg Config) (*Registry, error) {
	r := &Registry{
		entries: cmap.New[Snapshotter](),
		tracer:  cfg.Tracer,
	}
	if cfg.Meter != nil {
		var err error
		r.snapshots, err = cfg.Meter.Int64Counter("atomicval.registry.snapshots",
			metric.WithDescription("values snapshotted"))
		if err != nil {
			return nil, fmt.Errorf("create snapshot counter: %w", err)
		}
		r.restores, err = cfg.Meter.Int64Counter("atomicval.registry.restores",
			metric.WithDescription("values restored"))
		if err != nil {
			return nil, fmt.Errorf("create restore counter: %w", err)
		}
	}
	return r, nil
}

// Register binds name to s. Names are bound once; re-registering is an
// ErrAlreadyRegistered.
func (r *Registry) Register(name string, s Snapshotter) error {
	if !r.entries.SetIfAbsent(name, s) {
		return fmt.Errorf("register %q: %w", name, ErrAlreadyRegistered)
	}
	return nil
}

// Unregister removes name; unknown names are a no-op.
func (r *Registry) Unregister(name string) {
	r.entries.Remove(name)
}

// Lookup returns the handle bound to name.
func (r *Registry) Lookup(name string) (Snapshotter, bool) {
	return r.entries.Get(name)
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	return r.entries.Count()
}

// SnapshotAll encodes every registered value at SeqCst and returns the
// snapshots by name. Each value is loaded atomically, but the map as a whole
// is not one consistent cut across values.
func (r *Registry) SnapshotAll(ctx context.Context) (map[string][]byte, error) {
	if r.tracer != nil {
		var span trace.Span
		ctx, span = r.tracer.Start(ctx, "registry.SnapshotAll")
		defer span.End()
		span.SetAttributes(attribute.Int("registry.size", r.entries.Count()))
	}

	out := make(map[string][]byte, r.entries.Count())
	var errs []error
	for tuple := range r.entries.IterBuffered() {
		data, err := tuple.Val.EncodeSnapshot(memorder.Default)
		if err != nil {
			debug.Warnf("snapshot of %q failed: %v", tuple.Key, err)
			errs = append(errs, fmt.Errorf("snapshot %q: %w", tuple.Key, err))
			continue
		}
		out[tuple.Key] = data
	}
	if r.snapshots != nil {
		r.snapshots.Add(ctx, int64(len(out)))
	}
	return out, errors.Join(errs...)
}

// RestoreAll stores each named snapshot back into its registered value at
// SeqCst. Snapshots for unregistered names are reported as ErrUnknownName;
// the rest are still restored.
func (r *Registry) RestoreAll(ctx context.Context, snaps map[string][]byte) error {
	if r.tracer != nil {
		var span trace.Span
		ctx, span = r.tracer.Start(ctx, "registry.RestoreAll")
		defer span.End()
		span.SetAttributes(attribute.Int("registry.restore.size", len(snaps)))
	}

	var errs []error
	restored := 0
	for name, data := range snaps {
		s, ok := r.entries.Get(name)
		if !ok {
			errs = append(errs, fmt.Errorf("restore %q: %w", name, ErrUnknownName))
			continue
		}
		if err := s.DecodeAndStore(data, memorder.Default); err != nil {
			debug.Warnf("restore of %q failed: %v", name, err)
			errs = append(errs, fmt.Errorf("restore %q: %w", name, err))
			continue
		}
		restored++
	}
	if r.restores != nil {
		r.restores.Add(ctx, int64(restored))
	}
	return errors.Join(errs...)
}
