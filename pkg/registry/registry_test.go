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

package registry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srediag/atomicval/pkg/atomicval"
	"github.com/srediag/atomicval/pkg/memorder"
	"github.com/srediag/atomicval/pkg/registry"
	"github.com/srediag/atomicval/pkg/snapshot"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r, err := registry.New(registry.Config{})
	require.NoError(t, err)
	return r
}

func TestRegisterLookup(t *testing.T) {
	r := newRegistry(t)
	v := atomicval.New[uint64](7)

	require.NoError(t, r.Register("requests", snapshot.Bind(v, nil)))
	assert.Equal(t, 1, r.Len())

	s, ok := r.Lookup("requests")
	require.True(t, ok)
	data, err := s.EncodeSnapshot(memorder.SeqCst)
	require.NoError(t, err)
	assert.JSONEq(t, "7", string(data))

	_, ok = r.Lookup("missing")
	assert.False(t, ok)

	err = r.Register("requests", snapshot.Bind(v, nil))
	assert.ErrorIs(t, err, registry.ErrAlreadyRegistered)

	r.Unregister("requests")
	assert.Equal(t, 0, r.Len())
}

func TestSnapshotRestoreAll(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()

	hits := atomicval.New[uint64](123)
	depth := atomicval.New[int32](-4)
	require.NoError(t, r.Register("hits", snapshot.Bind(hits, nil)))
	require.NoError(t, r.Register("depth", snapshot.Bind(depth, nil)))

	snaps, err := r.SnapshotAll(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	hits.Store(0, memorder.SeqCst)
	depth.Store(0, memorder.SeqCst)

	require.NoError(t, r.RestoreAll(ctx, snaps))
	assert.Equal(t, uint64(123), hits.Load(memorder.SeqCst))
	assert.Equal(t, int32(-4), depth.Load(memorder.SeqCst))
}

func TestRestoreUnknownName(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()

	known := atomicval.New[uint64](0)
	require.NoError(t, r.Register("known", snapshot.Bind(known, nil)))

	err := r.RestoreAll(ctx, map[string][]byte{
		"known":   []byte("9\n"),
		"unknown": []byte("1\n"),
	})
	assert.ErrorIs(t, err, registry.ErrUnknownName)
	// The known value is still restored.
	assert.Equal(t, uint64(9), known.Load(memorder.SeqCst))
}

func TestRestoreBadSnapshot(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()

	v := atomicval.New[uint64](5)
	require.NoError(t, r.Register("v", snapshot.Bind(v, nil)))

	err := r.RestoreAll(ctx, map[string][]byte{"v": []byte("{broken")})
	require.Error(t, err)
	assert.Equal(t, uint64(5), v.Load(memorder.SeqCst))
}
