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

// Package fallback emulates atomicity for widths the target has no native
// instruction for. A process-wide pool of locks is sharded by the address of
// the guarded cell: every access to a given address acquires the same shard,
// so a plain read/mutate/write between Acquire and Release is indivisible to
// every other accessor going through this pool. Collisions between unrelated
// addresses only add contention, never incorrectness.
//
// Lock acquire/release provides at least sequentially consistent ordering
// for all accesses through the same shard, so no ordering parameter exists
// here; every requested ordering collapses to "lock-protected".
package fallback

import (
	"encoding/binary"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sys/cpu"
)

// shardCount bounds worst-case contention without per-value allocation.
// Must be a power of two.
const shardCount = 64

// Each shard gets its own cache line so contention on one address does not
// bounce the line holding its neighbours.
type shard struct {
	mu sync.Mutex
	_  cpu.CacheLinePad
}

var (
	pool [shardCount]shard

	acquisitions atomic.Uint64
	contended    atomic.Uint64
)

// shardFor hashes an address to its shard. The low 4 bits are discarded so
// that bytes which may belong to the same memory operation map to the same
// shard; the remaining bits are hashed for uniformity.
func shardFor(addr uintptr) *shard {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(addr>>4))
	return &pool[xxhash.Sum64(b[:])&(shardCount-1)]
}

// Guard holds one acquired shard. Release with defer so the shard is freed
// on every exit path. A goroutine must never hold two guards at once.
type Guard struct {
	s *shard
}

// Acquire blocks until the shard for addr is free and returns its guard.
func Acquire(addr uintptr) Guard {
	s := shardFor(addr)
	acquisitions.Add(1)
	if !s.mu.TryLock() {
		contended.Add(1)
		s.mu.Lock()
	}
	return Guard{s: s}
}

// Release unlocks the guarded shard.
func (g Guard) Release() {
	g.s.mu.Unlock()
}

// PoolStats is a point-in-time view of pool activity. Counters are advisory
// only and feed the metrics collector.
type PoolStats struct {
	Shards       int
	Acquisitions uint64
	Contended    uint64
}

// Stats returns the current pool counters.
func Stats() PoolStats {
	return PoolStats{
		Shards:       shardCount,
		Acquisitions: acquisitions.Load(),
		Contended:    contended.Load(),
	}
}
