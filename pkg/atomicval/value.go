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

// Package atomicval provides a generic atomic container for plain-data
// types of bounded size, with per-call memory orderings.
//
// A Value[T] is classified once, at construction, as native-backed or
// fallback-backed. Types no wider than the target's atomic word are carried
// zero-extended inside a single hardware-atomic cell and every operation
// maps onto a native instruction. Wider types (up to 16 bytes on 64-bit
// targets) live in a plain cell guarded by a process-wide address-sharded
// lock pool; operations there are emulated under the shard lock, which
// satisfies every requested ordering with at-least-SeqCst behavior. Either
// way, no observer ever sees a torn value.
//
// T must be plain data: fixed size, trivially copyable, no pointers. New
// panics on pointer-bearing types. CompareExchange compares byte
// representations, not ==, so types with padding compare by their raw bytes.
package atomicval

import (
	"bytes"
	"fmt"
	"reflect"
	"unsafe"

	"github.com/srediag/atomicval/internal/arch"
	"github.com/srediag/atomicval/internal/fallback"
	"github.com/srediag/atomicval/pkg/memorder"
)

// Value holds one instance of T and guarantees indivisible load, store and
// read-modify-write access to it. Share a Value by pointer; never copy one
// after first use.
//
// The numeric fetch-and-apply family (FetchAdd, FetchOr, FetchMin, ...)
// lives in free functions because Go methods cannot add type constraints.
type Value[T any] struct {
	cell  arch.Cell
	plain T

	lockfree bool
}

// New wraps initial in an atomic container. It panics if T contains
// pointers; that is a contract violation, not a recoverable error.
func New[T any](initial T) *Value[T] {
	if t := reflect.TypeFor[T](); typeHasPointers(t) {
		panic(fmt.Sprintf("atomicval: %s contains pointers and is not plain data", t))
	}
	v := &Value[T]{lockfree: lockFree[T]()}
	if v.lockfree {
		v.cell.Store(pack(initial))
	} else {
		v.plain = initial
	}
	return v
}

// lockFree classifies T for this target. The classification depends only on
// the (width, target) pair, never on the runtime instance: the native cell
// supplies the alignment the instruction needs, so a class is native exactly
// when the target has an instruction that wide.
func lockFree[T any]() bool {
	var z T
	size := unsafe.Sizeof(z)
	if size == 0 {
		return true
	}
	return arch.Supported(arch.ClassOf(size))
}

// IsLockFree reports whether operations on this value use native atomic
// instructions rather than the sharded lock pool.
func (v *Value[T]) IsLockFree() bool {
	return v.lockfree
}

// Load atomically returns the current value.
//
// ord must be legal for loads: Relaxed, Acquire or SeqCst.
func (v *Value[T]) Load(ord memorder.Ordering) T {
	memorder.Check(memorder.Load, ord)
	if v.lockfree {
		return unpack[T](v.cell.Load())
	}
	g := fallback.Acquire(uintptr(unsafe.Pointer(&v.plain)))
	defer g.Release()
	return v.plain
}

// Store atomically replaces the current value.
//
// ord must be legal for stores: Relaxed, Release or SeqCst.
func (v *Value[T]) Store(val T, ord memorder.Ordering) {
	memorder.Check(memorder.Store, ord)
	if v.lockfree {
		v.cell.Store(pack(val))
		return
	}
	g := fallback.Acquire(uintptr(unsafe.Pointer(&v.plain)))
	defer g.Release()
	v.plain = val
}

// Swap atomically replaces the current value and returns the previous one.
func (v *Value[T]) Swap(val T, ord memorder.Ordering) T {
	memorder.Check(memorder.Swap, ord)
	if v.lockfree {
		return unpack[T](v.cell.Swap(pack(val)))
	}
	g := fallback.Acquire(uintptr(unsafe.Pointer(&v.plain)))
	defer g.Release()
	prev := v.plain
	v.plain = val
	return prev
}

// CompareExchange atomically replaces the current value with new if its byte
// representation equals old. It returns the value held immediately before
// the call and whether the swap happened. It never fails spuriously: swapped
// is false only when the current value actually differed from old.
//
// success must be legal for read-modify-write operations; failure must be a
// load-shaped ordering (Relaxed, Acquire or SeqCst).
func (v *Value[T]) CompareExchange(old, new T, success, failure memorder.Ordering) (prev T, swapped bool) {
	memorder.Check(memorder.CompareExchange, success)
	memorder.Check(memorder.CASFailure, failure)
	if v.lockfree {
		ow, nw := pack(old), pack(new)
		for {
			if v.cell.CompareAndSwap(ow, nw) {
				return old, true
			}
			if cur := v.cell.Load(); cur != ow {
				return unpack[T](cur), false
			}
			// Lost a race against a writer that restored old; try again.
		}
	}
	g := fallback.Acquire(uintptr(unsafe.Pointer(&v.plain)))
	defer g.Release()
	prev = v.plain
	if !bytes.Equal(valueBytes(&prev), valueBytes(&old)) {
		return prev, false
	}
	v.plain = new
	return prev, true
}

// CompareExchangeWeak is CompareExchange with permission to fail spuriously
// even when the current value equals old, in exchange for a cheaper
// instruction on targets that have one. No current target exploits the
// allowance, so today it behaves exactly like CompareExchange; callers must
// still write retry loops as if it could fail spuriously.
func (v *Value[T]) CompareExchangeWeak(old, new T, success, failure memorder.Ordering) (prev T, swapped bool) {
	return v.CompareExchange(old, new, success, failure)
}

// FetchUpdate atomically applies f to the current value and stores the
// result, returning the value f observed. On the native path this is a
// compare-and-swap retry loop, so f may run several times but its final
// input is the value the update replaced. On the fallback path the whole
// update is one critical section and f runs exactly once.
//
// f runs inside that critical section on the fallback path: it must not
// block and must not touch any atomic value, or it deadlocks.
func (v *Value[T]) FetchUpdate(ord memorder.Ordering, f func(T) T) T {
	memorder.Check(memorder.FetchUpdate, ord)
	if v.lockfree {
		for {
			cur := v.cell.Load()
			if v.cell.CompareAndSwap(cur, pack(f(unpack[T](cur)))) {
				return unpack[T](cur)
			}
		}
	}
	g := fallback.Acquire(uintptr(unsafe.Pointer(&v.plain)))
	defer g.Release()
	prev := v.plain
	v.plain = f(prev)
	return prev
}
