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

// Package memorder defines the memory orderings an atomic operation may
// request and the legality rules binding orderings to operation shapes.
//
// The rules follow the C11/LLVM model: Acquire applies only to operations
// with a read facet, Release only to operations with a write facet, AcqRel
// only to read-modify-write operations, and SeqCst additionally joins a
// single total order over all SeqCst operations. Relaxed guarantees
// atomicity and nothing else.
package memorder

import "fmt"

// Ordering is the memory-visibility contract requested for a single atomic
// operation. It is attached per call, not per value.
type Ordering uint8

const (
	// Relaxed guarantees atomicity only; no synchronizes-with edge.
	Relaxed Ordering = iota
	// Acquire makes writes released by another goroutine visible. Valid
	// only for operations that read.
	Acquire
	// Release publishes prior writes to a later acquiring goroutine. Valid
	// only for operations that write.
	Release
	// AcqRel combines Acquire and Release. Valid only for read-modify-write
	// operations.
	AcqRel
	// SeqCst is the strongest ordering: acquire/release semantics plus a
	// total order over all SeqCst operations on all addresses.
	SeqCst
)

// Default is the ordering convenience entry points use when the caller does
// not care; it is always safe.
const Default = SeqCst

func (o Ordering) String() string {
	switch o {
	case Relaxed:
		return "Relaxed"
	case Acquire:
		return "Acquire"
	case Release:
		return "Release"
	case AcqRel:
		return "AcqRel"
	case SeqCst:
		return "SeqCst"
	}
	return fmt.Sprintf("Ordering(%d)", uint8(o))
}

// Op is the shape of an atomic operation for legality purposes. Swap,
// CompareExchange and FetchUpdate all carry both a read and a write facet
// and share the read-modify-write rules; CASFailure is the load-shaped slot
// a failed compare-exchange reports through.
type Op uint8

const (
	Load Op = iota
	Store
	Swap
	CompareExchange
	FetchUpdate
	CASFailure

	numOps
)

func (op Op) String() string {
	switch op {
	case Load:
		return "Load"
	case Store:
		return "Store"
	case Swap:
		return "Swap"
	case CompareExchange:
		return "CompareExchange"
	case FetchUpdate:
		return "FetchUpdate"
	case CASFailure:
		return "CASFailure"
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// legal[op][ordering] is a static lookup resolved once at package init.
var legal = func() (t [numOps][SeqCst + 1]bool) {
	loadShaped := [...]Ordering{Relaxed, Acquire, SeqCst}
	storeShaped := [...]Ordering{Relaxed, Release, SeqCst}
	rmwShaped := [...]Ordering{Relaxed, Acquire, Release, AcqRel, SeqCst}

	for _, o := range loadShaped {
		t[Load][o] = true
		t[CASFailure][o] = true
	}
	for _, o := range storeShaped {
		t[Store][o] = true
	}
	for _, o := range rmwShaped {
		t[Swap][o] = true
		t[CompareExchange][o] = true
		t[FetchUpdate][o] = true
	}
	return t
}()

// Valid reports whether ord may be requested for an operation of shape op.
func Valid(op Op, ord Ordering) bool {
	return op < numOps && ord <= SeqCst && legal[op][ord]
}

// Check panics if ord is illegal for op. An illegal pairing is a
// programming-contract violation, never a recoverable runtime condition, so
// no ordering is ever silently substituted.
func Check(op Op, ord Ordering) {
	if !Valid(op, ord) {
		panic(fmt.Sprintf("memorder: ordering %s is invalid for %s operations", ord, op))
	}
}
