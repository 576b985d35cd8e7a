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

package memorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLegalityTable(t *testing.T) {
	all := []Ordering{Relaxed, Acquire, Release, AcqRel, SeqCst}

	// Relaxed and SeqCst are valid for every shape.
	for _, op := range []Op{Load, Store, Swap, CompareExchange, FetchUpdate, CASFailure} {
		assert.True(t, Valid(op, Relaxed), "Relaxed must be valid for %s", op)
		assert.True(t, Valid(op, SeqCst), "SeqCst must be valid for %s", op)
	}

	// Acquire applies only to operations with a read facet.
	assert.True(t, Valid(Load, Acquire))
	assert.False(t, Valid(Store, Acquire))

	// Release applies only to operations with a write facet.
	assert.False(t, Valid(Load, Release))
	assert.True(t, Valid(Store, Release))

	// AcqRel is RMW-only.
	assert.False(t, Valid(Load, AcqRel))
	assert.False(t, Valid(Store, AcqRel))
	for _, op := range []Op{Swap, CompareExchange, FetchUpdate} {
		for _, o := range all {
			assert.True(t, Valid(op, o), "%s must accept %s", op, o)
		}
	}

	// The failure slot of a compare-exchange is load-shaped.
	assert.True(t, Valid(CASFailure, Acquire))
	assert.False(t, Valid(CASFailure, Release))
	assert.False(t, Valid(CASFailure, AcqRel))
}

func TestCheckPanicsOnContractViolation(t *testing.T) {
	assert.Panics(t, func() { Check(Load, Release) })
	assert.Panics(t, func() { Check(Store, Acquire) })
	assert.Panics(t, func() { Check(CASFailure, AcqRel) })
	assert.NotPanics(t, func() { Check(Swap, AcqRel) })
	assert.Panics(t, func() { Check(Load, Ordering(42)) })
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "SeqCst", SeqCst.String())
	assert.Equal(t, "Relaxed", Relaxed.String())
	assert.Equal(t, "FetchUpdate", FetchUpdate.String())
	assert.Equal(t, "Ordering(9)", Ordering(9).String())
}

func TestDefaultIsSeqCst(t *testing.T) {
	assert.Equal(t, SeqCst, Default)
}
