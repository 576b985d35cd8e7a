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

package atomicval

import (
	"unsafe"

	"golang.org/x/exp/constraints"

	"github.com/srediag/atomicval/internal/arch"
	"github.com/srediag/atomicval/pkg/memorder"
)

// The fetch-and-apply family. Every operation is defined by the FetchUpdate
// retry loop and returns the previous value; where the width and operation
// have a native read-modify-write instruction (word-wide add/sub/and/or),
// the loop is bypassed for it. Integer arithmetic wraps.

// wordSized reports whether a native instruction exists for this exact
// width/op family: only full-word operands, since a sub-word add inside the
// word cell would carry into the zero-extension bytes.
func wordSized[T any]() bool {
	var z T
	return unsafe.Sizeof(z) == arch.WordSize
}

// FetchAdd atomically adds delta to the value and returns the previous one.
func FetchAdd[T constraints.Integer](v *Value[T], delta T, ord memorder.Ordering) T {
	if v.lockfree && wordSized[T]() {
		memorder.Check(memorder.FetchUpdate, ord)
		w := pack(delta)
		return unpack[T](v.cell.Add(w) - w)
	}
	return v.FetchUpdate(ord, func(cur T) T { return cur + delta })
}

// FetchSub atomically subtracts delta from the value and returns the
// previous one.
func FetchSub[T constraints.Integer](v *Value[T], delta T, ord memorder.Ordering) T {
	if v.lockfree && wordSized[T]() {
		memorder.Check(memorder.FetchUpdate, ord)
		w := pack(delta)
		return unpack[T](v.cell.Add(^w+1) + w)
	}
	return v.FetchUpdate(ord, func(cur T) T { return cur - delta })
}

// FetchAnd atomically ANDs mask into the value and returns the previous one.
func FetchAnd[T constraints.Integer](v *Value[T], mask T, ord memorder.Ordering) T {
	if v.lockfree && wordSized[T]() {
		memorder.Check(memorder.FetchUpdate, ord)
		return unpack[T](v.cell.And(pack(mask)))
	}
	return v.FetchUpdate(ord, func(cur T) T { return cur & mask })
}

// FetchOr atomically ORs mask into the value and returns the previous one.
func FetchOr[T constraints.Integer](v *Value[T], mask T, ord memorder.Ordering) T {
	if v.lockfree && wordSized[T]() {
		memorder.Check(memorder.FetchUpdate, ord)
		return unpack[T](v.cell.Or(pack(mask)))
	}
	return v.FetchUpdate(ord, func(cur T) T { return cur | mask })
}

// FetchXor atomically XORs mask into the value and returns the previous one.
// No target offers a direct xor, so this is always the retry loop.
func FetchXor[T constraints.Integer](v *Value[T], mask T, ord memorder.Ordering) T {
	return v.FetchUpdate(ord, func(cur T) T { return cur ^ mask })
}

// FetchMin atomically stores min(current, val) and returns the previous
// value.
func FetchMin[T constraints.Ordered](v *Value[T], val T, ord memorder.Ordering) T {
	return v.FetchUpdate(ord, func(cur T) T {
		if cur <= val {
			return cur
		}
		return val
	})
}

// FetchMax atomically stores max(current, val) and returns the previous
// value.
func FetchMax[T constraints.Ordered](v *Value[T], val T, ord memorder.Ordering) T {
	return v.FetchUpdate(ord, func(cur T) T {
		if cur >= val {
			return cur
		}
		return val
	})
}
