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
	"reflect"
	"unsafe"

	"github.com/srediag/atomicval/internal/arch"
)

// pack copies the representation of v into the low-addressed bytes of a
// native word. For any T no wider than the word this is a bijection between
// values and words, so word equality is byte-wise value equality — exactly
// the comparison CompareExchange is specified to perform.
func pack[T any](v T) arch.Word {
	var w arch.Word
	copy(wordBytes(&w)[:unsafe.Sizeof(v)], valueBytes(&v))
	return w
}

// unpack inverts pack.
func unpack[T any](w arch.Word) (v T) {
	copy(valueBytes(&v), wordBytes(&w)[:unsafe.Sizeof(v)])
	return v
}

func wordBytes(w *arch.Word) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(w)), unsafe.Sizeof(*w))
}

// valueBytes exposes the raw representation of *v.
func valueBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}

// typeHasPointers walks t and reports whether any part of it is tracked by
// the garbage collector. Such types must be rejected: the native path stores
// values as raw words, which would hide the pointers from the GC.
func typeHasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && typeHasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if typeHasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		// Pointers, maps, chans, funcs, slices, strings, interfaces.
		return true
	}
}
