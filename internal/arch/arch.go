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

// Package arch supplies the per-target capability facts the width dispatcher
// consumes: which power-of-two storage classes have a native atomic
// instruction on the compile target, and a word-sized atomic cell for the
// native path. Everything here is fixed at compile time through build tags;
// the package never probes hardware at run time.
package arch

// Storage classes are the power-of-two byte widths a value is bucketed into
// for dispatch. A class is native when the target's word is at least that
// wide: sub-word widths are carried zero-extended inside a word cell, so a
// word-wide instruction covers them. Classes beyond the word (8 on 32-bit
// targets, 16 everywhere) have no single instruction and take the fallback
// path.
var nativeClass = [...]bool{
	1: true,
	2: true,
	4: true,
	8: WordSize == 8,
}

// Supported reports whether storage class has native atomic instruction
// support on this target.
func Supported(class uintptr) bool {
	return class < uintptr(len(nativeClass)) && nativeClass[class]
}

// ClassOf buckets a byte width into the nearest power-of-two storage class
// (1/2/4/8/16). Widths above 16 have no class and report 0.
func ClassOf(size uintptr) uintptr {
	switch {
	case size <= 1:
		return 1
	case size <= 2:
		return 2
	case size <= 4:
		return 4
	case size <= 8:
		return 8
	case size <= 16:
		return 16
	}
	return 0
}
