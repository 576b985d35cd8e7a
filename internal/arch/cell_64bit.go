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

//go:build !(386 || arm || mips || mipsle)

package arch

import "sync/atomic"

// Word is the widest integer the target can operate on with a single atomic
// instruction.
type Word = uint64

// WordSize is the byte width of Word.
const WordSize = 8

// Cell is one native atomic storage word. The embedded sync/atomic type
// guarantees alignment and copy protection.
type Cell struct {
	v atomic.Uint64
}

func (c *Cell) Load() Word       { return c.v.Load() }
func (c *Cell) Store(w Word)     { c.v.Store(w) }
func (c *Cell) Swap(w Word) Word { return c.v.Swap(w) }

func (c *Cell) CompareAndSwap(old, new Word) bool {
	return c.v.CompareAndSwap(old, new)
}

// Add returns the new value, per sync/atomic convention.
func (c *Cell) Add(delta Word) Word { return c.v.Add(delta) }

// And and Or return the old value, per sync/atomic convention.
func (c *Cell) And(mask Word) Word { return c.v.And(mask) }
func (c *Cell) Or(mask Word) Word  { return c.v.Or(mask) }
