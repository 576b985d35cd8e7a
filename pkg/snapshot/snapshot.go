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

// Package snapshot bridges atomic values and an external serialization
// codec. The adapter's only job is guaranteeing that what the codec sees is
// a clean, atomically observed point-in-time value: one atomic load before
// encoding, one atomic store after decoding, never a torn or in-flight
// value, and never any lock or ordering state.
package snapshot

import (
	"bytes"
	"fmt"
	"io"

	"github.com/sugawarayuuta/sonnet"
	"github.com/valyala/bytebufferpool"

	"github.com/srediag/atomicval/pkg/atomicval"
	"github.com/srediag/atomicval/pkg/memorder"
)

// Encoder serializes a plain value to w.
type Encoder interface {
	Encode(w io.Writer, v any) error
}

// Decoder deserializes a plain value from r.
type Decoder interface {
	Decode(r io.Reader, v any) error
}

// Codec is a matched Encoder/Decoder pair.
type Codec interface {
	Encoder
	Decoder
}

type jsonCodec struct{}

func (jsonCodec) Encode(w io.Writer, v any) error { return sonnet.NewEncoder(w).Encode(v) }
func (jsonCodec) Decode(r io.Reader, v any) error { return sonnet.NewDecoder(r).Decode(v) }

// JSON is the default codec.
var JSON Codec = jsonCodec{}

// Encode performs a single atomic load at ord and hands the value to enc,
// returning the encoded bytes. Use memorder.Default when in doubt.
func Encode[T any](enc Encoder, v *atomicval.Value[T], ord memorder.Ordering) ([]byte, error) {
	cur := v.Load(ord)
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := enc.Encode(buf, cur); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

// Decode deserializes data with dec and performs a single atomic store of
// the result at ord.
func Decode[T any](dec Decoder, data []byte, v *atomicval.Value[T], ord memorder.Ordering) error {
	var next T
	if err := dec.Decode(bytes.NewReader(data), &next); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	v.Store(next, ord)
	return nil
}

// Bound ties one atomic value to a codec so heterogeneous values can be
// snapshotted through a uniform, non-generic surface (see pkg/registry).
type Bound[T any] struct {
	v     *atomicval.Value[T]
	codec Codec
}

// Bind wraps v with codec. A nil codec means JSON.
func Bind[T any](v *atomicval.Value[T], codec Codec) *Bound[T] {
	if codec == nil {
		codec = JSON
	}
	return &Bound[T]{v: v, codec: codec}
}

// EncodeSnapshot loads at ord and encodes.
func (b *Bound[T]) EncodeSnapshot(ord memorder.Ordering) ([]byte, error) {
	return Encode(b.codec, b.v, ord)
}

// DecodeAndStore decodes data and stores at ord.
func (b *Bound[T]) DecodeAndStore(data []byte, ord memorder.Ordering) error {
	return Decode(b.codec, data, b.v, ord)
}
