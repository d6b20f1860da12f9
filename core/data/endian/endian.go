// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package endian implements binary.Reader and binary.Writer for a fixed byte
// order on top of io.Reader and io.Writer.
package endian

import (
	"bytes"
	eb "encoding/binary"
	"io"

	"github.com/scummvm/scummvm-sub059/core/data/binary"
)

// Reader creates a binary.Reader that reads from the provided io.Reader, with
// the specified byte order.
func Reader(r io.Reader, order eb.ByteOrder) binary.Reader {
	return &reader{reader: r, byteOrder: order}
}

// Writer creates a binary.Writer that writes to the supplied stream, with the
// specified byte order.
func Writer(w io.Writer, order eb.ByteOrder) binary.Writer {
	return &writer{writer: w, byteOrder: order}
}

// Little is shorthand for Reader(r, encoding/binary.LittleEndian).
func Little(r io.Reader) binary.Reader { return Reader(r, eb.LittleEndian) }

// LittleWriter is shorthand for Writer(w, encoding/binary.LittleEndian).
func LittleWriter(w io.Writer) binary.Writer { return Writer(w, eb.LittleEndian) }

type reader struct {
	reader    io.Reader
	tmp       [4]byte
	byteOrder eb.ByteOrder
	err       error
}

type writer struct {
	writer    io.Writer
	tmp       [4]byte
	byteOrder eb.ByteOrder
	err       error
}

func (w *writer) data(data []byte) {
	if w.err != nil {
		return
	}
	n, err := w.writer.Write(data)
	if err != nil {
		w.err = err
	} else if n != len(data) {
		w.err = io.ErrShortWrite
	}
}

// fill reads exactly n bytes into the scratch buffer.
func (r *reader) fill(n int) []byte {
	if r.err != nil {
		return nil
	}
	b := r.tmp[:n]
	if _, err := io.ReadFull(r.reader, b); err != nil {
		r.err = err
		return nil
	}
	return b
}

func (r *reader) Bool() bool {
	return r.Uint8() != 0
}

func (w *writer) Bool(v bool) {
	if v {
		w.Uint8(1)
	} else {
		w.Uint8(0)
	}
}

func (r *reader) Uint8() uint8 {
	b := r.fill(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (w *writer) Uint8(v uint8) {
	w.tmp[0] = v
	w.data(w.tmp[:1])
}

func (r *reader) Int16() int16 {
	return int16(r.uint16())
}

func (w *writer) Int16(v int16) {
	w.uint16(uint16(v))
}

func (r *reader) uint16() uint16 {
	b := r.fill(2)
	if b == nil {
		return 0
	}
	return r.byteOrder.Uint16(b)
}

func (w *writer) uint16(v uint16) {
	w.byteOrder.PutUint16(w.tmp[:], v)
	w.data(w.tmp[:2])
}

func (r *reader) Int32() int32 {
	return int32(r.Uint32())
}

func (w *writer) Int32(v int32) {
	w.Uint32(uint32(v))
}

func (r *reader) Uint32() uint32 {
	b := r.fill(4)
	if b == nil {
		return 0
	}
	return r.byteOrder.Uint32(b)
}

func (w *writer) Uint32(v uint32) {
	w.byteOrder.PutUint32(w.tmp[:], v)
	w.data(w.tmp[:4])
}

func (r *reader) String() string {
	return string(r.Blob(^uint32(0)))
}

func (w *writer) String(v string) {
	w.Uint32(uint32(len(v)))
	if w.err != nil {
		return
	}
	n, err := io.WriteString(w.writer, v)
	if err != nil {
		w.err = err
	} else if n != len(v) {
		w.err = io.ErrShortWrite
	}
}

// Blob grows its buffer as bytes arrive. A length prefix that runs past the
// end of the stream fails with io.ErrUnexpectedEOF.
func (r *reader) Blob(limit uint32) []byte {
	size := r.Uint32()
	if r.err != nil {
		return nil
	}
	if size > limit {
		r.err = binary.ErrLengthOverflow
		return nil
	}
	if size == 0 {
		return []byte{}
	}
	buf := bytes.Buffer{}
	n, err := io.CopyN(&buf, r.reader, int64(size))
	switch {
	case err == io.EOF:
		r.err = io.ErrUnexpectedEOF
		return nil
	case err != nil:
		r.err = err
		return nil
	case n != int64(size):
		r.err = io.ErrUnexpectedEOF
		return nil
	}
	return buf.Bytes()
}

func (w *writer) Blob(v []byte) {
	w.Uint32(uint32(len(v)))
	if len(v) > 0 {
		w.data(v)
	}
}

func (w *writer) Error() error {
	return w.err
}

func (r *reader) Error() error {
	return r.err
}
