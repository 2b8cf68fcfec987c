// Copyright (c) 2024 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package gc

import (
	"errors"
	"fmt"
	"io"

	"github.com/valyala/bytebufferpool"
)

// Buffer defines the interface for a reusable byte buffer.
// It abstracts the [bytebufferpool.ByteBuffer] type to avoid direct dependencies.
type Buffer interface {
	Write(p []byte) (int, error)
	WriteString(s string) (int, error)
	Bytes() []byte
	Len() int
	Reset()
	ReadFrom(r io.Reader) (int64, error)
}

// Pool defines the interface for buffer pooling.
// It abstracts the [bytebufferpool.Pool] type to avoid direct dependencies.
//
// Pool implementations must be safe for concurrent use by multiple goroutines.
type Pool interface {
	Get() Buffer
	Put(b Buffer)
}

// pool wraps [bytebufferpool.Pool] to implement Pool interface.
type pool struct{ p *bytebufferpool.Pool }

// Get returns a buffer from the pool.
func (p *pool) Get() Buffer { return p.p.Get() }

// Put returns a buffer to the pool.
func (p *pool) Put(b Buffer) {
	if buf, ok := b.(*bytebufferpool.ByteBuffer); ok {
		p.p.Put(buf)
	}
}

// Default is the default buffer pool used for efficient memory reuse in I/O operations.
//
// Example usage for reading an HTTP response body:
//
//	buf := gc.Default.Get()
//
//	defer func() {
//		buf.Reset()         // Reset the buffer to prevent data leaks
//		gc.Default.Put(buf) // Return the buffer to the pool for reuse
//	}()
//
//	if _, err := buf.ReadFrom(resp.Body); err != nil {
//		return nil, fmt.Errorf("error reading response body: %w", err)
//	}
//
// Bytes returned by the buffer are only valid until it is returned to the pool.
// Use [ReadAll] when the caller needs to keep the data.
var Default Pool = &pool{p: &bytebufferpool.Pool{}}

// ErrTooLarge is returned by [ReadAll] when the input exceeds its limit.
var ErrTooLarge = errors.New("gc: data exceeds the size limit")

// ReadAll reads r until EOF using a pooled buffer from [Default] and returns
// a copy of the data that is safe to retain after the buffer is recycled.
//
// When limit is greater than zero, input longer than limit bytes is rejected
// with [ErrTooLarge] instead of being truncated.
func ReadAll(r io.Reader, limit int64) ([]byte, error) {
	buf := Default.Get()
	defer func() {
		buf.Reset()
		Default.Put(buf)
	}()

	if limit > 0 {
		// One extra byte tells a body of exactly limit bytes from a longer one.
		r = io.LimitReader(r, limit+1)
	}

	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}

	if limit > 0 && int64(buf.Len()) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}

	return append([]byte(nil), buf.Bytes()...), nil
}
