// Package pools provides reusable buffers for the secret scanner's
// file-reading hot path, keeping GC pressure down when scanning large
// trees.
package pools

import (
	"bytes"
	"strings"
	"sync"
)

// BufferPool provides reusable byte buffers to reduce GC pressure.
var BufferPool = &bufferPool{
	pool: sync.Pool{
		New: func() interface{} {
			return make([]byte, 0, 4096)
		},
	},
}

type bufferPool struct {
	pool sync.Pool
}

func (p *bufferPool) Get() []byte {
	return p.pool.Get().([]byte)
}

func (p *bufferPool) Put(buf []byte) {
	if cap(buf) > 64*1024 {
		return
	}
	p.pool.Put(buf[:0])
}

// BytesBufferPool provides reusable bytes.Buffer instances.
var BytesBufferPool = &bytesBufferPool{
	pool: sync.Pool{
		New: func() interface{} {
			return &bytes.Buffer{}
		},
	},
}

type bytesBufferPool struct {
	pool sync.Pool
}

func (p *bytesBufferPool) Get() *bytes.Buffer {
	return p.pool.Get().(*bytes.Buffer)
}

func (p *bytesBufferPool) Put(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 {
		return
	}
	buf.Reset()
	p.pool.Put(buf)
}

// StringBuilderPool provides reusable string builders, used when
// formatting redacted secret values.
var StringBuilderPool = &stringBuilderPool{
	pool: sync.Pool{
		New: func() interface{} {
			var sb strings.Builder
			sb.Grow(1024)
			return &sb
		},
	},
}

type stringBuilderPool struct {
	pool sync.Pool
}

func (p *stringBuilderPool) Get() *strings.Builder {
	return p.pool.Get().(*strings.Builder)
}

func (p *stringBuilderPool) Put(sb *strings.Builder) {
	if sb.Cap() > 16*1024 {
		return
	}
	sb.Reset()
	p.pool.Put(sb)
}
