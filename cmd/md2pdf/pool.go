package main

import (
	md2pdf "github.com/caojiachen1/md2pdf"
)

// poolAdapter adapts md2pdf.ConverterPool to the Pool interface so batch
// conversion can be tested with fake converters.
type poolAdapter struct {
	inner *md2pdf.ConverterPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

// newPoolAdapter wraps a library pool.
func newPoolAdapter(pool *md2pdf.ConverterPool) *poolAdapter {
	return &poolAdapter{inner: pool}
}

// Acquire gets a converter from the underlying pool.
func (a *poolAdapter) Acquire() (Converter, error) {
	return a.inner.Acquire()
}

// Release returns a converter to the underlying pool.
// Converters not created by this pool are dropped silently.
func (a *poolAdapter) Release(c Converter) {
	if conv, ok := c.(*md2pdf.Converter); ok {
		a.inner.Release(conv)
	}
}

// Size returns the pool capacity.
func (a *poolAdapter) Size() int {
	return a.inner.Size()
}
