package main

import (
	"fmt"

	mdcommand "github.com/alnah/go-mdcommand"
)

// poolAdapter exposes a *mdcommand.ConverterPool through the Pool interface
// so batch code can be tested with mock converters.
type poolAdapter struct {
	pool *mdcommand.ConverterPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

// newPoolAdapter is the production Environment.NewPool.
func newPoolAdapter(size int, opts ...mdcommand.Option) Pool {
	return &poolAdapter{pool: mdcommand.NewConverterPool(size, opts...)}
}

func (a *poolAdapter) Acquire() (CLIConverter, error) {
	conv, err := a.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Release returns conv to the pool. Passing a converter that did not come
// from Acquire is a programmer error and panics.
func (a *poolAdapter) Release(conv CLIConverter) {
	c, ok := conv.(*mdcommand.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", conv))
	}
	a.pool.Release(c)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

func (a *poolAdapter) Close() error {
	return a.pool.Close()
}
