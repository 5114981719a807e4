/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package atomic provides a generic, lock-free value cell used to hold the
// small bits of mutable state a directory connection's goroutines share: a
// connection's closing and write-wait flags are the only two cells this
// module constructs, one per Connection, each read far more often than
// written (see dirop.Connection).
package atomic

import (
	"sync/atomic"
)

// Value holds a single value of type T behind sync/atomic.Value, with
// optional stand-in values for an empty load or an empty store.
type Value[T any] interface {
	// SetDefaultLoad sets the value Load returns before the first Store.
	SetDefaultLoad(def T)
	// SetDefaultStore sets the value substituted when Store is called with T's zero value.
	SetDefaultStore(def T)

	// Load returns the current value, or the configured load default if nothing was stored yet.
	Load() (val T)
	// Store sets the current value, substituting the store default for a zero value.
	Store(val T)
	// Swap stores new and returns the value it replaced.
	Swap(new T) (old T)
	// CompareAndSwap stores new only if the current value equals old, reporting whether it did.
	CompareAndSwap(old, new T) (swapped bool)
}

// NewValue returns a Value[T] with both defaults set to T's zero value.
//
// Example:
//
//	closing := NewValue[bool]()
//	closing.Store(true)
//	if closing.Load() { ... }
func NewValue[T any]() Value[T] {
	var (
		tmp1 T
		tmp2 T
	)

	return NewValueDefault[T](tmp1, tmp2)
}

// NewValueDefault returns a Value[T] with explicit load/store defaults.
func NewValueDefault[T any](load, store T) Value[T] {
	o := &val[T]{
		av: new(atomic.Value),
		dl: new(atomic.Value),
		ds: new(atomic.Value),
	}

	o.SetDefaultLoad(load)
	o.SetDefaultStore(store)

	return o
}
