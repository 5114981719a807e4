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

// Package dirwriter is the Connection Writer component (spec §4.2): it
// serializes buffers onto a connection's socket one PDU at a time, with
// blocking coordination against an external event loop. The protocol
// itself lives on dirop.Connection, which owns the mutexes and condition
// variable it must synchronize on (spec §5 lock order write-mutex ->
// state-mutex); this package is the public entry point named by the
// spec, kept as a thin wrapper so callers reach for a "writer" concept
// distinct from the connection's data model.
package dirwriter

import (
	"github.com/sabouaram/dirsrv/dirhook"
	"github.com/sabouaram/dirsrv/dirop"
)

// SendPDU writes buf onto conn, per spec §4.2. loop may be nil if no
// external event loop needs write-interest notifications (e.g. tests).
func SendPDU(conn *dirop.Connection, buf []byte, loop dirhook.EventLoop) (int, error) {
	return conn.SendPDU(buf, loop)
}
