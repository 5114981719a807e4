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

// Package dirop holds the data model shared by the response-emission
// core: Connection, Operation, ReplyDescriptor, Attribute/Value/Entry,
// Control, and the Transport strategy distinguishing stream from
// connectionless (datagram) emission.
package dirop

import (
	"sync"
	"time"

	uuid "github.com/hashicorp/go-uuid"

	libatm "github.com/sabouaram/dirsrv/atomic"
	"github.com/sabouaram/dirsrv/dirlog"
	liberr "github.com/sabouaram/dirsrv/errors"
)

// Transport selects how an emission's envelope is opened and closed
// (SPEC_FULL.md §C.3, grounded on the original's scattered
// "#ifdef LDAP_CONNECTIONLESS" blocks).
type Transport int

const (
	// TransportStream is the ordinary connection-oriented path: the
	// encoder owns its buffer and the outer { msgid ... } wrapper is
	// written by the assembler itself.
	TransportStream Transport = iota
	// TransportDatagramV2 reuses an externally supplied buffer and omits
	// the { msgid wrapper, because the caller's framing layer already
	// supplies a message-level envelope (spec §4.3.1).
	TransportDatagramV2
)

// Writer is the byte-buffer abstraction a Connection writes through
// (spec §3 "a byte-buffer abstraction over the socket"). TryWrite
// attempts a single non-blocking flush: it must return immediately with
// wouldBlock=true instead of blocking the calling goroutine when the
// underlying socket's send buffer is full, mirroring a non-blocking
// EWOULDBLOCK/EAGAIN result from a real network socket. Any other error
// is treated as fatal (spec §4.2 step 5).
type Writer interface {
	TryWrite(buf []byte) (n int, wouldBlock bool, err error)
}

// Connection represents one accepted client (spec §3 "Connection").
// Exported fields are not present: all state is reached through methods
// so the write-mutex -> state-mutex lock order (spec §5) is enforced by
// the type itself rather than by caller discipline.
type Connection struct {
	id string

	out Writer

	connectionless bool

	writeMu sync.Mutex

	stateMu    sync.Mutex
	writeReady *sync.Cond
	closing    libatm.Value[bool]
	waiting    libatm.Value[bool]

	writeWaitWarn time.Duration
	log           *dirlog.Entry
}

// NewConnection allocates a Connection writing to out. A UUID identifier
// is generated the way the teacher's require block already pulls in
// hashicorp/go-uuid for exactly this purpose.
func NewConnection(out Writer, connectionless bool) (*Connection, liberr.Error) {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return nil, ErrConnectionID.Error(err)
	}

	c := &Connection{
		id:             id,
		out:            out,
		connectionless: connectionless,
		closing:        libatm.NewValue[bool](),
		waiting:        libatm.NewValue[bool](),
	}
	c.writeReady = sync.NewCond(&c.stateMu)
	return c, nil
}

// ID returns the connection's identifier, used in stats log lines.
func (c *Connection) ID() string {
	return c.id
}

// Connectionless reports whether this connection is a datagram (v2 UDP)
// transport rather than a stream.
func (c *Connection) Connectionless() bool {
	return c.connectionless
}

// lockWrite / lockState / unlock* implement the mandated lock order
// write-mutex -> state-mutex -> counters-mutex (spec §5); SendPDU in
// writer.go is the only caller that needs both at once, so these are
// unexported and package-internal.

func (c *Connection) lockWrite() {
	c.writeMu.Lock()
}

func (c *Connection) unlockWrite() {
	c.writeMu.Unlock()
}

func (c *Connection) lockState() {
	c.stateMu.Lock()
}

func (c *Connection) unlockState() {
	c.stateMu.Unlock()
}

// IsClosing reports whether the connection has been marked closing by a
// prior fatal write error.
func (c *Connection) IsClosing() bool {
	return c.closing.Load()
}

// MarkClosing transitions the connection to the closing state and wakes
// any writer blocked on the write-ready condition variable so it can
// re-observe the closing state at the top of its loop (spec §4.2 step 5,
// §5 "Cancellation").
func (c *Connection) MarkClosing() {
	c.lockState()
	c.closing.Store(true)
	c.writeReady.Broadcast()
	c.unlockState()
}

// waitWriteReady blocks on the write-ready condition variable; the
// caller must hold stateMu. It returns with stateMu re-acquired, per
// sync.Cond.Wait semantics.
func (c *Connection) waitWriteReady() {
	c.writeReady.Wait()
}

// signalWriteReady wakes one waiter; used by tests simulating the event
// loop observing socket readiness.
func (c *Connection) signalWriteReady() {
	c.lockState()
	c.writeReady.Signal()
	c.unlockState()
}

// SignalWriteReady is the public hook an external event loop calls once
// it has observed the socket become writable again, mirroring the
// non-blocking-flush retry the writer performs (spec §4.2 step 4).
func (c *Connection) SignalWriteReady() {
	c.signalWriteReady()
}

func (c *Connection) setWaiting(v bool) {
	c.waiting.Store(v)
}

// Waiting reports whether a writer is currently blocked waiting for
// write-readiness on this connection.
func (c *Connection) Waiting() bool {
	return c.waiting.Load()
}

// SetWriteWaitWarn arms a warning, logged through log, whenever SendPDU
// blocks on the write-ready condition variable for longer than warnAfter
// (config.Config.WriteWaitWarnMillis). A zero warnAfter disables the
// warning; it is the caller's job to call this before the connection is
// handed to concurrent writers, since neither field is synchronized.
func (c *Connection) SetWriteWaitWarn(warnAfter time.Duration, log *dirlog.Entry) {
	c.writeWaitWarn = warnAfter
	c.log = log
}
