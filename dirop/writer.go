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

package dirop

import (
	"time"

	"github.com/sabouaram/dirsrv/dirhook"
)

// SendPDU serializes one PDU onto the connection's socket, following the
// protocol of spec §4.2 exactly:
//
//  1. acquire write-mutex, then state-mutex;
//  2. if closing, release both and return (0, nil) — a quiet drop;
//  3. attempt a non-blocking flush; on full success release both and
//     return the byte count recorded before the flush;
//  4. on a transient "would block": mark waiting, notify the event loop,
//     wait on the write-ready condition variable (releasing state-mutex),
//     then loop back to step 3;
//  5. on any other error: mark the connection closing, release both,
//     return a negative count.
//
// The byte count is captured from len(buf) before the flush, since the
// flush call itself is side-effectful and the caller must still be able
// to account total octets on success (spec §4.2 "bytes-written").
func (c *Connection) SendPDU(buf []byte, loop dirhook.EventLoop) (int, error) {
	want := len(buf)

	c.lockWrite()
	defer c.unlockWrite()

	c.lockState()
	defer c.unlockState()

	for {
		if c.closing.Load() {
			return 0, nil
		}

		n, wouldBlock, err := c.out.TryWrite(buf)
		if err == nil && !wouldBlock {
			return want, nil
		}

		if wouldBlock {
			c.setWaiting(true)
			if loop != nil {
				loop.SetWriteInterest(c.id, true)
			}
			start := time.Now()
			c.waitWriteReady()
			if c.writeWaitWarn > 0 && c.log != nil {
				if waited := time.Since(start); waited > c.writeWaitWarn {
					c.log.Warnf("conn=%s write-ready wait %s exceeded %s", c.id, waited, c.writeWaitWarn)
				}
			}
			c.setWaiting(false)
			if loop != nil {
				loop.SetWriteInterest(c.id, false)
			}
			continue
		}

		// Any other error is fatal: mark closing so later writers
		// short-circuit at step 2, then fail this one.
		c.closing.Store(true)
		_ = n
		return -1, err
	}
}
