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

// Command dirsrvbench fans out concurrent result emissions against one
// in-memory connection, to exercise the write-mutex serialization under
// load the way a real accept loop's operation goroutines would.
package main

import (
	"context"
	"flag"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/sabouaram/dirsrv/config"
	"github.com/sabouaram/dirsrv/dirop"
	"github.com/sabouaram/dirsrv/dirresp"
	"github.com/sabouaram/dirsrv/dirstats"
	"github.com/sabouaram/dirsrv/wire"
)

// sinkWriter discards bytes, standing in for a socket, so the benchmark
// measures emitter/mutex overhead rather than kernel I/O.
type sinkWriter struct {
	mu  sync.Mutex
	n   int64
	pdu int64
}

func (w *sinkWriter) TryWrite(buf []byte) (int, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.n += int64(len(buf))
	w.pdu++
	return len(buf), false, nil
}

func main() {
	workers := flag.Int("workers", 8, "concurrent emitter goroutines")
	perWorker := flag.Int("per-worker", 2000, "emissions per worker")
	flag.Parse()

	cfg := config.DefaultConfig()

	w := &sinkWriter{}
	conn, cerr := dirop.NewConnection(w, false)
	if cerr != nil {
		panic(cerr)
	}
	conn.SetWriteWaitWarn(cfg.WriteWaitWarnDuration(), nil)

	sink := dirstats.New(prometheus.NewRegistry())
	resp := dirresp.New(sink, nil, nil, nil)
	resp.Cfg = cfg

	start := time.Now()
	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < *workers; i++ {
		g.Go(func() error {
			for j := 0; j < *perWorker; j++ {
				op := &dirop.Operation{RequestTag: wire.TagBindRequest, MsgID: int64(j), Version: 3, Conn: conn}
				if _, err := resp.EmitResult(op, &dirop.ReplyDescriptor{ResultCode: wire.Success}); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		panic(err)
	}
	elapsed := time.Since(start)

	total := int64(*workers) * int64(*perWorker)
	fmt.Printf("emissions=%d bytes=%d elapsed=%s rate=%.0f/s\n", total, w.n, elapsed, float64(total)/elapsed.Seconds())
}
