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

// Package dirstats is the Statistics & Logging Sink component (spec
// §2.5): a minimal counter facility incremented under a shared lock
// after each PDU, plus a textual stats log line per response, and a
// prometheus.CounterVec exposing the same four counters to scraping
// (SPEC_FULL.md §B, §C.6).
package dirstats

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Sink is one process-wide counters instance, passed by reference, as
// the original's num_bytes_sent/num_pdu_sent/... globals (spec §9
// "Shared mutable counters").
type Sink struct {
	mu sync.Mutex

	bytesSent     uint64
	pdusSent      uint64
	entriesSent   uint64
	referencesSent uint64

	metric *prometheus.CounterVec
}

// New returns a Sink whose counter vector is registered against reg (a
// fresh prometheus.NewRegistry() in tests avoids collisions across
// suites). With a nil reg nothing is registered; the vector is then
// reachable only through Collector().
func New(reg prometheus.Registerer) *Sink {
	s := &Sink{
		metric: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dirsrv",
			Subsystem: "emission",
			Name:      "total",
			Help:      "Count of units emitted by the response-emission core, labeled by kind.",
		}, []string{"kind"}),
	}

	if reg != nil {
		reg.MustRegister(s.metric)
	}

	return s
}

// Collector exposes the Sink's prometheus.CounterVec for registration
// against an external registry.
func (s *Sink) Collector() prometheus.Collector {
	return s.metric
}

// AddPDU records one successfully transmitted PDU of n bytes (spec I6:
// "updated exactly once per successful emission under a shared mutex").
func (s *Sink) AddPDU(n int) {
	s.mu.Lock()
	s.bytesSent += uint64(n)
	s.pdusSent++
	s.mu.Unlock()

	s.metric.WithLabelValues("bytes").Add(float64(n))
	s.metric.WithLabelValues("pdus").Inc()
}

// AddEntry records one successfully transmitted search entry, in
// addition to the PDU it rode on.
func (s *Sink) AddEntry(n int) {
	s.mu.Lock()
	s.entriesSent++
	s.mu.Unlock()

	s.AddPDU(n)
	s.metric.WithLabelValues("entries").Inc()
}

// AddReference records one successfully transmitted search reference, in
// addition to the PDU it rode on.
func (s *Sink) AddReference(n int) {
	s.mu.Lock()
	s.referencesSent++
	s.mu.Unlock()

	s.AddPDU(n)
	s.metric.WithLabelValues("references").Inc()
}

// Snapshot is a point-in-time read of the four counters.
type Snapshot struct {
	BytesSent      uint64
	PDUsSent       uint64
	EntriesSent    uint64
	ReferencesSent uint64
}

// Snapshot returns the current counter values.
func (s *Sink) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		BytesSent:      s.bytesSent,
		PDUsSent:       s.pdusSent,
		EntriesSent:    s.entriesSent,
		ReferencesSent: s.referencesSent,
	}
}
