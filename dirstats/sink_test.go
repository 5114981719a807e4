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

package dirstats_test

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sabouaram/dirsrv/dirstats"
)

var _ = Describe("Sink", func() {
	It("increments entries-sent and pdus-sent by exactly N after N successful entry emissions", func() {
		s := dirstats.New(prometheus.NewRegistry())

		for i := 0; i < 5; i++ {
			s.AddEntry(10)
		}

		snap := s.Snapshot()
		Expect(snap.EntriesSent).To(Equal(uint64(5)))
		Expect(snap.PDUsSent).To(Equal(uint64(5)))
		Expect(snap.BytesSent).To(Equal(uint64(50)))
	})

	It("updates counters exactly once per call under concurrent use", func() {
		s := dirstats.New(prometheus.NewRegistry())

		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.AddPDU(1)
			}()
		}
		wg.Wait()

		Expect(s.Snapshot().PDUsSent).To(Equal(uint64(100)))
	})
})

var _ = Describe("stats log lines", func() {
	It("formats the ordinary RESULT line", func() {
		line := dirstats.ResultLine("C1", 5, 9, 0, "")
		Expect(line).To(Equal("conn=C1 op=5 RESULT tag=9 err=0 text="))
	})

	It("formats the SEARCH RESULT line", func() {
		line := dirstats.SearchResultLine("C1", 7, 5, 0, 3, "")
		Expect(line).To(Equal("conn=C1 op=7 SEARCH RESULT tag=5 err=0 nentries=3 text="))
	})

	It("formats the ENTRY line", func() {
		line := dirstats.EntryLine("C1", 7, "cn=a,dc=example")
		Expect(line).To(Equal(`conn=C1 op=7 ENTRY dn="cn=a,dc=example"`))
	})
})
