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

package dirresult_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/dirsrv/dirresult"
)

var _ = Describe("Parse", func() {
	It("parses a well-formed RESULT block", func() {
		r, err := dirresult.Parse("RESULT\ncode: 32\nmatched: dc=example,dc=com\ninfo: no such object\n")
		Expect(err).ToNot(HaveOccurred())
		Expect(r.Code).To(Equal(32))
		Expect(r.Matched).To(Equal("dc=example,dc=com"))
		Expect(r.Info).To(Equal("no such object"))
	})

	It("is case-insensitive on both the header token and the keys", func() {
		r, err := dirresult.Parse("result\nCODE: 0\nMatched: \nINFO: ok\n")
		Expect(err).ToNot(HaveOccurred())
		Expect(r.Code).To(Equal(0))
		Expect(r.Info).To(Equal("ok"))
	})

	It("rejects input that does not begin with RESULT", func() {
		_, err := dirresult.Parse("code: 0\n")
		Expect(err).To(HaveOccurred())
	})

	It("stops being well-formed on an unknown key but still returns the recognized fields", func() {
		r, err := dirresult.Parse("RESULT\ncode: 1\nbogus: whatever\ninfo: partial\n")
		Expect(err).To(HaveOccurred())
		Expect(r.Code).To(Equal(1))
		Expect(r.Info).To(Equal("partial"))
	})

	It("tolerates a bare RESULT with no trailing lines", func() {
		r, err := dirresult.Parse("RESULT")
		Expect(err).ToNot(HaveOccurred())
		Expect(r).To(Equal(dirresult.Result{}))
	})

	DescribeTable("round trips through Format and Parse",
		func(r dirresult.Result) {
			out, err := dirresult.Parse(dirresult.Format(r))
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal(r))
		},
		Entry("zero value", dirresult.Result{}),
		Entry("success with matched and info", dirresult.Result{Code: 0, Matched: "dc=example,dc=com", Info: "ok"}),
		Entry("no such object", dirresult.Result{Code: 32, Matched: "ou=people,dc=example,dc=com", Info: "no such object"}),
		Entry("negative code", dirresult.Result{Code: -1, Matched: "", Info: "internal error"}),
	)
})
