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

package direntry_test

import (
	ber "github.com/go-asn1-ber/asn1-ber"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sabouaram/dirsrv/direntry"
	"github.com/sabouaram/dirsrv/dirop"
	"github.com/sabouaram/dirsrv/dirresp"
	"github.com/sabouaram/dirsrv/dirstats"
	"github.com/sabouaram/dirsrv/wire"
)

func newSearchOp(sock *fakeSocket, msgID int64) *dirop.Operation {
	conn, err := dirop.NewConnection(sock, false)
	Expect(err).To(BeNil())
	return &dirop.Operation{
		RequestTag: wire.TagSearchRequest,
		MsgID:      msgID,
		Version:    3,
		Conn:       conn,
	}
}

func decodeFlushed(sock *fakeSocket, index int) *ber.Packet {
	flushed := sock.Flushed()
	Expect(len(flushed)).To(BeNumerically(">", index))
	packet := ber.DecodePacket(flushed[index])
	Expect(packet).ToNot(BeNil())
	return packet
}

var _ = Describe("Builder.EmitSearchEntry", func() {
	var acl *allowAllACL

	BeforeEach(func() {
		acl = &allowAllACL{}
	})

	It("emits a valid envelope with an empty attribute sequence for an entry with no attributes", func() {
		sock := &fakeSocket{}
		op := newSearchOp(sock, 7)
		b := direntry.New(acl, nil, nil, dirstats.New(prometheus.NewRegistry()), nil, nil, nil)

		reply := &dirop.ReplyDescriptor{Entry: &dirop.Entry{PrettyDN: "cn=empty,dc=example"}}
		rc, err := b.EmitSearchEntry(op, reply)
		Expect(err).ToNot(HaveOccurred())
		Expect(rc).To(Equal(0))

		packet := decodeFlushed(sock, 0)
		entry := packet.Children[1]
		Expect(entry.ClassType).To(Equal(ber.ClassApplication))
		Expect(entry.Tag).To(Equal(ber.Tag(wire.CtxSearchEntry)))
		Expect(string(entry.Children[0].Data.Bytes())).To(Equal("cn=empty,dc=example"))
		Expect(entry.Children[1].Children).To(BeEmpty())
	})

	It("omits every value when attributes-only is set, regardless of ACL or filter flags", func() {
		sock := &fakeSocket{}
		op := newSearchOp(sock, 7)
		op.AttrsOnly = true
		b := direntry.New(acl, nil, nil, dirstats.New(prometheus.NewRegistry()), nil, nil, nil)

		reply := &dirop.ReplyDescriptor{Entry: &dirop.Entry{
			PrettyDN: "cn=a,dc=example",
			Attributes: []dirop.Attribute{
				{Desc: dirop.Descriptor{Name_: "cn"}, ValueBytes: [][]byte{[]byte("value1"), []byte("value2")}},
			},
		}}
		rc, err := b.EmitSearchEntry(op, reply)
		Expect(err).ToNot(HaveOccurred())
		Expect(rc).To(Equal(0))

		packet := decodeFlushed(sock, 0)
		attrs := packet.Children[1].Children[1]
		Expect(attrs.Children).To(HaveLen(1))
		cn := attrs.Children[0]
		Expect(string(cn.Children[0].Data.Bytes())).To(Equal("cn"))
		Expect(cn.Children[1].Children).To(BeEmpty())
	})

	It("emits only the value the values-return filter marks visible", func() {
		sock := &fakeSocket{}
		op := newSearchOp(sock, 7)
		op.ValuesFilter = &fixedValuesFilter{byAttr: map[string][]bool{"cn": {true, false}}}
		b := direntry.New(acl, nil, nil, dirstats.New(prometheus.NewRegistry()), nil, nil, nil)

		reply := &dirop.ReplyDescriptor{Entry: &dirop.Entry{
			PrettyDN: "cn=a,dc=example",
			Attributes: []dirop.Attribute{
				{Desc: dirop.Descriptor{Name_: "cn"}, ValueBytes: [][]byte{[]byte("value1"), []byte("value2")}},
			},
		}}
		rc, err := b.EmitSearchEntry(op, reply)
		Expect(err).ToNot(HaveOccurred())
		Expect(rc).To(Equal(0))

		packet := decodeFlushed(sock, 0)
		cn := packet.Children[1].Children[1].Children[0]
		Expect(cn.Children[1].Children).To(HaveLen(1))
		Expect(string(cn.Children[1].Children[0].Data.Bytes())).To(Equal("value1"))
	})

	It("silently skips the entry when access to the pseudo-attribute entry is denied", func() {
		sock := &fakeSocket{}
		op := newSearchOp(sock, 7)
		denyAcl := &allowAllACL{denyNames: map[string]bool{"entry": true}}
		b := direntry.New(denyAcl, nil, nil, dirstats.New(prometheus.NewRegistry()), nil, nil, nil)

		reply := &dirop.ReplyDescriptor{Entry: &dirop.Entry{PrettyDN: "cn=a,dc=example"}}
		rc, err := b.EmitSearchEntry(op, reply)
		Expect(err).ToNot(HaveOccurred())
		Expect(rc).To(Equal(1))
		Expect(sock.Flushed()).To(BeEmpty())
	})

	It("sends a substitute OTHER result when values-filter evaluation fails", func() {
		sock := &fakeSocket{}
		op := newSearchOp(sock, 7)
		op.ValuesFilter = failingValuesFilter{}
		resp := dirresp.New(dirstats.New(prometheus.NewRegistry()), nil, nil, nil)
		b := direntry.New(acl, nil, nil, nil, nil, nil, resp)

		reply := &dirop.ReplyDescriptor{Entry: &dirop.Entry{
			PrettyDN: "cn=a,dc=example",
			Attributes: []dirop.Attribute{
				{Desc: dirop.Descriptor{Name_: "cn"}, ValueBytes: [][]byte{[]byte("value1")}},
			},
		}}
		rc, err := b.EmitSearchEntry(op, reply)
		Expect(err).ToNot(HaveOccurred())
		Expect(rc).To(Equal(1))

		packet := decodeFlushed(sock, 0)
		resultOp := packet.Children[1]
		Expect(resultOp.Tag).To(Equal(ber.Tag(wire.TagSearchResultDone)))
		Expect(resultOp.Children[0].Value).To(Equal(int64(wire.Other)))
		Expect(string(resultOp.Children[2].Data.Bytes())).To(Equal("encoding values error"))
	})

	It("discards the partial entry and sends OTHER when a computed-attribute plugin aborts", func() {
		sock := &fakeSocket{}
		op := newSearchOp(sock, 7)
		resp := dirresp.New(dirstats.New(prometheus.NewRegistry()), nil, nil, nil)
		b := direntry.New(acl, nil, abortingPlugin{}, nil, nil, nil, resp)

		reply := &dirop.ReplyDescriptor{Entry: &dirop.Entry{PrettyDN: "cn=a,dc=example"}}
		rc, err := b.EmitSearchEntry(op, reply)
		Expect(err).ToNot(HaveOccurred())
		Expect(rc).To(Equal(1))

		packet := decodeFlushed(sock, 0)
		resultOp := packet.Children[1]
		Expect(resultOp.Children[0].Value).To(Equal(int64(wire.Other)))
		Expect(string(resultOp.Children[2].Data.Bytes())).To(Equal("computed attribute error"))
	})
})
