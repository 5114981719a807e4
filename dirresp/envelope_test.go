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

package dirresp_test

import (
	ber "github.com/go-asn1-ber/asn1-ber"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"

	"github.com/sabouaram/dirsrv/config"
	"github.com/sabouaram/dirsrv/dirlog"
	"github.com/sabouaram/dirsrv/dirop"
	"github.com/sabouaram/dirsrv/dirresp"
	"github.com/sabouaram/dirsrv/dirstats"
	"github.com/sabouaram/dirsrv/wire"
)

func newOperation(sock *fakeSocket, reqTag wire.Tag, msgID int64, version int, domainScope bool) *dirop.Operation {
	conn, err := dirop.NewConnection(sock, false)
	Expect(err).To(BeNil())
	return &dirop.Operation{
		RequestTag:  reqTag,
		MsgID:       msgID,
		Version:     version,
		Conn:        conn,
		DomainScope: domainScope,
	}
}

func decodeOne(sock *fakeSocket) *ber.Packet {
	flushed := sock.Flushed()
	Expect(flushed).To(HaveLen(1))
	packet := ber.DecodePacket(flushed[0])
	Expect(packet).ToNot(BeNil())
	return packet
}

var _ = Describe("Builder.EmitResult", func() {
	var b *dirresp.Builder

	BeforeEach(func() {
		b = dirresp.New(dirstats.New(prometheus.NewRegistry()), nil, nil, nil)
	})

	It("sends a plain bind-ok result with the request's own tag and message id", func() {
		sock := &fakeSocket{}
		op := newOperation(sock, wire.TagBindRequest, 5, 3, false)

		n, err := b.EmitResult(op, &dirop.ReplyDescriptor{ResultCode: wire.Success})
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(BeNumerically(">", 0))

		packet := decodeOne(sock)
		Expect(packet.Children[0].Value).To(Equal(int64(5)))

		resp := packet.Children[1]
		Expect(resp.ClassType).To(Equal(ber.ClassApplication))
		Expect(resp.Tag).To(Equal(ber.Tag(wire.TagBindResponse)))
		Expect(resp.Children[0].Value).To(Equal(int64(wire.Success)))
	})

	It("carries a referral list unchanged for a version-3 search client", func() {
		sock := &fakeSocket{}
		op := newOperation(sock, wire.TagSearchRequest, 7, 3, false)

		_, err := b.EmitResult(op, &dirop.ReplyDescriptor{
			ResultCode: wire.Referral,
			Referrals:  []string{"ldap://a/", "ldap://b"},
		})
		Expect(err).ToNot(HaveOccurred())

		packet := decodeOne(sock)
		resp := packet.Children[1]
		Expect(resp.Tag).To(Equal(ber.Tag(wire.TagSearchResultDone)))
		Expect(resp.Children[0].Value).To(Equal(int64(wire.Referral)))
		Expect(resp.Children).To(HaveLen(4))

		referral := resp.Children[3]
		Expect(referral.ClassType).To(Equal(ber.ClassContext))
		Expect(referral.Tag).To(Equal(ber.Tag(wire.CtxReferral)))
		Expect(referral.Children).To(HaveLen(2))
	})

	It("downgrades a version-2 referral into flattened diagnostic text with no wire referral field", func() {
		sock := &fakeSocket{}
		op := newOperation(sock, wire.TagSearchRequest, 7, 2, false)

		_, err := b.EmitResult(op, &dirop.ReplyDescriptor{
			ResultCode: wire.Referral,
			Referrals:  []string{"ldap://a/", "ldap://b"},
		})
		Expect(err).ToNot(HaveOccurred())

		packet := decodeOne(sock)
		resp := packet.Children[1]
		Expect(resp.Children).To(HaveLen(3))
		Expect(resp.Children[0].Value).To(Equal(int64(wire.PartialResults)))
		Expect(string(resp.Children[2].Data.Bytes())).To(Equal("Referral:\nldap://a/ldap://b"))
	})

	It("does not duplicate a newline when diagnostic text already ends in one", func() {
		sock := &fakeSocket{}
		op := newOperation(sock, wire.TagSearchRequest, 7, 2, false)

		_, err := b.EmitResult(op, &dirop.ReplyDescriptor{
			ResultCode:     wire.Referral,
			DiagnosticText: "already\n",
			Referrals:      []string{"ldap://a"},
		})
		Expect(err).ToNot(HaveOccurred())

		packet := decodeOne(sock)
		resp := packet.Children[1]
		Expect(string(resp.Children[2].Data.Bytes())).To(Equal("already\nReferral:\nldap://a"))
	})

	It("downgrades to no-such-object when domain scope drops the only referral", func() {
		sock := &fakeSocket{}
		op := newOperation(sock, wire.TagSearchRequest, 7, 3, true)

		_, err := b.EmitResult(op, &dirop.ReplyDescriptor{
			ResultCode: wire.Referral,
			Referrals:  []string{"ldap://x"},
		})
		Expect(err).ToNot(HaveOccurred())

		packet := decodeOne(sock)
		resp := packet.Children[1]
		Expect(resp.Children).To(HaveLen(3))
		Expect(resp.Children[0].Value).To(Equal(int64(wire.NoSuchObject)))
	})

	It("sends nothing for an unbind request, since req2res yields the no-reply sentinel", func() {
		sock := &fakeSocket{}
		op := newOperation(sock, wire.TagUnbindRequest, 9, 3, false)

		n, err := b.EmitResult(op, &dirop.ReplyDescriptor{ResultCode: wire.Success})
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(0))
		Expect(sock.Flushed()).To(BeEmpty())
	})

	It("encodes a controls block as a tagged sequence sibling of the response", func() {
		sock := &fakeSocket{}
		op := newOperation(sock, wire.TagBindRequest, 1, 3, false)

		_, err := b.EmitResult(op, &dirop.ReplyDescriptor{
			ResultCode: wire.Success,
			Controls: []dirop.Control{
				{OID: "1.2.3", Critical: true, HasValue: true, Value: []byte("v")},
			},
		})
		Expect(err).ToNot(HaveOccurred())

		packet := decodeOne(sock)
		Expect(packet.Children).To(HaveLen(3))

		ctrls := packet.Children[2]
		Expect(ctrls.ClassType).To(Equal(ber.ClassContext))
		Expect(ctrls.Tag).To(Equal(ber.Tag(wire.CtxControls)))

		ctrl := ctrls.Children[0]
		Expect(ctrl.Children).To(HaveLen(3))
		Expect(string(ctrl.Children[0].Data.Bytes())).To(Equal("1.2.3"))
		Expect(ctrl.Children[1].Value).To(Equal(true))
		Expect(string(ctrl.Children[2].Data.Bytes())).To(Equal("v"))
	})
})

var _ = Describe("Builder.EmitDisconnect", func() {
	var b *dirresp.Builder

	BeforeEach(func() {
		b = dirresp.New(dirstats.New(prometheus.NewRegistry()), nil, nil, nil)
	})

	It("sends a standalone extended response with message id 0 for a version-3 client", func() {
		sock := &fakeSocket{}
		op := newOperation(sock, wire.TagSearchRequest, 42, 3, false)

		_, err := b.EmitDisconnect(op, &dirop.ReplyDescriptor{ResultCode: wire.Unavailable})
		Expect(err).ToNot(HaveOccurred())

		packet := decodeOne(sock)
		Expect(packet.Children[0].Value).To(Equal(int64(0)))

		resp := packet.Children[1]
		Expect(resp.Tag).To(Equal(ber.Tag(wire.TagExtendedResponse)))
		Expect(resp.Children).To(HaveLen(4))
		Expect(string(resp.Children[3].Data.Bytes())).To(Equal(wire.ExtendedDisconnectionNoticeOID))
	})

	It("masquerades as an ordinary result tied to the request for a version-2 client", func() {
		sock := &fakeSocket{}
		op := newOperation(sock, wire.TagSearchRequest, 42, 2, false)

		_, err := b.EmitDisconnect(op, &dirop.ReplyDescriptor{ResultCode: wire.ProtocolError})
		Expect(err).ToNot(HaveOccurred())

		packet := decodeOne(sock)
		Expect(packet.Children[0].Value).To(Equal(int64(42)))
		Expect(packet.Children[1].Tag).To(Equal(ber.Tag(wire.TagSearchResultDone)))
	})
})

var _ = Describe("Builder.EmitSearchResult", func() {
	It("logs the richer SEARCH RESULT line with the caller's entry count", func() {
		logger, hook := logrustest.NewNullLogger()
		logger.SetLevel(logrus.DebugLevel)
		b := dirresp.New(dirstats.New(prometheus.NewRegistry()), nil, nil, dirlog.New(logger))

		sock := &fakeSocket{}
		op := newOperation(sock, wire.TagSearchRequest, 11, 3, false)

		n, err := b.EmitSearchResult(op, &dirop.ReplyDescriptor{ResultCode: wire.Success, NumEntries: 3})
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(BeNumerically(">", 0))

		Expect(hook.LastEntry()).ToNot(BeNil())
		Expect(hook.LastEntry().Message).To(ContainSubstring("SEARCH RESULT"))
		Expect(hook.LastEntry().Message).To(ContainSubstring("nentries=3"))
	})

	It("stays silent when Cfg narrows stats logging away from results", func() {
		logger, hook := logrustest.NewNullLogger()
		logger.SetLevel(logrus.DebugLevel)
		b := dirresp.New(dirstats.New(prometheus.NewRegistry()), nil, nil, dirlog.New(logger))
		cfg := config.DefaultConfig()
		cfg.StatsLogVerbosity = "entry"
		b.Cfg = cfg

		sock := &fakeSocket{}
		op := newOperation(sock, wire.TagSearchRequest, 12, 3, false)

		_, err := b.EmitSearchResult(op, &dirop.ReplyDescriptor{ResultCode: wire.Success, NumEntries: 1})
		Expect(err).ToNot(HaveOccurred())
		Expect(hook.Entries).To(BeEmpty())
	})
})
