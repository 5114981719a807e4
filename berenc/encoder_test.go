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

package berenc_test

import (
	ber "github.com/go-asn1-ber/asn1-ber"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/dirsrv/berenc"
)

var _ = Describe("Encoder", func() {
	It("encodes a simple { msgid , [tag]{ resultCode, matchedDN, diagText } } envelope", func() {
		e := berenc.New()
		Expect(e.BeginSequence("envelope")).To(Succeed())
		Expect(e.WriteInteger(5, "messageID")).To(Succeed())

		e.WriteTagged(ber.ClassApplication, 9) // BIND-RES
		Expect(e.BeginSequence("protocolOp")).To(Succeed())
		Expect(e.WriteEnumerated(0, "resultCode")).To(Succeed())
		Expect(e.WriteString("", "matchedDN")).To(Succeed())
		Expect(e.WriteString("", "diagnosticMessage")).To(Succeed())
		Expect(e.EndSequence()).To(Succeed())

		Expect(e.EndSequence()).To(Succeed())

		buf, err := e.Bytes()
		Expect(err).ToNot(HaveOccurred())
		Expect(buf).ToNot(BeEmpty())

		packet := ber.DecodePacket(buf)
		Expect(packet).ToNot(BeNil())
		Expect(packet.Children).To(HaveLen(2))
		Expect(packet.Children[0].Value).To(Equal(int64(5)))

		op := packet.Children[1]
		Expect(op.ClassType).To(Equal(ber.ClassApplication))
		Expect(op.Tag).To(Equal(ber.Tag(9)))
		Expect(op.Children).To(HaveLen(3))
		Expect(op.Children[0].Value).To(Equal(int64(0)))
	})

	It("reports an error once the encoder is unbalanced", func() {
		e := berenc.New()
		Expect(e.BeginSequence("outer")).To(Succeed())
		_, err := e.Bytes()
		Expect(err).To(HaveOccurred())
	})

	It("rejects End without a matching Begin", func() {
		e := berenc.New()
		Expect(e.EndSequence()).To(HaveOccurred())
	})

	It("writes a referral list as a sequence of octet strings", func() {
		e := berenc.New()
		e.WriteTagged(ber.ClassContext, 3)
		Expect(e.WriteOctetStringList([]string{"ldap://a/", "ldap://b"}, "referral")).To(Succeed())

		buf, err := e.Bytes()
		Expect(err).ToNot(HaveOccurred())

		packet := ber.DecodePacket(buf)
		Expect(packet.ClassType).To(Equal(ber.ClassContext))
		Expect(packet.Tag).To(Equal(ber.Tag(3)))
		Expect(packet.Children).To(HaveLen(2))
		Expect(string(packet.Children[0].Data.Bytes())).To(Equal("ldap://a/"))
		Expect(string(packet.Children[1].Data.Bytes())).To(Equal("ldap://b"))
	})
})

var _ = Describe("WriteControls", func() {
	It("writes a bare { OID } sequence for a non-critical, valueless control", func() {
		e := berenc.New()
		Expect(berenc.WriteControls(e, []berenc.Control{
			{OID: "1.2.3.4"},
		})).To(Succeed())

		buf, err := e.Bytes()
		Expect(err).ToNot(HaveOccurred())

		packet := ber.DecodePacket(buf)
		Expect(packet.Children).To(HaveLen(1))
		ctrl := packet.Children[0]
		Expect(ctrl.Children).To(HaveLen(1))
		Expect(string(ctrl.Children[0].Data.Bytes())).To(Equal("1.2.3.4"))
	})

	It("writes criticality and value when present", func() {
		e := berenc.New()
		Expect(berenc.WriteControls(e, []berenc.Control{
			{OID: "1.2.3.4", Critical: true, HasValue: true, Value: []byte("payload")},
		})).To(Succeed())

		buf, err := e.Bytes()
		Expect(err).ToNot(HaveOccurred())

		packet := ber.DecodePacket(buf)
		ctrl := packet.Children[0]
		Expect(ctrl.Children).To(HaveLen(3))
		Expect(ctrl.Children[1].Value).To(Equal(true))
		Expect(string(ctrl.Children[2].Data.Bytes())).To(Equal("payload"))
	})
})
