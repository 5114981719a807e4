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

// Package dirfixture is test-support tooling built on a real directory
// client library (go-ldap/v3) rather than hand-rolled fixtures: it lets
// tests elsewhere in this module cross-check emitted wire bytes against
// an independent encoder/decoder instead of only against berenc itself.
package dirfixture

import (
	"fmt"

	ber "github.com/go-asn1-ber/asn1-ber"
	"github.com/go-ldap/ldap/v3"
)

// ControlBytes returns the BER encoding go-ldap/v3 itself produces for a
// simple string-valued control, so a test can assert our berenc-built
// controls block is byte-identical to what an independent LDAP client
// library would have written for the same (OID, criticality, value).
func ControlBytes(oid string, critical bool, value string) []byte {
	c := ldap.NewControlString(oid, critical, value)
	return c.Encode().Bytes()
}

// DecodeMessage wraps ber.DecodePacket with an error return, for callers
// that would otherwise have to nil-check the packet by hand.
func DecodeMessage(buf []byte) (*ber.Packet, error) {
	p := ber.DecodePacket(buf)
	if p == nil {
		return nil, fmt.Errorf("dirfixture: could not decode BER packet")
	}
	return p, nil
}

// applicationTagNames mirrors the protocol-operation tag names go-ldap/v3
// exports as untyped constants (ldap.ApplicationBindRequest, ...), used
// here only for human-readable debug output.
var applicationTagNames = map[ber.Tag]string{
	ber.Tag(ldap.ApplicationBindRequest):           "BindRequest",
	ber.Tag(ldap.ApplicationBindResponse):          "BindResponse",
	ber.Tag(ldap.ApplicationUnbindRequest):         "UnbindRequest",
	ber.Tag(ldap.ApplicationSearchRequest):         "SearchRequest",
	ber.Tag(ldap.ApplicationSearchResultEntry):     "SearchResultEntry",
	ber.Tag(ldap.ApplicationSearchResultDone):      "SearchResultDone",
	ber.Tag(ldap.ApplicationModifyRequest):         "ModifyRequest",
	ber.Tag(ldap.ApplicationModifyResponse):        "ModifyResponse",
	ber.Tag(ldap.ApplicationAddRequest):            "AddRequest",
	ber.Tag(ldap.ApplicationAddResponse):           "AddResponse",
	ber.Tag(ldap.ApplicationDelRequest):            "DelRequest",
	ber.Tag(ldap.ApplicationDelResponse):           "DelResponse",
	ber.Tag(ldap.ApplicationModifyDNRequest):       "ModifyDNRequest",
	ber.Tag(ldap.ApplicationModifyDNResponse):      "ModifyDNResponse",
	ber.Tag(ldap.ApplicationCompareRequest):        "CompareRequest",
	ber.Tag(ldap.ApplicationCompareResponse):       "CompareResponse",
	ber.Tag(ldap.ApplicationAbandonRequest):        "AbandonRequest",
	ber.Tag(ldap.ApplicationSearchResultReference): "SearchResultReference",
	ber.Tag(ldap.ApplicationExtendedRequest):       "ExtendedRequest",
	ber.Tag(ldap.ApplicationExtendedResponse):      "ExtendedResponse",
}

// ApplicationTagName renders one LDAPMessage protocolOp application tag
// as the name go-ldap/v3 gives it, or "unknown(<n>)" if unrecognized.
func ApplicationTagName(tag ber.Tag) string {
	if name, ok := applicationTagNames[tag]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", tag)
}
