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
	"github.com/sabouaram/dirsrv/dirhook"
	"github.com/sabouaram/dirsrv/wire"
)

// Operation represents one in-flight request on a Connection (spec §3
// "Operation").
type Operation struct {
	RequestTag      wire.Tag
	MsgID           int64
	Version         int // 2 or 3
	Conn            *Connection
	RequestedAttrs  []string
	AttrsOnly       bool
	ValuesFilter    dirhook.ValuesReturnFilter
	Connectionless  bool
	NoOp            bool
	Callbacks       *dirhook.CallbackBundle
	DatagramBuffer  []byte
	DomainScope     bool
	v2ReferralNames []string
}

// RequestedAttributes satisfies dirhook.Operation.
func (o *Operation) RequestedAttributes() []string {
	return o.RequestedAttrs
}

// ProtocolVersion satisfies dirhook.Operation.
func (o *Operation) ProtocolVersion() int {
	return o.Version
}

// AccumulateV2Referral appends a URI to the v2-compatibility referral
// accumulator (spec §3 "the v2-compatibility referral accumulator"),
// used by the search-reference emitter when the client is below version
// 3 and references must be folded into the final result's diagnostic
// text instead of sent as SearchResultReference PDUs.
func (o *Operation) AccumulateV2Referral(uri string) {
	o.v2ReferralNames = append(o.v2ReferralNames, uri)
}

// V2Referrals returns the URIs accumulated so far via
// AccumulateV2Referral, in the order they were added.
func (o *Operation) V2Referrals() []string {
	return o.v2ReferralNames
}

// UserAttrsRequested reports whether the requested-attributes list is
// absent, or contains the "all user attributes" sentinel (spec §4.4
// step 4 "userattrs").
func (o *Operation) UserAttrsRequested() bool {
	if len(o.RequestedAttrs) == 0 {
		return true
	}
	for _, a := range o.RequestedAttrs {
		if a == dirhook.AllUserAttributes {
			return true
		}
	}
	return false
}

// OperationalAttrsRequested reports whether the requested-attributes
// list is present and contains the "all operational attributes"
// sentinel (spec §4.4 step 4 "opattrs").
func (o *Operation) OperationalAttrsRequested() bool {
	if len(o.RequestedAttrs) == 0 {
		return false
	}
	for _, a := range o.RequestedAttrs {
		if a == dirhook.AllOperationalAttributes {
			return true
		}
	}
	return false
}

// WantsAttribute applies the selection policy of spec §4.4 step 6a for a
// single attribute descriptor.
func (o *Operation) WantsAttribute(desc dirhook.AttrDescriptor) bool {
	if len(o.RequestedAttrs) == 0 {
		// "requested list is absent": skip operational attributes.
		return !desc.Operational()
	}

	named := dirhook.InList(desc.Name(), o.RequestedAttrs)

	if desc.Operational() {
		return o.OperationalAttrsRequested() || named
	}
	return o.UserAttrsRequested() || named
}
