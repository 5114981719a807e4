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

import "github.com/sabouaram/dirsrv/wire"

// ReplyType is the reply descriptor's type tag (spec §3 "Reply
// Descriptor").
type ReplyType int

const (
	ReplyResult ReplyType = iota
	ReplySearchEntry
	ReplySearchReference
	ReplySearchResult
	ReplySASL
	ReplyExtended
	ReplyIntermediate
	ReplyDisconnect
)

// Control is the wire-level OID/criticality/value triple (spec §3
// "Control").
type Control struct {
	OID      string
	Critical bool
	Value    []byte
	HasValue bool
}

// ReplyDescriptor is the mutable outcome passed to an emitter (spec §3).
type ReplyDescriptor struct {
	Type ReplyType

	ResultCode     wire.ResultCode
	MatchedDN      string
	DiagnosticText string
	Referrals      []string

	SASLCreds    []byte
	HasSASLCreds bool

	ExtendedOID   string
	ExtendedValue []byte
	HasExtended   bool

	Controls []Control

	// Search-only fields.
	Entry      *Entry
	AttrList   []string
	NumEntries int
	V2Referral []string

	// Filled in by the envelope builder (spec §3: "a chosen response tag
	// and message id filled in by the envelope builder").
	ResponseTag wire.Tag
	ResponseID  int64
}

// Clone returns a shallow copy suitable for the internal assembler to
// mutate (spec §9 "Field swap for v2 referral flattening": "Preferred
// strategy: build a local copy of the reply descriptor for the internal
// assembler rather than mutating the caller's"). Referrals/Controls
// slices are copied by reference since the assembler only ever reads
// them or replaces the whole slice header, never mutates an element.
func (r *ReplyDescriptor) Clone() *ReplyDescriptor {
	c := *r
	return &c
}
