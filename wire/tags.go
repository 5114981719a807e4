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

// Package wire holds the protocol-level constants shared by the response
// emission core: request/response application tags, context tags used
// inside the envelope, and the request-tag -> response-tag mapping table.
package wire

// Tag is an application or context class tag as carried on the wire.
type Tag uint8

// Request tags, as received from the dispatcher (out of scope: parsing).
const (
	TagBindRequest      Tag = 0
	TagBindResponse     Tag = 1
	TagUnbindRequest    Tag = 2
	TagSearchRequest    Tag = 3
	TagSearchResultEnt  Tag = 4
	TagSearchResultDone Tag = 5
	TagModifyRequest    Tag = 6
	TagModifyResponse   Tag = 7
	TagAddRequest       Tag = 8
	TagAddResponse      Tag = 9
	TagDelRequest       Tag = 10
	TagDelResponse      Tag = 11
	TagModDNRequest     Tag = 12
	TagModDNResponse    Tag = 13
	TagCompareRequest   Tag = 14
	TagCompareResponse  Tag = 15
	TagAbandonRequest   Tag = 16
	TagSearchResultRef  Tag = 19
	TagExtendedRequest  Tag = 23
	TagExtendedResponse Tag = 24
	TagIntermediateResp Tag = 25
)

// Sentinel response tag used when a request tag admits no reply at all
// (ABANDON, UNBIND, or anything unrecognized). A bare SEQUENCE tag, as
// the original source uses when it short-circuits before ever opening
// a response envelope.
const TagNoReply Tag = 0x10 // SEQUENCE, universal constructed

// Context-class tags used inside the result/search envelopes (§4.3.1, §6).
const (
	CtxReferral      Tag = 3  // [3] inside a RESULT/SEARCH-RESULT block
	CtxSASLCreds     Tag = 7  // [7] inside a BIND-RES block
	CtxExopResOID    Tag = 10 // [10] extended response OID
	CtxExopResValue  Tag = 11 // [11] extended response value
	CtxControls      Tag = 0  // [0] at envelope level, sibling of the response
	CtxSearchEntry   Tag = 4  // [APPLICATION 4] SearchResultEntry
	CtxSearchRef     Tag = 19 // [APPLICATION 19] SearchResultReference
	CtxIntermediate  Tag = 25 // [APPLICATION 25] IntermediateResponse
)

// ReqToRes maps a request tag to the response tag the envelope builder must
// use, per the req2res table (spec §4.3). ADD/BIND/COMPARE/EXTENDED/MODIFY
// /MODRDN follow the request-tag+1 rule; DELETE (10 -> 11) is matched by
// its own case;
// SEARCH collapses onto SearchResultDone; ABANDON, UNBIND and anything not
// listed map to the no-reply sentinel.
func ReqToRes(req Tag) Tag {
	switch req {
	case TagAddRequest, TagBindRequest, TagCompareRequest, TagExtendedRequest,
		TagModifyRequest, TagModDNRequest:
		return req + 1
	case TagDelRequest:
		return TagDelResponse
	case TagSearchRequest:
		return TagSearchResultDone
	case TagAbandonRequest, TagUnbindRequest:
		return TagNoReply
	default:
		return TagNoReply
	}
}

// NoReply reports whether a response tag is the sentinel meaning "the
// caller must not actually transmit anything for this request".
func NoReply(t Tag) bool {
	return t == TagNoReply
}
