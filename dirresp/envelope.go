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

package dirresp

import (
	liberr "github.com/sabouaram/dirsrv/errors"

	"github.com/sabouaram/dirsrv/dirop"
	"github.com/sabouaram/dirsrv/wire"
)

func requireOperation(op *dirop.Operation) {
	if op == nil {
		panic(liberr.New(uint16(dirop.ErrNilOperation), "dirresp: nil operation"))
	}
}

// EmitResult is the ordinary result path (spec §4.3): a caller fills in a
// ReplyDescriptor's ResultCode/MatchedDN/DiagnosticText/Referrals and
// hands it here. If the operation carries a response callback, it is
// invoked instead of on-wire encoding and nothing is transmitted (spec
// §4.3.1 "If the operation carries a response callback, invoke it instead
// of on-wire encoding and return"). If req2res maps the request tag to
// the no-reply sentinel (UNBIND, ABANDON, anything unrecognized), nothing
// is assembled or sent at all.
func (b *Builder) EmitResult(op *dirop.Operation, reply *dirop.ReplyDescriptor) (int, error) {
	return b.emitResult(op, reply, dirop.ReplyResult)
}

// emitResult is the shared body of EmitResult and EmitSearchResult; rtype
// picks which reply type (and therefore which stats-log line) send() uses.
func (b *Builder) emitResult(op *dirop.Operation, reply *dirop.ReplyDescriptor, rtype dirop.ReplyType) (int, error) {
	requireOperation(op)
	if IsClientSidePseudoError(reply.ResultCode) {
		panic(liberr.New(uint16(ErrPseudoErrorOnWire), "dirresp: client-side pseudo-error on the wire"))
	}

	if op.Callbacks != nil && op.Callbacks.OnResponse != nil {
		op.Callbacks.OnResponse(op, int(reply.ResultCode), reply.MatchedDN, reply.DiagnosticText)
		return 0, nil
	}

	local := reply.Clone()
	local.Type = rtype

	assignResultTagAndID(op, local)
	if wire.NoReply(local.ResponseTag) {
		return 0, nil
	}

	b.applyReferralDowngrade(op, local)

	return b.send(op, local)
}

// EmitSearchResult closes out a search, running the same body as
// EmitResult with the reply's type set to SEARCH-RESULT (spec §4.3
// "emit-search-result: sets reply type SEARCH-RESULT then delegates to
// emit-result"). The caller fills in reply.NumEntries with the count of
// entries already streamed; send() picks up the SEARCH-RESULT type and
// logs the "SEARCH RESULT ... nentries=" line via dirstats.SearchResultLine
// instead of the plain RESULT line.
func (b *Builder) EmitSearchResult(op *dirop.Operation, reply *dirop.ReplyDescriptor) (int, error) {
	return b.emitResult(op, reply, dirop.ReplySearchResult)
}

// EmitDisconnect sends an unsolicited disconnection notice (spec §4.3):
// the result code must be one of PROTOCOL-ERROR, STRONG-AUTH-REQUIRED or
// UNAVAILABLE. For a version-2 client it masquerades as an ordinary
// result tied to the originating request (version 2 has no notion of an
// unsolicited notification); for version 3 it is a standalone Extended
// Response with a fixed OID, tag EXTENDED-RESPONSE, and message id 0.
func (b *Builder) EmitDisconnect(op *dirop.Operation, reply *dirop.ReplyDescriptor) (int, error) {
	requireOperation(op)
	switch reply.ResultCode {
	case wire.ProtocolError, wire.StrongAuthRequired, wire.Unavailable:
	default:
		panic(liberr.New(uint16(ErrDisconnectCode), "dirresp: invalid disconnect result code"))
	}

	local := reply.Clone()
	local.Type = dirop.ReplyDisconnect

	if op.Version < 3 {
		assignResultTagAndID(op, local)
		if wire.NoReply(local.ResponseTag) {
			return 0, nil
		}
	} else {
		local.ResponseTag = wire.TagExtendedResponse
		local.ResponseID = 0
		local.HasExtended = true
		local.ExtendedOID = wire.ExtendedDisconnectionNoticeOID
	}

	return b.send(op, local)
}

// EmitSASL sends a bind response carrying server SASL credentials (spec
// §4.3): tag and message id are derived from the originating request
// exactly as EmitResult does.
func (b *Builder) EmitSASL(op *dirop.Operation, reply *dirop.ReplyDescriptor) (int, error) {
	requireOperation(op)

	if op.Callbacks != nil && op.Callbacks.OnResponse != nil {
		op.Callbacks.OnResponse(op, int(reply.ResultCode), reply.MatchedDN, reply.DiagnosticText)
		return 0, nil
	}

	local := reply.Clone()
	local.Type = dirop.ReplySASL

	assignResultTagAndID(op, local)
	if wire.NoReply(local.ResponseTag) {
		return 0, nil
	}

	return b.send(op, local)
}

// EmitExtended sends an extended-operation response (spec §4.3): tag and
// message id are derived from the originating request exactly as
// EmitResult does.
func (b *Builder) EmitExtended(op *dirop.Operation, reply *dirop.ReplyDescriptor) (int, error) {
	requireOperation(op)

	if op.Callbacks != nil && op.Callbacks.OnResponse != nil {
		op.Callbacks.OnResponse(op, int(reply.ResultCode), reply.MatchedDN, reply.DiagnosticText)
		return 0, nil
	}

	local := reply.Clone()
	local.Type = dirop.ReplyExtended

	assignResultTagAndID(op, local)
	if wire.NoReply(local.ResponseTag) {
		return 0, nil
	}

	return b.send(op, local)
}

// EmitIntermediate sends an IntermediateResponse (spec §4.3): unlike the
// other reply types it always uses a fixed application tag and the
// operation's own message id, never req2res (an intermediate response is
// not itself "the" reply to the request, so there is no no-reply
// sentinel case to special-case here).
func (b *Builder) EmitIntermediate(op *dirop.Operation, reply *dirop.ReplyDescriptor) (int, error) {
	requireOperation(op)

	local := reply.Clone()
	local.Type = dirop.ReplyIntermediate
	local.ResponseTag = wire.TagIntermediateResp
	local.ResponseID = op.MsgID

	return b.send(op, local)
}
