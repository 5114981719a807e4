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

// Package dirresp is the Response Envelope Builder (spec §4.3): it takes a
// dirop.ReplyDescriptor already filled in by a caller, chooses the wire tag
// and message id, applies the v2 referral-downgrade rule, encodes the BER
// envelope with berenc, and hands the bytes to dirop.Connection.SendPDU,
// updating dirstats counters and logging a stats line on success.
package dirresp

import (
	ber "github.com/go-asn1-ber/asn1-ber"

	"github.com/sabouaram/dirsrv/berenc"
	"github.com/sabouaram/dirsrv/config"
	"github.com/sabouaram/dirsrv/dirhook"
	"github.com/sabouaram/dirsrv/dirlog"
	"github.com/sabouaram/dirsrv/dirop"
	"github.com/sabouaram/dirsrv/dirstats"
	"github.com/sabouaram/dirsrv/dirwriter"
	"github.com/sabouaram/dirsrv/wire"
)

// clientPseudoErrorFloor is the boundary above which a result code is
// assumed to be a client-library-only pseudo-error (connection refused,
// timeout, TLS failure, ...) that must never reach the wire. The
// directory-protocol result codes this core ever assigns are all well
// under 90 (spec §4, wire.ResultCode); client-side libraries (e.g.
// go-ldap's ErrorNetwork and friends) reserve a much higher range.
const clientPseudoErrorFloor = 0x200

// IsClientSidePseudoError reports whether code looks like a client-side
// pseudo-error rather than a real protocol result code (spec §4.3
// "emit-result ... asserts the result code is not one of the reserved
// client-side pseudo-error codes").
func IsClientSidePseudoError(code wire.ResultCode) bool {
	return code < 0 || code >= clientPseudoErrorFloor
}

// Builder is the envelope builder's handle: the pieces every Emit* call
// needs besides the operation and reply it is given (spec §9 "Builder
// bundles its collaborators instead of taking them as parameters on every
// call").
type Builder struct {
	Sink     *dirstats.Sink
	Loop     dirhook.EventLoop
	Observer dirhook.ResultObserver
	Log      *dirlog.Entry

	// Cfg gates the v2 referral-text flattening and which stats-log
	// lines get written (config.Config.V2CompatReferralText,
	// StatsLogVerbosity). A nil Cfg behaves like config.DefaultConfig():
	// flattening on, every line logged.
	Cfg *config.Config
}

// New returns a Builder. sink, loop, observer and log may all be nil;
// a nil Sink/log simply means counters/log lines are skipped, a nil
// Observer means nothing is mirrored, a nil Loop means SendPDU never
// calls back into an event loop on backpressure. Set Cfg on the returned
// Builder to load the response-emission core's tunables.
func New(sink *dirstats.Sink, loop dirhook.EventLoop, observer dirhook.ResultObserver, log *dirlog.Entry) *Builder {
	return &Builder{Sink: sink, Loop: loop, Observer: observer, Log: log}
}

// v2CompatReferralText reports whether applyReferralDowngrade should fold
// a dropped referral list into the diagnostic text, per
// config.Config.V2CompatReferralText (default true).
func (b *Builder) v2CompatReferralText() bool {
	if b.Cfg == nil {
		return true
	}
	return b.Cfg.V2CompatReferralText
}

// applyReferralDowngrade implements the referral-downgrade rule (spec
// §4.3, SPEC_FULL.md §C.1): if the code is REFERRAL and the operation is
// domain-scoped, the referral list is dropped and the code becomes
// NO-SUCH-OBJECT; otherwise, for a version-2 client, REFERRAL becomes
// PARTIAL-RESULTS. Whatever referral list remains is then flattened into
// the diagnostic text for version-2 clients, since version 2 never
// carries a referral list on the wire (invariant: no [3] REFERRAL field
// is ever emitted for a version-2 response) — unless Cfg disables the
// flattening, in which case the referral information is dropped silently.
func (b *Builder) applyReferralDowngrade(op *dirop.Operation, local *dirop.ReplyDescriptor) {
	if local.ResultCode == wire.Referral {
		if op.DomainScope {
			local.Referrals = nil
			local.ResultCode = wire.NoSuchObject
		} else if op.Version < 3 {
			local.ResultCode = wire.PartialResults
		}
	}

	if op.Version < 3 && len(local.Referrals) > 0 {
		if b.v2CompatReferralText() {
			local.DiagnosticText = flattenV2Referrals(local.DiagnosticText, local.Referrals)
		}
		local.Referrals = nil
	}
}

// toBerControls adapts dirop.Control values to the shape berenc.WriteControls
// expects; the two types are kept distinct because dirop's Control is part
// of the public reply-descriptor surface while berenc's is an internal wire
// primitive.
func toBerControls(cs []dirop.Control) []berenc.Control {
	if len(cs) == 0 {
		return nil
	}
	out := make([]berenc.Control, len(cs))
	for i, c := range cs {
		out[i] = berenc.Control{OID: c.OID, Critical: c.Critical, Value: c.Value, HasValue: c.HasValue}
	}
	return out
}

// assemble encodes local per the on-wire layout of spec §4.3.1:
//
//	{ msgid , [TAG] { resultCode , matchedDN , diagText ,
//	    [REFERRAL]? , [SASL_CREDS]? , [EXOP_OID]? , [EXOP_VAL]? } ,
//	  [CONTROLS]? }
//
// For a connectionless version-2 datagram, the outer "{ msgid" wrapper is
// omitted entirely: the protocol-op tag becomes the top-level value (spec
// §9 "LDAP_CONNECTIONLESS": "the response is the bare protocolOp, not a
// LDAPMessage envelope").
func assemble(local *dirop.ReplyDescriptor, datagramV2 bool) ([]byte, error) {
	e := berenc.New()

	if !datagramV2 {
		if err := e.BeginSequence("LDAPMessage"); err != nil {
			return nil, err
		}
		if err := e.WriteInteger(local.ResponseID, "messageID"); err != nil {
			return nil, err
		}
	}

	e.WriteTagged(ber.ClassApplication, ber.Tag(local.ResponseTag))
	if err := e.BeginSequence("protocolOp"); err != nil {
		return nil, err
	}
	if err := e.WriteEnumerated(int64(local.ResultCode), "resultCode"); err != nil {
		return nil, err
	}
	if err := e.WriteString(local.MatchedDN, "matchedDN"); err != nil {
		return nil, err
	}
	if err := e.WriteString(local.DiagnosticText, "diagnosticMessage"); err != nil {
		return nil, err
	}

	if len(local.Referrals) > 0 {
		e.WriteTagged(ber.ClassContext, ber.Tag(wire.CtxReferral))
		if err := e.WriteOctetStringList(local.Referrals, "referral"); err != nil {
			return nil, err
		}
	}

	if local.HasSASLCreds {
		e.WriteTagged(ber.ClassContext, ber.Tag(wire.CtxSASLCreds))
		if err := e.WriteOctetString(local.SASLCreds, "serverSaslCreds"); err != nil {
			return nil, err
		}
	}

	if local.HasExtended {
		if local.ExtendedOID != "" {
			e.WriteTagged(ber.ClassContext, ber.Tag(wire.CtxExopResOID))
			if err := e.WriteString(local.ExtendedOID, "responseName"); err != nil {
				return nil, err
			}
		}
		if local.ExtendedValue != nil {
			e.WriteTagged(ber.ClassContext, ber.Tag(wire.CtxExopResValue))
			if err := e.WriteOctetString(local.ExtendedValue, "response"); err != nil {
				return nil, err
			}
		}
	}

	if err := e.EndSequence(); err != nil { // protocolOp
		return nil, err
	}

	if len(local.Controls) > 0 {
		e.WriteTagged(ber.ClassContext, ber.Tag(wire.CtxControls))
		if err := berenc.WriteControls(e, toBerControls(local.Controls)); err != nil {
			return nil, err
		}
	}

	if !datagramV2 {
		if err := e.EndSequence(); err != nil { // LDAPMessage
			return nil, err
		}
	}

	return e.Bytes()
}

// send encodes local and hands the buffer to the connection's writer,
// updating counters and emitting a stats line on an actual transmission
// (spec §7 "On any encoder error: release the buffer and return silently";
// "Closing connection (writer returned 0): treated as success-with-no-
// transmission; counters are not incremented").
func (b *Builder) send(op *dirop.Operation, local *dirop.ReplyDescriptor) (int, error) {
	datagramV2 := op.Connectionless && op.Version < 3

	buf, err := assemble(local, datagramV2)
	if err != nil {
		if b.Log != nil {
			b.Log.Errorf("response encode failed: %v", err)
		}
		return 0, nil
	}

	n, err := dirwriter.SendPDU(op.Conn, buf, b.Loop)
	if err != nil {
		return n, err
	}
	if n <= 0 {
		return n, nil
	}

	if b.Sink != nil {
		b.Sink.AddPDU(n)
	}
	if b.Log != nil && b.Cfg.LogsKind("result") {
		switch local.Type {
		case dirop.ReplySearchResult:
			b.Log.Debug(dirstats.SearchResultLine(op.Conn.ID(), uint64(op.MsgID), int(local.ResponseTag), int(local.ResultCode), local.NumEntries, local.DiagnosticText))
		case dirop.ReplyDisconnect:
			b.Log.Debug(dirstats.DisconnectLine(op.Conn.ID(), uint64(op.MsgID), int(local.ResponseTag), int(local.ResultCode), local.DiagnosticText))
		default:
			b.Log.Debug(dirstats.ResultLine(op.Conn.ID(), uint64(op.MsgID), int(local.ResponseTag), int(local.ResultCode), local.DiagnosticText))
		}
	}
	if b.Observer != nil {
		b.Observer.ObserveResult(op.Conn.ID(), uint64(op.MsgID), int(local.ResultCode), local.MatchedDN, local.DiagnosticText)
	}

	return n, nil
}

// assignResultTagAndID fills in local.ResponseTag/ResponseID the way a
// plain result (or anything that "derives tag and id from the originating
// request") does: req2res on the request tag, and the request's own
// message id unless the mapping yields the no-reply sentinel, in which
// case the id is zeroed along with it (spec §4.3 boundary case: "Request
// tag UNBIND or ABANDON: req2res yields the no-reply sentinel; the
// envelope builder must not be invoked").
func assignResultTagAndID(op *dirop.Operation, local *dirop.ReplyDescriptor) {
	local.ResponseTag = wire.ReqToRes(op.RequestTag)
	if wire.NoReply(local.ResponseTag) {
		local.ResponseID = 0
		return
	}
	local.ResponseID = op.MsgID
}
