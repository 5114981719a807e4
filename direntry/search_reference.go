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

package direntry

import (
	ber "github.com/go-asn1-ber/asn1-ber"

	"github.com/sabouaram/dirsrv/berenc"
	"github.com/sabouaram/dirsrv/dirhook"
	"github.com/sabouaram/dirsrv/dirop"
	"github.com/sabouaram/dirsrv/dirstats"
	"github.com/sabouaram/dirsrv/dirwriter"
	"github.com/sabouaram/dirsrv/wire"
)

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

// EmitSearchReference encodes one SearchResultReference, or folds it into
// the version-2 referral accumulator, per spec §4.5. The protocol version
// boundary is read as "below 3" (i.e. version 2): the core only ever
// negotiates versions 2 or 3, and the accumulator this feeds is the
// operation's documented "v2-compatibility referral accumulator", so a
// literal "version < 2" would never fire.
func (b *Builder) EmitSearchReference(op *dirop.Operation, reply *dirop.ReplyDescriptor) (int, error) {
	if op == nil {
		panic(dirop.ErrNilOperation.Error())
	}
	if op.Callbacks != nil && op.Callbacks.OnReference != nil {
		return op.Callbacks.OnReference(op, reply.Referrals), nil
	}

	entry := dirhook.Entry(reply.Entry)
	state := b.ACL.NewState()

	if !b.ACL.Allowed(op, entry, pseudoEntry, nil, dirhook.AccessRead, state) {
		return 1, nil
	}
	if !b.ACL.Allowed(op, entry, pseudoRef, nil, dirhook.AccessRead, state) {
		return 1, nil
	}

	if op.DomainScope {
		return 0, nil
	}
	if len(reply.Referrals) == 0 {
		return 1, nil
	}

	if op.Version < 3 {
		for _, uri := range reply.Referrals {
			op.AccumulateV2Referral(uri)
		}
		return 0, nil
	}

	e := berenc.New()
	if err := e.BeginSequence("LDAPMessage"); err != nil {
		return 1, nil
	}
	if err := e.WriteInteger(op.MsgID, "messageID"); err != nil {
		return 1, nil
	}

	e.WriteTagged(ber.ClassApplication, ber.Tag(wire.CtxSearchRef))
	if err := e.WriteOctetStringList(reply.Referrals, "uris"); err != nil {
		return 1, nil
	}

	if len(reply.Controls) > 0 {
		e.WriteTagged(ber.ClassContext, ber.Tag(wire.CtxControls))
		if err := berenc.WriteControls(e, toBerControls(reply.Controls)); err != nil {
			return 1, nil
		}
	}

	if err := e.EndSequence(); err != nil { // LDAPMessage
		return 1, nil
	}

	buf, err := e.Bytes()
	if err != nil {
		return 1, nil
	}

	n, werr := dirwriter.SendPDU(op.Conn, buf, b.Loop)
	if werr != nil {
		return -1, werr
	}
	if n > 0 {
		if b.Sink != nil {
			b.Sink.AddReference(n)
		}
		if b.Log != nil && b.Cfg.LogsKind("reference") {
			b.Log.Debug(dirstats.ReferenceLine(op.Conn.ID(), uint64(op.MsgID), reply.Entry.DN()))
		}
	}

	return 0, nil
}
