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

// Package direntry is the Search Entry Emitter and Search Reference
// Emitter (spec §4.4, §4.5): the largest component of the response-
// emission core, threading a per-attribute/per-value access-control
// check and an optional values-return filter around the encoding of one
// directory entry.
package direntry

import (
	ber "github.com/go-asn1-ber/asn1-ber"

	"github.com/sabouaram/dirsrv/berenc"
	"github.com/sabouaram/dirsrv/config"
	"github.com/sabouaram/dirsrv/dirhook"
	"github.com/sabouaram/dirsrv/dirlog"
	"github.com/sabouaram/dirsrv/dirop"
	"github.com/sabouaram/dirsrv/dirresp"
	"github.com/sabouaram/dirsrv/dirstats"
	"github.com/sabouaram/dirsrv/dirwriter"
	liberr "github.com/sabouaram/dirsrv/errors"
	"github.com/sabouaram/dirsrv/wire"
)

// pseudoEntry and pseudoRef are the schema descriptors for the two
// pseudo-attributes the core checks access on directly (spec §6 "Schema
// descriptors identifying the pseudo-attributes entry and ref").
var (
	pseudoEntry = dirop.Descriptor{Name_: "entry"}
	pseudoRef   = dirop.Descriptor{Name_: "ref"}
)

// Builder bundles the Search Entry/Reference Emitter's collaborators
// (spec §6 "External Interfaces"). ACL is required; OpAttrs, Plugin,
// Sink, Loop, Log, Resp may all be nil (nil OpAttrs/Plugin simply means
// no operational-attribute or computed-attribute pass is performed; a
// nil Resp means encoding failures after envelope-open cannot send a
// substitute OTHER result and are instead treated as a silent recoverable
// rejection).
type Builder struct {
	ACL     dirhook.AccessControl
	OpAttrs dirhook.OperationalAttributeProvider
	Plugin  dirhook.ComputedAttributePlugin

	Sink *dirstats.Sink
	Loop dirhook.EventLoop
	Log  *dirlog.Entry
	Resp *dirresp.Builder

	// Cfg gates which stats-log lines get written
	// (config.Config.StatsLogVerbosity); nil behaves like "all".
	Cfg *config.Config
}

// New returns a Builder. acl must not be nil; every other collaborator is
// optional.
func New(acl dirhook.AccessControl, opAttrs dirhook.OperationalAttributeProvider, plugin dirhook.ComputedAttributePlugin, sink *dirstats.Sink, loop dirhook.EventLoop, log *dirlog.Entry, resp *dirresp.Builder) *Builder {
	return &Builder{ACL: acl, OpAttrs: opAttrs, Plugin: plugin, Sink: sink, Loop: loop, Log: log, Resp: resp}
}

func splitAttrs(attrs []dirop.Attribute) ([]dirhook.AttrDescriptor, [][][]byte) {
	descs := make([]dirhook.AttrDescriptor, len(attrs))
	vals := make([][][]byte, len(attrs))
	for i, a := range attrs {
		descs[i] = a.Descriptor()
		vals[i] = a.Values()
	}
	return descs, vals
}

func splitDirhookAttrs(attrs []dirhook.Attribute) ([]dirhook.AttrDescriptor, [][][]byte) {
	descs := make([]dirhook.AttrDescriptor, len(attrs))
	vals := make([][][]byte, len(attrs))
	for i, a := range attrs {
		descs[i] = a.Descriptor()
		vals[i] = a.Values()
	}
	return descs, vals
}

// sendSubstituteError implements spec §7's "send a substitute RESULT with
// code OTHER and a short diagnostic" path. The emit-search-entry contract
// always returns 1 alongside it (recoverable rejection: an error response
// was already sent in the entry's place).
func (b *Builder) sendSubstituteError(op *dirop.Operation, diag string) (int, error) {
	if b.Resp != nil {
		_, _ = b.Resp.EmitResult(op, &dirop.ReplyDescriptor{ResultCode: wire.Other, DiagnosticText: diag})
	}
	return 1, nil
}

// writeAttributePass encodes one selection+ACL+values-filter pass over a
// parallel (descs, valueSets) pair, implementing spec §4.4 steps 5-6 (and
// reused for step 7's operational-attribute pass over a structurally
// identical pair).
func (b *Builder) writeAttributePass(e *berenc.Encoder, op *dirop.Operation, entry dirhook.Entry, state dirhook.ACLState, attrsOnly bool, descs []dirhook.AttrDescriptor, valueSets [][][]byte) error {
	var flags [][]bool
	if op.ValuesFilter != nil {
		flags = make([][]bool, len(descs))
		for i := range descs {
			flags[i] = make([]bool, len(valueSets[i]))
		}
		if err := op.ValuesFilter.FilterMatchedValues(op, descs, valueSets, flags); err != nil {
			return liberr.New(uint16(ErrFilterEvaluation), "direntry: values-return filter evaluation failed", err)
		}
	}

	for i, desc := range descs {
		if !op.WantsAttribute(desc) {
			continue
		}
		if !b.ACL.Allowed(op, entry, desc, nil, dirhook.AccessRead, state) {
			continue
		}

		if err := e.BeginSequence("attribute"); err != nil {
			return err
		}
		if err := e.WriteString(desc.Name(), "type"); err != nil {
			return err
		}
		if err := e.BeginSet("vals"); err != nil {
			return err
		}
		if !attrsOnly {
			for j, val := range valueSets[i] {
				if flags != nil && !flags[i][j] {
					continue
				}
				if !b.ACL.Allowed(op, entry, desc, val, dirhook.AccessRead, state) {
					continue
				}
				if err := e.WriteOctetString(val, "value"); err != nil {
					return err
				}
			}
		}
		if err := e.EndSet(); err != nil {
			return err
		}
		if err := e.EndSequence(); err != nil {
			return err
		}
	}
	return nil
}

// EmitSearchEntry encodes one directory entry per spec §4.4's ten-step
// algorithm, returning 0 on success, 1 on a recoverable rejection (ACL
// denial, or an encoding error after which a substitute OTHER result was
// already sent), or -1 on socket failure.
func (b *Builder) EmitSearchEntry(op *dirop.Operation, reply *dirop.ReplyDescriptor) (int, error) {
	if op == nil {
		panic(liberr.New(uint16(dirop.ErrNilOperation), "direntry: nil operation"))
	}
	if op.Callbacks != nil && op.Callbacks.OnEntry != nil {
		return op.Callbacks.OnEntry(op, reply.Entry), nil
	}

	entry := dirhook.Entry(reply.Entry)
	state := b.ACL.NewState()

	if !b.ACL.Allowed(op, entry, pseudoEntry, nil, dirhook.AccessRead, state) {
		return 1, nil
	}

	datagramV2 := op.Connectionless && op.Version < 3

	e := berenc.New()
	if !datagramV2 {
		if err := e.BeginSequence("LDAPMessage"); err != nil {
			return b.sendSubstituteError(op, "encoding DN error")
		}
		if err := e.WriteInteger(op.MsgID, "messageID"); err != nil {
			return b.sendSubstituteError(op, "encoding DN error")
		}
	}

	e.WriteTagged(ber.ClassApplication, ber.Tag(wire.CtxSearchEntry))
	if err := e.BeginSequence("SearchResultEntry"); err != nil {
		return b.sendSubstituteError(op, "encoding DN error")
	}
	if err := e.WriteString(reply.Entry.DN(), "objectName"); err != nil {
		return b.sendSubstituteError(op, "encoding DN error")
	}
	if err := e.BeginSequence("attributes"); err != nil {
		return b.sendSubstituteError(op, "encoding DN error")
	}

	descs, vals := splitAttrs(reply.Entry.Attributes)
	if err := b.writeAttributePass(e, op, entry, state, op.AttrsOnly, descs, vals); err != nil {
		return b.sendSubstituteError(op, "encoding values error")
	}

	if b.OpAttrs != nil {
		opAttrs, err := b.OpAttrs.Operational(op, entry, op.RequestedAttrs)
		if err != nil {
			return b.sendSubstituteError(op, "encoding values error")
		}
		opDescs, opVals := splitDirhookAttrs(opAttrs)
		if err := b.writeAttributePass(e, op, entry, state, op.AttrsOnly, opDescs, opVals); err != nil {
			return b.sendSubstituteError(op, "encoding values error")
		}
	}

	if b.Plugin != nil {
		appendAttr := func(a dirhook.Attribute) {
			if e.Err() != nil {
				return
			}
			_ = e.BeginSequence("attribute")
			_ = e.WriteString(a.Descriptor().Name(), "type")
			_ = e.BeginSet("vals")
			for _, v := range a.Values() {
				_ = e.WriteOctetString(v, "value")
			}
			_ = e.EndSet()
			_ = e.EndSequence()
		}

		names := op.RequestedAttrs
		if len(names) == 0 {
			names = []string{dirhook.AllUserAttributes}
		}
		for _, name := range names {
			if b.Plugin.ComputeAttribute(op, entry, name, appendAttr) == dirhook.ComputedAttributeAbort {
				return b.sendSubstituteError(op, "computed attribute error")
			}
		}
		if e.Err() != nil {
			return b.sendSubstituteError(op, "computed attribute error")
		}
	}

	if err := e.EndSequence(); err != nil { // attributes
		return b.sendSubstituteError(op, "encode end error")
	}
	if err := e.EndSequence(); err != nil { // SearchResultEntry
		return b.sendSubstituteError(op, "encode end error")
	}
	if !datagramV2 {
		if err := e.EndSequence(); err != nil { // LDAPMessage
			return b.sendSubstituteError(op, "encode end error")
		}
	}

	buf, err := e.Bytes()
	if err != nil {
		return b.sendSubstituteError(op, "encode end error")
	}

	if op.NoOp {
		return 0, nil
	}

	n, werr := dirwriter.SendPDU(op.Conn, buf, b.Loop)
	if werr != nil {
		return -1, werr
	}
	if n > 0 {
		if b.Sink != nil {
			b.Sink.AddEntry(n)
		}
		if b.Log != nil && b.Cfg.LogsKind("entry") {
			b.Log.Debug(dirstats.EntryLine(op.Conn.ID(), uint64(op.MsgID), reply.Entry.DN()))
		}
	}

	return 0, nil
}
