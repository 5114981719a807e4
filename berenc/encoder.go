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

// Package berenc is a streaming BER/DER encoder built on top of
// github.com/go-asn1-ber/asn1-ber. It exposes the primitives a directory
// response wire-format needs (integers, strings, octet strings, booleans,
// nested sequences/sets, and tag overrides) without exposing the
// underlying packet tree to callers.
//
// Every primitive returns an error instead of panicking; on the first
// error the encoder remembers it and every subsequent call becomes a
// no-op, so callers can write a straight-line sequence of Write* calls
// and check the error once at the end.
package berenc

import (
	"fmt"

	ber "github.com/go-asn1-ber/asn1-ber"
)

// Encoder builds one nested BER value. It is not safe for concurrent use;
// callers open one Encoder per emission (spec §5 "Resources").
type Encoder struct {
	stack []*ber.Packet
	root  *ber.Packet
	err   error

	// pending, when non-nil, overrides the class/tag of the very next
	// primitive or constructor opened, implementing write-tagged (§4.1).
	pending *tagOverride
}

type tagOverride struct {
	class ber.Class
	tag   ber.Tag
}

// New returns an empty encoder. The first call must be BeginSequence or
// BeginSet to establish the outermost container.
func New() *Encoder {
	return &Encoder{stack: make([]*ber.Packet, 0, 4)}
}

// Err returns the first error encountered, if any.
func (e *Encoder) Err() error {
	return e.err
}

func (e *Encoder) fail(err error) error {
	if e.err == nil {
		e.err = err
	}
	return e.err
}

// WriteTagged arranges for the next Write*/Begin* call to use the given
// class and tag instead of its default universal tag. It is consumed by
// exactly one subsequent call.
func (e *Encoder) WriteTagged(class ber.Class, tag ber.Tag) {
	if e.err != nil {
		return
	}
	e.pending = &tagOverride{class: class, tag: tag}
}

func (e *Encoder) takeOverride(defClass ber.Class, defTag ber.Tag) (ber.Class, ber.Tag) {
	if e.pending == nil {
		return defClass, defTag
	}
	o := e.pending
	e.pending = nil
	return o.class, o.tag
}

func (e *Encoder) appendToCurrent(p *ber.Packet) {
	if len(e.stack) == 0 {
		// No open container: this leaf becomes the root by itself.
		e.root = p
		return
	}
	top := e.stack[len(e.stack)-1]
	top.AppendChild(p)
}

// current returns the innermost open container, or nil if none is open
// (the encoder is empty, or the single root value was already written
// as a leaf).
func (e *Encoder) current() *ber.Packet {
	if len(e.stack) == 0 {
		return nil
	}
	return e.stack[len(e.stack)-1]
}

// WriteInteger writes a universal (or tag-overridden) INTEGER primitive.
func (e *Encoder) WriteInteger(v int64, desc string) error {
	if e.err != nil {
		return e.err
	}
	class, tag := e.takeOverride(ber.ClassUniversal, ber.TagInteger)
	p := ber.NewInteger(class, ber.TypePrimitive, tag, v, desc)
	if p == nil {
		return e.fail(fmt.Errorf("berenc: encode integer error"))
	}
	e.appendToCurrent(p)
	return nil
}

// WriteEnumerated writes an ENUMERATED primitive (result codes use this
// tag rather than plain INTEGER).
func (e *Encoder) WriteEnumerated(v int64, desc string) error {
	if e.err != nil {
		return e.err
	}
	class, tag := e.takeOverride(ber.ClassUniversal, ber.TagEnumerated)
	p := ber.NewInteger(class, ber.TypePrimitive, tag, v, desc)
	if p == nil {
		return e.fail(fmt.Errorf("berenc: encode enumerated error"))
	}
	e.appendToCurrent(p)
	return nil
}

// WriteBoolean writes a BOOLEAN primitive.
func (e *Encoder) WriteBoolean(v bool, desc string) error {
	if e.err != nil {
		return e.err
	}
	class, tag := e.takeOverride(ber.ClassUniversal, ber.TagBoolean)
	p := ber.NewBoolean(class, ber.TypePrimitive, tag, v, desc)
	if p == nil {
		return e.fail(fmt.Errorf("berenc: encode boolean error"))
	}
	e.appendToCurrent(p)
	return nil
}

// WriteString writes a UTF-8 OCTET STRING carrying a textual value
// (distinguished names, diagnostic text, OIDs).
func (e *Encoder) WriteString(v string, desc string) error {
	if e.err != nil {
		return e.err
	}
	class, tag := e.takeOverride(ber.ClassUniversal, ber.TagOctetString)
	p := ber.NewString(class, ber.TypePrimitive, tag, v, desc)
	if p == nil {
		return e.fail(fmt.Errorf("berenc: encode string error"))
	}
	e.appendToCurrent(p)
	return nil
}

// WriteOctetString writes a binary OCTET STRING (attribute values, SASL
// credentials, extended response values).
func (e *Encoder) WriteOctetString(v []byte, desc string) error {
	if e.err != nil {
		return e.err
	}
	class, tag := e.takeOverride(ber.ClassUniversal, ber.TagOctetString)
	p := ber.NewString(class, ber.TypePrimitive, tag, string(v), desc)
	if p == nil {
		return e.fail(fmt.Errorf("berenc: encode octet-string error"))
	}
	e.appendToCurrent(p)
	return nil
}

// WriteNull writes a NULL primitive.
func (e *Encoder) WriteNull(desc string) error {
	if e.err != nil {
		return e.err
	}
	class, tag := e.takeOverride(ber.ClassUniversal, ber.TagNull)
	p := ber.Encode(class, ber.TypePrimitive, tag, nil, desc)
	if p == nil {
		return e.fail(fmt.Errorf("berenc: encode null error"))
	}
	e.appendToCurrent(p)
	return nil
}

// BeginSequence opens a constructed SEQUENCE and pushes it as the current
// container; subsequent Write*/Begin* calls become its children until the
// matching EndSequence.
func (e *Encoder) BeginSequence(desc string) error {
	return e.begin(ber.TagSequence, desc)
}

// EndSequence closes the innermost container opened by BeginSequence,
// back-patching its length from the accumulated children (handled by the
// underlying packet's Bytes() on demand).
func (e *Encoder) EndSequence() error {
	return e.end()
}

// BeginSet opens a constructed SET, used for collections whose member order
// is not semantically significant; direntry writes each attribute's value
// set with it.
func (e *Encoder) BeginSet(desc string) error {
	return e.begin(ber.TagSet, desc)
}

// EndSet closes the innermost container opened by BeginSet.
func (e *Encoder) EndSet() error {
	return e.end()
}

func (e *Encoder) begin(defTag ber.Tag, desc string) error {
	if e.err != nil {
		return e.err
	}
	class, tag := e.takeOverride(ber.ClassUniversal, defTag)
	p := ber.Encode(class, ber.TypeConstructed, tag, nil, desc)
	if p == nil {
		return e.fail(fmt.Errorf("berenc: begin constructor error"))
	}
	e.stack = append(e.stack, p)
	return nil
}

func (e *Encoder) end() error {
	if e.err != nil {
		return e.err
	}
	if len(e.stack) == 0 {
		return e.fail(fmt.Errorf("berenc: end constructor error: nothing open"))
	}
	closed := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]

	if len(e.stack) == 0 {
		// Popped container becomes (or replaces) the root.
		e.root = closed
		return nil
	}

	parent := e.stack[len(e.stack)-1]
	parent.AppendChild(closed)
	return nil
}

// WriteOctetStringList emits one SEQUENCE containing an OCTET STRING per
// entry of values, in order (used for referral lists, §4.1 "W").
func (e *Encoder) WriteOctetStringList(values []string, desc string) error {
	if e.err != nil {
		return e.err
	}
	if err := e.BeginSequence(desc); err != nil {
		return err
	}
	for _, v := range values {
		if err := e.WriteString(v, "uri"); err != nil {
			return err
		}
	}
	return e.EndSequence()
}

// Bytes returns the fully encoded buffer. It is only valid once every
// Begin* has a matching End* (the encoder's stack is empty) and no error
// has occurred.
func (e *Encoder) Bytes() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	if len(e.stack) != 0 {
		return nil, fmt.Errorf("berenc: unbalanced encoder: %d container(s) still open", len(e.stack))
	}
	if e.root == nil {
		return nil, fmt.Errorf("berenc: empty encoder")
	}
	return e.root.Bytes(), nil
}
