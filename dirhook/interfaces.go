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

// Package dirhook declares the narrow interfaces the response-emission
// core consumes from (and exposes to) its collaborators: access control,
// the values-return filter, backend-operational attributes, the optional
// computed-attribute plugin surface, per-operation callbacks, the event
// loop's write-interest notifier, and an optional result observer.
//
// Nothing in this package performs I/O; it only types the seams named in
// spec §6 so dirop/dirresp/direntry can be written against interfaces
// instead of concrete backend types.
package dirhook

// AccessKind distinguishes the operation an access-control check is being
// asked to authorize. The core only ever asks for READ.
type AccessKind int

const (
	AccessRead AccessKind = iota
)

// ACLState is an opaque, per-entry reusable state handle threaded through
// a run of Allowed calls for one entry, so an ACL engine can cache
// whatever it needs across the attribute/value fan-out without the core
// knowing its shape.
type ACLState interface{}

// AccessControl is the access-control policy engine the core consults
// before emitting the pseudo-attributes "entry"/"ref", every attribute
// header, and every attribute value.
type AccessControl interface {
	// NewState returns a fresh, reusable per-entry state handle.
	NewState() ACLState

	// Allowed reports whether desc (or, for a value check, desc+value) may
	// be read. value is nil when checking the pseudo-attribute or the
	// attribute header itself; it is non-nil when checking one value.
	Allowed(op Operation, entry Entry, desc AttrDescriptor, value []byte, kind AccessKind, state ACLState) bool
}

// AttrDescriptor names an attribute and says whether it is operational.
type AttrDescriptor interface {
	Name() string
	Operational() bool
}

// Entry is the minimal view of a directory entry the core needs: its DN
// forms. Concrete entries live in dirop.
type Entry interface {
	DN() string
	NormalizedDN() string
}

// Operation is the minimal view of an in-flight operation the hooks need;
// satisfied by *dirop.Operation.
type Operation interface {
	RequestedAttributes() []string
	ProtocolVersion() int
}

// InList reports whether name is present in requested by exact,
// case-sensitive comparison; the "*" and "+" sentinels get no special
// handling here. It is exposed for access-control engines that want a
// plain membership test.
func InList(name string, requested []string) bool {
	for _, r := range requested {
		if r == name {
			return true
		}
	}
	return false
}

const (
	// AllUserAttributes is the sentinel requesting every user attribute.
	AllUserAttributes = "*"
	// AllOperationalAttributes is the sentinel requesting every
	// operational attribute.
	AllOperationalAttributes = "+"
)

// ValuesReturnFilter selects, per attribute, which individual values are
// visible on the wire. FilterMatchedValues fills flags so that
// flags[i][j] is true iff the j-th value of the i-th attribute (in the
// order attrs is given) should be emitted. It returns an error if the
// filter could not be evaluated (spec: "filter-matched-values(...) ->
// 0|-1").
type ValuesReturnFilter interface {
	FilterMatchedValues(op Operation, attrs []AttrDescriptor, values [][][]byte, flags [][]bool) error
}

// OperationalAttributeProvider supplies backend-generated operational
// attributes (e.g. subschemaSubentry) for one entry. The returned
// attributes are owned by the caller of Operational, which must not
// retain them past the current emission (spec: "caller-owned; caller
// frees" — in Go this just means: don't alias mutable shared state).
type OperationalAttributeProvider interface {
	Operational(op Operation, entry Entry, hint []string) ([]Attribute, error)
}

// Attribute is the minimal shape EmitSearchEntry needs from an attribute:
// its descriptor and its ordered values.
type Attribute interface {
	Descriptor() AttrDescriptor
	Values() [][]byte
}

// ComputedAttributePluginResult is returned by a ComputedAttributePlugin
// invocation.
type ComputedAttributePluginResult int

const (
	// ComputedAttributeOK means the plugin appended zero or more
	// attributes to the buffer and emission should continue normally.
	ComputedAttributeOK ComputedAttributePluginResult = 0
	// ComputedAttributeAbort means the plugin encountered a fatal error;
	// per the documented Open Question resolution (SPEC_FULL.md §D), the
	// partially assembled entry is discarded and an OTHER result is sent
	// instead.
	ComputedAttributeAbort ComputedAttributePluginResult = 1
)

// ComputedAttributePlugin is the optional LDAP_SLAPI-style hook invoked
// once per requested computed-attribute name (or once with "*" to mean
// "whatever you have"), appending encoded attributes directly onto the
// current entry buffer.
type ComputedAttributePlugin interface {
	ComputeAttribute(op Operation, entry Entry, name string, appendAttr func(Attribute)) ComputedAttributePluginResult
}

// ResultObserver mirrors a successful emit-result outcome into an
// embedding application's own state, without the core depending on a
// plugin ABI (SPEC_FULL.md §C.5, grounded on result.c's
// slapi_pblock_set mirroring).
type ResultObserver interface {
	ObserveResult(connID string, opID uint64, resultCode int, matchedDN, diagnosticText string)
}

// EventLoop is the narrow surface the connection writer uses to tell an
// external reactor that a socket is now interested (or no longer
// interested) in write-readiness.
type EventLoop interface {
	SetWriteInterest(connID string, interested bool)
}

// ResponseCallback is invoked instead of on-wire encoding when present on
// an operation (spec §4.3.1 "If the operation carries a response
// callback, invoke it instead of on-wire encoding and return").
type ResponseCallback func(op Operation, resultCode int, matchedDN, diagnosticText string)

// EntryCallback is invoked instead of on-wire encoding of a search entry.
// It returns 0 on success, matching the emitter's own return contract.
type EntryCallback func(op Operation, entry Entry) int

// ReferenceCallback is invoked instead of on-wire encoding of a search
// reference.
type ReferenceCallback func(op Operation, referrals []string) int

// CallbackBundle groups the three polymorphic hooks an operation may
// install to replace the normal emission path (spec §9 "Callback
// dispatch": modeled as a small tagged record, not deep inheritance).
type CallbackBundle struct {
	OnResponse  ResponseCallback
	OnEntry     EntryCallback
	OnReference ReferenceCallback
}
