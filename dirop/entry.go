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

import "github.com/sabouaram/dirsrv/dirhook"

// Descriptor is the concrete dirhook.AttrDescriptor: a canonical name
// plus a user/operational kind flag (spec §3 "Attribute / Value").
type Descriptor struct {
	Name_        string
	Operational_ bool
}

func (d Descriptor) Name() string      { return d.Name_ }
func (d Descriptor) Operational() bool { return d.Operational_ }

// Attribute is an ordered, possibly empty list of binary values under one
// Descriptor.
type Attribute struct {
	Desc       Descriptor
	ValueBytes [][]byte
}

// Descriptor satisfies dirhook.Attribute.
func (a Attribute) Descriptor() dirhook.AttrDescriptor {
	return a.Desc
}

// Values satisfies dirhook.Attribute.
func (a Attribute) Values() [][]byte {
	return a.ValueBytes
}

// Entry carries a distinguished name (pretty form), a normalized DN, and
// an ordered list of attributes (spec §3: "a singly-linked list of
// attributes" — a Go slice preserves the same emission order).
type Entry struct {
	PrettyDN   string
	NormalDN   string
	Attributes []Attribute
}

func (e Entry) DN() string           { return e.PrettyDN }
func (e Entry) NormalizedDN() string { return e.NormalDN }
