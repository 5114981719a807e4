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

package berenc

// Control is the wire-level shape of one LDAP control: an OID, a
// criticality flag, and an optional opaque value.
type Control struct {
	OID      string
	Critical bool
	Value    []byte
	HasValue bool
}

// WriteControls writes the shared controls block (original result.c's
// send_ldap_controls, spec §4.3.1 "Controls block"): a SEQUENCE of
// { OID, critical?, value? }, one per control. A non-critical control with
// no value is written as a bare { OID } sequence.
//
// Callers turn the SEQUENCE this opens into the [0]-tagged constructor
// expected at envelope level by calling e.WriteTagged(ber.ClassContext,
// CtxControls) immediately before; no separate outer constructor is written.
func WriteControls(e *Encoder, controls []Control) error {
	if err := e.BeginSequence("controls"); err != nil {
		return err
	}
	for _, c := range controls {
		if err := e.BeginSequence("control"); err != nil {
			return err
		}
		if err := e.WriteString(c.OID, "controlType"); err != nil {
			return err
		}
		if c.Critical {
			if err := e.WriteBoolean(true, "criticality"); err != nil {
				return err
			}
		}
		if c.HasValue {
			if err := e.WriteOctetString(c.Value, "controlValue"); err != nil {
				return err
			}
		}
		if err := e.EndSequence(); err != nil {
			return err
		}
	}
	return e.EndSequence()
}
