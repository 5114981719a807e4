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

package wire

// ResultCode is the directory-protocol result code carried in a result PDU.
type ResultCode int

const (
	Success              ResultCode = 0
	OperationsError      ResultCode = 1
	ProtocolError        ResultCode = 2
	NoSuchObject         ResultCode = 32
	Other                ResultCode = 80
	Referral             ResultCode = 10
	PartialResults       ResultCode = 9 // v2-only; superseded by Referral in v3
	StrongAuthRequired   ResultCode = 8
	Unavailable          ResultCode = 52
)

// ExtendedDisconnectionNoticeOID is the fixed OID used by emit-disconnect
// for unsolicited v3 notifications, as the original assigns a single
// well-known OID to every disconnect notice regardless of cause.
const ExtendedDisconnectionNoticeOID = "1.3.6.1.4.1.1466.20036"
