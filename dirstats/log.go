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

package dirstats

import "fmt"

// ResultLine formats the ordinary-result stats log line (spec §6):
// `conn=<id> op=<id> RESULT tag=<n> err=<n> text=<...>`.
func ResultLine(connID string, opID uint64, tag int, errCode int, text string) string {
	return fmt.Sprintf("conn=%s op=%d RESULT tag=%d err=%d text=%s", connID, opID, tag, errCode, text)
}

// SearchResultLine formats the search-result stats log line:
// `conn=<id> op=<id> SEARCH RESULT tag=<n> err=<err> nentries=<k> text=<...>`.
func SearchResultLine(connID string, opID uint64, tag int, errCode int, nentries int, text string) string {
	return fmt.Sprintf("conn=%s op=%d SEARCH RESULT tag=%d err=%d nentries=%d text=%s", connID, opID, tag, errCode, nentries, text)
}

// EntryLine formats the search-entry stats log line:
// `conn=<id> op=<id> ENTRY dn="<...>"`.
func EntryLine(connID string, opID uint64, dn string) string {
	return fmt.Sprintf("conn=%s op=%d ENTRY dn=%q", connID, opID, dn)
}

// ReferenceLine formats the search-reference stats log line:
// `conn=<id> op=<id> REF dn="<...>"`.
func ReferenceLine(connID string, opID uint64, dn string) string {
	return fmt.Sprintf("conn=%s op=%d REF dn=%q", connID, opID, dn)
}

// DisconnectLine formats the disconnect stats log line:
// `conn=<id> op=<id> DISCONNECT tag=<n> err=<n> text=<...>`.
func DisconnectLine(connID string, opID uint64, tag int, errCode int, text string) string {
	return fmt.Sprintf("conn=%s op=%d DISCONNECT tag=%d err=%d text=%s", connID, opID, tag, errCode, text)
}
