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

import "strings"

// flattenV2Referrals implements the original's v2ref (result.c:25-84,
// SPEC_FULL.md §C.1): for a version-2 client, a referral list cannot be
// sent on the wire, so it is folded into the diagnostic-text field as
//
//	<original-text>
//	Referral:
//	<uri1>
//	<uri2>
//	...
//
// The separator before "Referral:" is only added if text is non-empty
// and does not already end in a newline (result.c:40-42, no duplicate
// blank line); consecutive URIs are then separated by a single newline,
// except that no newline follows a URI that already ends in "/"
// (result.c:77-79).
func flattenV2Referrals(text string, referrals []string) string {
	if len(referrals) == 0 {
		return text
	}

	var b strings.Builder
	b.WriteString(text)

	if text != "" && !strings.HasSuffix(text, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("Referral:\n")

	for i, uri := range referrals {
		if i > 0 && !strings.HasSuffix(referrals[i-1], "/") {
			b.WriteString("\n")
		}
		b.WriteString(uri)
	}

	return b.String()
}
