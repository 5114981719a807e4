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

// Package dirresult parses and serializes the tiny line-oriented textual
// result form used by out-of-process back-ends (spec §4.6).
package dirresult

import (
	"strconv"
	"strings"
)

// Result is the parsed (code, matched, info) triple str2result produces.
type Result struct {
	Code    int
	Matched string
	Info    string
}

// Parse implements str2result: it reads a "RESULT\n" header followed by
// "key: value" lines. It returns a non-nil error if the first token is
// not "RESULT" or if an unknown key is encountered; per the original
// contract an unknown key does not stop parsing of the remaining lines,
// so the returned Result still carries every field recognized before and
// after the bad line.
func Parse(s string) (Result, error) {
	var r Result

	head, rest, hasRest := strings.Cut(s, "\n")
	if !strings.EqualFold(strings.TrimSpace(head), "RESULT") {
		return r, errNotResult
	}
	if !hasRest {
		return r, nil
	}

	var rc error
	for _, line := range strings.Split(rest, "\n") {
		if line == "" {
			break
		}

		key, value, hasValue := strings.Cut(line, ":")
		if hasValue {
			value = strings.TrimSpace(value)
		}

		switch {
		case strings.EqualFold(key, "code"):
			if hasValue {
				n, err := strconv.Atoi(value)
				if err == nil {
					r.Code = n
				}
			}
		case strings.EqualFold(key, "matched"):
			if hasValue {
				r.Matched = value
			}
		case strings.EqualFold(key, "info"):
			if hasValue {
				r.Info = value
			}
		default:
			rc = errUnknownKey
		}
	}

	return r, rc
}

// Format re-serializes a Result to the textual form Parse accepts (spec §8
// "Round trip of str2result"). Parse(Format(r)) reproduces r when Matched
// and Info contain no newline and no leading or trailing whitespace, since
// Parse splits the input on newlines and trims each value.
func Format(r Result) string {
	var b strings.Builder
	b.WriteString("RESULT\n")
	b.WriteString("code: ")
	b.WriteString(strconv.Itoa(r.Code))
	b.WriteString("\n")
	b.WriteString("matched: ")
	b.WriteString(r.Matched)
	b.WriteString("\n")
	b.WriteString("info: ")
	b.WriteString(r.Info)
	b.WriteString("\n")
	return b.String()
}
