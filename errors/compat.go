/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package errors

// defaultPattern/defaultPatternTrace format a dirErr's Code()/StringError()/GetTrace()
// for CodeError() and CodeErrorTrace(); override them to match a log sink's own format.
var (
	defaultPattern      = "[Error #%d] %s"
	defaultPatternTrace = "[Error #%d] %s (%s)"
)

// SetDefaultPattern overrides the fmt pattern (code, message) used by CodeError().
func SetDefaultPattern(pattern string) {
	defaultPattern = pattern
}

// GetDefaultPattern returns the fmt pattern currently used by CodeError().
func GetDefaultPattern() string {
	return defaultPattern
}

// SetDefaultPatternTrace overrides the fmt pattern (code, message, trace) used by CodeErrorTrace().
func SetDefaultPatternTrace(patternTrace string) {
	defaultPatternTrace = patternTrace
}

// GetDefaultPatternTrace returns the fmt pattern currently used by CodeErrorTrace().
func GetDefaultPatternTrace() string {
	return defaultPatternTrace
}

// SetTracePathFilter overrides the path prefix stripped from GetTrace()'s file names,
// useful when this module is vendored under a different module root.
func SetTracePathFilter(path string) {
	filterPkg = path
}
