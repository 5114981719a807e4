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

import (
	"math"
	"reflect"
	"runtime"
	"sort"
	"strconv"
	"strings"
)

// idMsgFct stores the mapping between error codes and their message functions.
// This allows customizing error messages for specific codes.
var idMsgFct = make(map[CodeError]Message)

// Message is a function type that generates error messages based on error codes.
// It allows dynamic message generation or customization per error code.
type Message func(code CodeError) (message string)

// CodeError represents a numeric error code similar to HTTP status codes.
// It is a uint16 allowing codes from 0 to 65535.
// The only predefined code is UnknownError; packages reserve ranges in modules.go.
type CodeError uint16

const (
	// UnknownError represents an error with no specific code (0).
	// Used as a fallback when error code cannot be determined.
	UnknownError CodeError = 0

	// UnknownMessage is the default message for UnknownError.
	UnknownMessage = "unknown error"

	// NullMessage represents an empty error message.
	NullMessage = ""
)

// ParseCodeError returns a CodeError value based on the input int64 value.
// If the input value is negative, it returns UnknownError.
// If the input value is greater than or equal to math.MaxUint16, it returns math.MaxUint16.
// Otherwise, it returns the input value as a CodeError.
func ParseCodeError(i int64) CodeError {
	if i < 0 {
		return UnknownError
	} else if i >= int64(math.MaxUint16) {
		return math.MaxUint16
	} else {
		return CodeError(i)
	}
}

// NewCodeError returns a CodeError value based on the input uint16 value.
//
// It is a simple wrapper around the type conversion from uint16 to CodeError.
//
// The returned value is the same as the input uint16 value, but with a different type.
// This can be useful when interacting with functions or methods that expect or return a CodeError value.
func NewCodeError(code uint16) CodeError {
	return CodeError(code)
}

// Uint16 returns the CodeError value as a uint16.
//
// It is a simple wrapper around the type conversion from CodeError to uint16.
//
// The returned value is the same as the CodeError value, but with a different type.
// This can be useful when interacting with functions or methods that expect or return a uint16 value.
func (c CodeError) Uint16() uint16 {
	return uint16(c)
}

// Int returns the CodeError value as an int.
//
// It is a simple wrapper around the type conversion from CodeError to int.
//
// The returned value is the same as the CodeError value, but with a different type.
// This can be useful when interacting with functions or methods that expect or return an int value.
func (c CodeError) Int() int {
	return int(c)
}

// String returns a string representation of the CodeError value.
//
// The returned string is the same as the CodeError value, but with a different type.
// This can be useful when interacting with functions or methods that expect or return a string value.
func (c CodeError) String() string {
	return strconv.Itoa(c.Int())
}

// GetMessage returns the string representation of the CodeError value.
// Deprecated: see Message
func (c CodeError) GetMessage() string {
	return c.String()
}

// Message returns a string representation of the CodeError value.
// If the CodeError value is registered and not the UnknownError code,
// it returns the associated message string.
// Otherwise, it returns UnknownMessage.
func (c CodeError) Message() string {
	if c == UnknownError {
		return UnknownMessage
	}

	if f, ok := idMsgFct[findCodeErrorInMapMessage(c)]; ok {
		if m := f(c); m != "" {
			return m
		}
	}

	return UnknownMessage
}

// Error builds an Error carrying this code's registered message, chaining p as parents.
func (c CodeError) Error(p ...error) Error {
	return New(c.Uint16(), c.Message(), p...)
}

// Errorf is Error with the registered message treated as a fmt pattern for args.
// Extra args beyond the number of "%" verbs in the message are dropped.
func (c CodeError) Errorf(args ...interface{}) Error {
	m := c.Message()

	if !strings.Contains(m, "%") {
		return New(c.Uint16(), m)
	}

	if n := strings.Count(m, "%"); n < len(args) {
		return Newf(c.Uint16(), m, args[:n]...)
	} else {
		return Newf(c.Uint16(), m, args...)
	}
}

// IfError is Error, but returns nil unless e contains at least one non-nil cause.
func (c CodeError) IfError(e ...error) Error {
	return IfError(c.Uint16(), c.Message(), e...)
}

// GetCodePackages maps every registered CodeError to the source file its message
// function was declared in, relative to rootPackage. Useful for auditing which
// package owns which slice of the dirop/dirresp/direntry/... code ranges.
func GetCodePackages(rootPackage string) map[CodeError]string {
	var res = make(map[CodeError]string)

	for i, f := range idMsgFct {
		p := reflect.ValueOf(f).Pointer()
		n, _ := runtime.FuncForPC(p).FileLine(p)

		if strings.Contains(n, "/vendor/") {
			a := strings.SplitN(n, "/vendor/", 2)
			n = a[1]
		}

		if strings.Contains(n, rootPackage) {
			a := strings.SplitN(n, rootPackage, 2)
			n = a[1]
		}

		if !strings.HasPrefix(n, "/") {
			n = "/" + n
		}

		res[i] = n
	}

	return res
}

// RegisterIdFctMessage registers fct as the message function for every code >= minCode,
// up to the next registered minimum. Each package (dirop, dirresp, direntry, dirresult,
// config, ...) reserves its own MinPkg* floor in modules.go and calls this once in an init.
//
// Example:
//
//	func messages(code CodeError) string {
//	    switch code {
//	    case ErrBindRejected:
//	        return "bind rejected"
//	    default:
//	        return UnknownMessage
//	    }
//	}
//
//	RegisterIdFctMessage(MinPkgDirOp, messages)
func RegisterIdFctMessage(minCode CodeError, fct Message) {
	if idMsgFct == nil {
		idMsgFct = make(map[CodeError]Message)
	}

	idMsgFct[minCode] = fct
	orderMapMessage()
}

// ExistInMapMessage reports whether code resolves to a non-empty registered message.
func ExistInMapMessage(code CodeError) bool {
	if f, ok := idMsgFct[findCodeErrorInMapMessage(code)]; ok {
		if m := f(code); m != NullMessage {
			return true
		}
	}

	return false
}

func getMapMessageKey() []CodeError {
	var (
		keys = make([]int, 0)
		res  = make([]CodeError, 0)
	)

	for k := range idMsgFct {
		keys = append(keys, int(k.Uint16()))
	}

	sort.Ints(keys)

	for _, k := range keys {
		// prevent overflow
		var i CodeError
		if k < 0 {
			i = 0
		} else if k > math.MaxUint16 {
			i = math.MaxUint16
		} else {
			i = CodeError(k)
		}

		res = append(res, i)
	}

	return res
}

func orderMapMessage() {
	var res = make(map[CodeError]Message)

	for _, k := range getMapMessageKey() {
		res[k] = idMsgFct[k]
	}

	idMsgFct = res
}

func findCodeErrorInMapMessage(code CodeError) CodeError {
	var res CodeError = 0

	for _, k := range getMapMessageKey() {
		if k <= code && k > res {
			res = k
		}
	}

	return res
}

func isCodeInSlice(code CodeError, slice []CodeError) bool {
	for _, c := range slice {
		if c == code {
			return true
		}
	}

	return false
}

func unicCodeSlice(slice []CodeError) []CodeError {
	var res = make([]CodeError, 0)

	for _, c := range slice {
		if !isCodeInSlice(c, res) {
			res = append(res, c)
		}
	}

	return res
}
