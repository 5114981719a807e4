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

// Package dirlog is a small structured-logging facade over
// github.com/sirupsen/logrus, in the style of the teacher's logger
// package (an Entry carrying fields, built up with FieldAdd, emitted at
// a level). Every component that would have guarded a debug statement
// with the original's "#ifdef NEW_LOGGING" goes through here instead of
// calling fmt.Println or the log package directly.
package dirlog

import (
	"github.com/sirupsen/logrus"
)

// Entry wraps a logrus.Entry, accumulating fields with FieldAdd before a
// terminal Trace/Debug/Error/etc. call.
type Entry struct {
	e *logrus.Entry
}

// New returns an Entry bound to logger (pass nil to use logrus's
// standard logger).
func New(logger *logrus.Logger) *Entry {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Entry{e: logrus.NewEntry(logger)}
}

// FieldAdd returns a new Entry with one more structured field, mirroring
// the chained-builder style of the teacher's logger.Entry.
func (n *Entry) FieldAdd(key string, value interface{}) *Entry {
	return &Entry{e: n.e.WithField(key, value)}
}

// Trace logs connection/operation entry-exit events, the level the
// original reserves for its most frequent, most disposable statements.
func (n *Entry) Trace(msg string) {
	n.e.Trace(msg)
}

// Debug logs connection-state transitions.
func (n *Entry) Debug(msg string) {
	n.e.Debug(msg)
}

// Error logs encoding or write failures.
func (n *Entry) Error(msg string) {
	n.e.Error(msg)
}

// Errorf is the formatted variant of Error.
func (n *Entry) Errorf(format string, args ...interface{}) {
	n.e.Errorf(format, args...)
}

// Warnf logs a formatted warning, used for conditions that are not
// failures but deserve operator attention (e.g. a write-ready wait that
// ran long).
func (n *Entry) Warnf(format string, args ...interface{}) {
	n.e.Warnf(format, args...)
}
