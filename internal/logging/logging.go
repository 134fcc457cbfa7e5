// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logging provides the leveled stderr logger used throughout
// backport-bot. All diagnostic output goes to stderr so the tool stays
// pipeline-friendly; debug lines are suppressed unless requested.
package logging

import (
	"io"
	"log"
)

// Logger writes prefixed log lines to a single destination.
// Debug output is gated by the debug flag passed at construction.
type Logger struct {
	debug bool
	info  *log.Logger
	err   *log.Logger
	dbg   *log.Logger
}

// New creates a Logger writing to w. When debug is false, Debugf is a no-op.
func New(w io.Writer, debug bool) *Logger {
	return &Logger{
		debug: debug,
		info:  log.New(w, "INFO: ", 0),
		err:   log.New(w, "ERROR: ", 0),
		dbg:   log.New(w, "DEBUG: ", 0),
	}
}

// Infof logs an informational message.
func (l *Logger) Infof(format string, v ...interface{}) {
	l.info.Printf(format, v...)
}

// Errorf logs an error message.
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.err.Printf(format, v...)
}

// Debugf logs a verbose message. Suppressed unless the logger was created
// with debug enabled.
func (l *Logger) Debugf(format string, v ...interface{}) {
	if !l.debug {
		return
	}
	l.dbg.Printf(format, v...)
}
