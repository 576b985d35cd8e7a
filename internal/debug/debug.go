/*
 * Copyright 2025 SREDiag Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package debug is the module's internal leveled logger. It is used off the
// hot path only; atomic operations themselves never log.
package debug

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"time"
)

type logger struct {
	out       io.Writer
	callDepth int
}

var (
	std   = &logger{os.Stderr, 3}
	level int

	green  = string([]byte{27, 91, 57, 50, 109}) // Debug
	blue   = string([]byte{27, 91, 57, 52, 109}) // Info
	yellow = string([]byte{27, 91, 57, 51, 109}) // Warn
	red    = string([]byte{27, 91, 57, 49, 109}) // Error
	reset  = string([]byte{27, 91, 48, 109})

	colors    = []string{green, blue, yellow, red}
	levelName = []string{"Debug", "Info", "Warn", "Error"}
)

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
	levelNoPrint
)

func init() {
	level = levelWarn
	if s := os.Getenv("ATOMICVAL_LOG_LEVEL"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n <= levelNoPrint {
			level = n
		}
	}
}

// SetLogLevel changes the logger's level; the default is Warn. The process
// env `ATOMICVAL_LOG_LEVEL` sets the same knob.
func SetLogLevel(l int) {
	if l <= levelNoPrint {
		level = l
	}
}

// SetOutput redirects log output, for tests.
func SetOutput(w io.Writer) {
	if w != nil {
		std.out = w
	}
}

func Debugf(format string, a ...interface{}) { std.printf(levelDebug, format, a...) }
func Infof(format string, a ...interface{})  { std.printf(levelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { std.printf(levelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { std.printf(levelError, format, a...) }

func (l *logger) printf(lv int, format string, a ...interface{}) {
	if level > lv {
		return
	}
	if _, err := fmt.Fprintf(l.out, l.prefix(lv)+format+reset+"\n", a...); err != nil {
		fmt.Fprintf(os.Stderr, "debug logger write failed: %v\n", err)
	}
}

func (l *logger) prefix(lv int) string {
	var buffer [64]byte
	buf := bytes.NewBuffer(buffer[:0])
	_, _ = buf.WriteString(colors[lv])
	_, _ = buf.WriteString(levelName[lv])
	_ = buf.WriteByte(' ')
	_, _ = buf.WriteString(time.Now().Format("2006-01-02 15:04:05.999999"))
	_ = buf.WriteByte(' ')
	_, _ = buf.WriteString(l.location())
	_ = buf.WriteByte(' ')
	return buf.String()
}

func (l *logger) location() string {
	_, file, line, ok := runtime.Caller(l.callDepth)
	if !ok {
		return "???:0"
	}
	short := file
	for i := len(file) - 1; i > 0; i-- {
		if file[i] == '/' {
			short = file[i+1:]
			break
		}
	}
	return short + ":" + strconv.Itoa(line)
}
