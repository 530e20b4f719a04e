/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	gologging "github.com/op/go-logging"

	"dirpx.dev/modalias/apis"
)

// Module is the go-logging module name used by the engine.
const Module = "modalias"

// EnvLevel overrides the default level, e.g. MODALIAS_LOG_LEVEL=DEBUG.
const EnvLevel = "MODALIAS_LOG_LEVEL"

var format = gologging.MustStringFormatter(
	`%{time:15:04:05.000} %{level:.6s} ▶ %{module} %{message}`,
)

// Logger writes leveled diagnostics through go-logging and mirrors every
// enabled record onto the event channel as an apis.EventLog notification.
type Logger struct {
	log          *gologging.Logger
	leveled      gologging.LeveledBackend
	module       string
	defaultLevel gologging.Level
	emitter      apis.Emitter
}

// Ensure Logger implements apis.Logger.
var _ apis.Logger = (*Logger)(nil)

// New constructs a Logger writing to w (stderr when nil). Events go to
// emitter when it is not nil.
func New(w io.Writer, emitter apis.Emitter) *Logger {
	if w == nil {
		w = os.Stderr
	}
	backend := gologging.NewLogBackend(w, "", 0)
	leveled := gologging.AddModuleLevel(gologging.NewBackendFormatter(backend, format))
	l := &Logger{
		log:          gologging.MustGetLogger(Module),
		leveled:      leveled,
		module:       Module,
		defaultLevel: levelFromEnv(gologging.WARNING),
		emitter:      emitter,
	}
	l.log.SetBackend(leveled)
	l.log.ExtraCalldepth = 2
	leveled.SetLevel(l.defaultLevel, l.module)
	return l
}

// SetDebug switches between DEBUG and the default level.
func (l *Logger) SetDebug(debug bool) {
	if debug {
		l.leveled.SetLevel(gologging.DEBUG, l.module)
		return
	}
	l.leveled.SetLevel(l.defaultLevel, l.module)
}

// IsDebug reports whether debug records are written.
func (l *Logger) IsDebug() bool {
	return l.leveled.IsEnabledFor(gologging.DEBUG, l.module)
}

func (l *Logger) Debug(msg string, kv ...any) { l.write(gologging.DEBUG, msg, kv) }
func (l *Logger) Info(msg string, kv ...any)  { l.write(gologging.INFO, msg, kv) }
func (l *Logger) Warn(msg string, kv ...any)  { l.write(gologging.WARNING, msg, kv) }
func (l *Logger) Error(msg string, kv ...any) { l.write(gologging.ERROR, msg, kv) }

func (l *Logger) write(level gologging.Level, msg string, kv []any) {
	if !l.leveled.IsEnabledFor(level, l.module) {
		return
	}
	fields := toFields(kv)
	line := msg + formatFields(kv)
	switch level {
	case gologging.DEBUG:
		l.log.Debug(line)
	case gologging.INFO:
		l.log.Info(line)
	case gologging.WARNING:
		l.log.Warning(line)
	default:
		l.log.Error(line)
	}
	if l.emitter != nil {
		l.emitter.Emit(apis.Event{Kind: apis.EventLog, Level: level.String(), Message: msg, Fields: fields})
	}
}

func toFields(kv []any) map[string]any {
	if len(kv) == 0 {
		return nil
	}
	fields := make(map[string]any, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 < len(kv) {
			fields[key] = kv[i+1]
		} else {
			fields[key] = nil
		}
	}
	return fields
}

func formatFields(kv []any) string {
	if len(kv) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := 0; i < len(kv); i += 2 {
		sb.WriteByte(' ')
		fmt.Fprint(&sb, kv[i])
		sb.WriteByte('=')
		if i+1 < len(kv) {
			fmt.Fprintf(&sb, "%v", kv[i+1])
		}
	}
	return sb.String()
}

func levelFromEnv(fallback gologging.Level) gologging.Level {
	raw := strings.TrimSpace(os.Getenv(EnvLevel))
	if raw == "" {
		return fallback
	}
	level, err := gologging.LogLevel(raw)
	if err != nil {
		return fallback
	}
	return level
}
