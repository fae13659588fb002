/*
 * Copyright 2025 tomoncle.
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

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/uptrace/bun"
)

var silent atomic.Bool

// EnableBunSqlSilent mutes QueryHook and SlowQueryHook, e.g. during table creation.
func EnableBunSqlSilent(b bool) {
	silent.Store(b)
}

var operationColors = map[string]*color.Color{
	"SELECT": color.New(color.FgGreen),
	"INSERT": color.New(color.FgBlue),
	"UPDATE": color.New(color.FgYellow),
	"DELETE": color.New(color.FgMagenta),
	"BEGIN":  color.New(color.FgCyan),
	"COMMIT": color.New(color.FgCyan),
}

func operationColor(event *bun.QueryEvent) *color.Color {
	if c, ok := operationColors[event.Operation()]; ok {
		return c
	}
	return color.New(color.FgRed)
}

// QueryHook prints every query coloured by operation. The environment
// variable named by EnvName overrides Enabled ("0" off, "2" verbose).
type QueryHook struct {
	EnvName string
	Enabled bool
	Verbose bool
	Writer  io.Writer
}

var _ bun.QueryHook = (*QueryHook)(nil)

// NewQueryHook returns an enabled QueryHook writing to stdout and
// controlled by the DABAS_SQL environment variable.
func NewQueryHook() *QueryHook {
	return &QueryHook{EnvName: "DABAS_SQL", Enabled: true, Writer: os.Stdout}
}

func (h *QueryHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *QueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if silent.Load() {
		return
	}
	enabled, verbose := h.Enabled, h.Verbose
	if env, ok := os.LookupEnv(h.EnvName); ok && h.EnvName != "" {
		enabled = env != "" && env != "0"
		verbose = env == "2"
	}
	if !enabled {
		return
	}
	// non-verbose mode only reports failures
	if !verbose {
		switch {
		case event.Err == nil, errors.Is(event.Err, sql.ErrNoRows), errors.Is(event.Err, sql.ErrTxDone):
			return
		}
	}

	now := time.Now()
	args := []interface{}{
		now.Format("2006-01-02 15:04:05.000"),
		color.CyanString("%10s", "[DABAS]"),
		fmt.Sprintf("%12s", now.Sub(event.StartTime).Round(time.Microsecond)),
		" ", operationColor(event).Sprint(event.Query),
	}
	if event.Err != nil {
		_, kind := IsSqlError(event.Err)
		args = append(args, "\t", color.New(color.BgRed).Sprintf(" %s: %s ", kind, event.Err.Error()))
	}
	_, _ = fmt.Fprintln(h.Writer, args...)
}

// SlowQueryHook warns through Logger about successful queries slower than SlowTime.
type SlowQueryHook struct {
	SlowTime time.Duration
	Logger   Logger
}

var _ bun.QueryHook = (*SlowQueryHook)(nil)

func (h *SlowQueryHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *SlowQueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if silent.Load() || event.Err != nil || h.Logger == nil {
		return
	}
	duration := time.Since(event.StartTime)
	if duration > h.SlowTime {
		h.Logger.Warn("Database slow query detected",
			"duration", duration,
			"slow_threshold", h.SlowTime,
			"operation", event.Operation(),
			"query", event.Query,
		)
	}
}
