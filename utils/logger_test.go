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

package utils

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel(" warning "))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel(""))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("bogus"))
}

func TestTextFormatter(t *testing.T) {
	f := &TextFormatter{LoggerName: "DATABASE", NameWidth: 10, NoColor: true}
	entry := logrus.NewEntry(logrus.New()).WithFields(logrus.Fields{"b": 2, "a": 1})
	entry.Message = "hello"
	entry.Level = logrus.InfoLevel

	out, err := f.Format(entry)
	require.NoError(t, err)
	line := string(out)
	assert.Contains(t, line, "   INFO")
	assert.Contains(t, line, "  DATABASE : hello a=1 b=2\n")
}

func TestLoggerRegistry(t *testing.T) {
	var buf bytes.Buffer
	ConfigureOutput(&buf)
	l := NewLogger("REGTEST")
	assert.Same(t, l, GetLogger("REGTEST"))

	assert.True(t, SetLoggerLevel("REGTEST", "error"))
	assert.False(t, SetLoggerLevel("missing", "error"))

	l.Info("dropped")
	l.Error("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("UTILS_TEST_BOOL", "true")
	t.Setenv("UTILS_TEST_BAD", "maybe")
	assert.True(t, EnvDefaultBool("UTILS_TEST_BOOL", false))
	assert.True(t, EnvDefaultBool("UTILS_TEST_BAD", true))
	assert.Equal(t, "x", EnvDefaultString("UTILS_TEST_UNSET", "x"))
}

func TestJSONLoggerAndGlobalLevel(t *testing.T) {
	var buf bytes.Buffer
	ConfigureOutput(&buf)
	ConfigureConsoleLogFormat("JSON")
	defer ConfigureConsoleLogFormat("text")

	l := NewLogger("JSONTEST")
	SetAllLoggersLevel("warn")
	defer SetAllLoggersLevel("info")

	l.Info("dropped")
	l.WithField("table", "users").Warn("kept")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "users", entry["table"])
	assert.Equal(t, "JSONTEST", entry["logger"])
}
