package main

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Cycles)
	assert.Equal(t, formatText, cfg.Format)
	assert.False(t, cfg.DOT)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("STATEDEMO_CYCLES", "3")
	t.Setenv("STATEDEMO_FORMAT", "yaml")
	t.Setenv("STATEDEMO_DOT", "true")
	t.Setenv("STATEDEMO_LOG_LEVEL", "debug")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, config{Cycles: 3, Format: formatYAML, DOT: true, LogLevel: slog.LevelDebug}, cfg)
}

func TestLoadConfig_UnknownFormat(t *testing.T) {
	t.Setenv("STATEDEMO_FORMAT", "xml")

	_, err := loadConfig()
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadConfig_InvalidCycles(t *testing.T) {
	t.Setenv("STATEDEMO_CYCLES", "many")

	_, err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestLoadConfig_NegativeCycles(t *testing.T) {
	t.Setenv("STATEDEMO_CYCLES", "-1")

	_, err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycles must not be negative")
}

func TestRun_Transcript(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(&out, discardLogger(), config{Cycles: 1, Format: formatText}))

	assert.Equal(t, "Context: Transition to StateA.\n"+
		"StateA handles request1.\n"+
		"Context: Transition to StateB.\n"+
		"StateB handles request2.\n"+
		"Context: Transition to StateA.\n", out.String())
}

func TestRun_RepeatedCycles(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(&out, discardLogger(), config{Cycles: 4, Format: formatText}))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Len(t, lines, 1+4*4)
	assert.Equal(t, "Context: Transition to StateA.", lines[len(lines)-1])
}

func TestRun_YAMLWithDOT(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(&out, discardLogger(), config{Cycles: 2, Format: formatYAML, DOT: true}))

	s := out.String()
	require.True(t, strings.HasPrefix(s, "digraph StatePattern {"))
	assert.NotContains(t, s, "handles request")

	doc := s[strings.Index(s, "}\n")+2:]
	var transcript struct {
		Transitions []map[string]any `yaml:"transitions"`
		Final       string           `yaml:"final"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(doc), &transcript))
	assert.Len(t, transcript.Transitions, 5)
	assert.Equal(t, "StateA", transcript.Final)
}

func TestRun_LogsTransitions(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	require.NoError(t, run(io.Discard, logger, config{Cycles: 1, Format: formatText}))

	assert.Equal(t, 3, strings.Count(logs.String(), "msg=\"state transition\""))
	assert.Contains(t, logs.String(), "msg=\"context closed\"")
}
