package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"ipne/internal/stage"
)

func TestRunPrintsLevels(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(&out, "", 1, 3, 2, zaptest.NewLogger(t)))

	text := out.String()
	assert.Equal(t, 2, strings.Count(text, "stage 1"))
	assert.Contains(t, text, "@")
	assert.Contains(t, text, "G")
	assert.Contains(t, text, "rooms=")
}

func TestRunDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, run(&a, "", 2, 9, 1, zaptest.NewLogger(t)))
	require.NoError(t, run(&b, "", 2, 9, 1, zaptest.NewLogger(t)))
	assert.Equal(t, a.String(), b.String())
}

func TestRunBadStage(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, "", 9, 1, 1, zaptest.NewLogger(t))
	assert.ErrorIs(t, err, stage.ErrInvalidStage)
}

func TestRunCustomTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stages: []\n"), 0o644))
	var out bytes.Buffer
	err := run(&out, path, 1, 1, 1, zaptest.NewLogger(t))
	assert.ErrorIs(t, err, stage.ErrInvalidStage)
}
