package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Original number of features: 4", lines[0])
	assert.Equal(t, "Reduced number of features: 1", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Explained variance ratio: [0.991"), lines[2])
}
