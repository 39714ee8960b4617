package ui

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressWriter(t *testing.T) {
	var dst, out bytes.Buffer
	pw := NewProgressWriter(&dst, &out, 11, "downloading")

	n, err := io.Copy(pw, strings.NewReader("hello world"))
	require.NoError(t, err)
	assert.Equal(t, int64(11), n)
	require.NoError(t, pw.Close())

	assert.Equal(t, "hello world", dst.String())
	assert.Contains(t, out.String(), "downloading")
}

func TestProgressWriter_UnknownLength(t *testing.T) {
	var dst bytes.Buffer
	pw := NewProgressWriter(&dst, io.Discard, -1, "downloading")

	_, err := pw.Write([]byte("abc"))
	require.NoError(t, err)
	require.NoError(t, pw.Close())
	assert.Equal(t, "abc", dst.String())
}
