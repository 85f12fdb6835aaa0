package storage

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizedBodySeeker(t *testing.T) {
	r := bytes.NewReader([]byte("0123456789"))
	_, err := r.Seek(4, io.SeekStart)
	require.NoError(t, err)

	body, size, err := sizedBody(r)
	require.NoError(t, err)
	assert.Equal(t, int64(6), size)

	rest, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "456789", string(rest))
}

func TestSizedBodyStream(t *testing.T) {
	body, size, err := sizedBody(io.LimitReader(strings.NewReader("hello world"), 5))
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	got, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestPublicURL(t *testing.T) {
	s := &CloudflareStorage{publicURL: "https://cdn.example.com"}
	assert.Equal(t, "https://cdn.example.com/images/a.png", s.PublicURL("/images/a.png"))
	assert.Equal(t, "https://cdn.example.com/images/a.png", s.PublicURL("images/a.png"))
}
