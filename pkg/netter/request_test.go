package netter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGET(t *testing.T) {
	d, err := Build(GET)
	require.NoError(t, err)

	assert.Equal(t, GET, d.Method())
	assert.Equal(t, map[string]string{
		"Accept":       "application/json",
		"Content-Type": "application/x-www-form-urlencoded",
	}, d.Headers())
	assert.Nil(t, d.Body())
}

func TestBuildPOST(t *testing.T) {
	d, err := Build(POST)
	require.NoError(t, err)

	assert.Equal(t, POST, d.Method())
	assert.Equal(t, map[string]string{
		"Accept":       "application/json",
		"Content-Type": "multipart/form-data",
	}, d.Headers())
}

func TestBuildIsIdempotent(t *testing.T) {
	for _, m := range []Method{GET, POST} {
		a, err := Build(m)
		require.NoError(t, err)
		b, err := Build(m)
		require.NoError(t, err)

		assert.Equal(t, a.Method(), b.Method())
		assert.Equal(t, a.Headers(), b.Headers())
	}
}

func TestBuildRejectsUnknownMethod(t *testing.T) {
	for _, m := range []Method{"", "PUT", "get", "DELETE"} {
		d, err := Build(m)
		require.Error(t, err, "method %q", m)
		assert.True(t, errors.Is(err, ErrInvalidMethod))
		assert.True(t, d.IsZero())
	}
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod(" post ")
	require.NoError(t, err)
	assert.Equal(t, POST, m)

	m, err = ParseMethod("get")
	require.NoError(t, err)
	assert.Equal(t, GET, m)

	_, err = ParseMethod("PATCH")
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestDescriptorHeadersAreCopies(t *testing.T) {
	d, err := Build(GET)
	require.NoError(t, err)

	h := d.Headers()
	h["Accept"] = "text/html"
	h["X-Extra"] = "1"

	assert.Equal(t, "application/json", d.Header("Accept"))
	assert.Len(t, d.Headers(), 2)
}

func TestDescriptorWithBodyLeavesOriginal(t *testing.T) {
	d, err := Build(POST)
	require.NoError(t, err)

	body := []byte("a=1")
	withBody := d.WithBody(body)
	body[0] = 'b'

	assert.Nil(t, d.Body())
	assert.Equal(t, []byte("a=1"), withBody.Body())
	assert.Equal(t, d.Headers(), withBody.Headers())
	assert.Equal(t, POST, withBody.Method())
}
