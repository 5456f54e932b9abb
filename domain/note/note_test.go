package note

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNote(t *testing.T) {
	n, err := New("elevator pitch", "I build reliable backend systems", "")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(n.ID, "note_"))
	assert.Equal(t, "text", n.Type)

	_, err = New("", "content", "")
	assert.Error(t, err)
}

func TestText(t *testing.T) {
	n, err := New("portfolio", "https://example.dev", "url")
	require.NoError(t, err)

	assert.Equal(t, "Quick Note: portfolio\nhttps://example.dev", Text(n))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	n, err := New("label", "content", "code")
	require.NoError(t, err)

	env, err := Encode(n)
	require.NoError(t, err)
	assert.Equal(t, RecordType, env.RecordType)

	got, err := Decode(env)
	require.NoError(t, err)
	assert.Equal(t, n, got)
}
