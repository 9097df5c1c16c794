package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func TestJSONCodec(t *testing.T) {
	c := NewJSONCodec()
	assert.Equal(t, "json", c.Name())

	b, err := c.Marshal(note{Subject: "physics", Body: "# Kinematics"})
	require.NoError(t, err)
	assert.Equal(t, `{"subject":"physics","body":"# Kinematics"}`, string(b))

	var out note
	require.NoError(t, c.Unmarshal(b, &out))
	assert.Equal(t, "physics", out.Subject)
}

func TestZstdCodecShrinksRepetitiveContent(t *testing.T) {
	c, err := NewZstdCodec(nil)
	require.NoError(t, err)
	defer c.Close()

	body := strings.Repeat("Newton's laws of motion. ", 400)
	plain, err := NewJSONCodec().Marshal(note{Body: body})
	require.NoError(t, err)

	packed, err := c.Marshal(note{Body: body})
	require.NoError(t, err)
	assert.Less(t, len(packed), len(plain))

	var out note
	require.NoError(t, c.Unmarshal(packed, &out))
	assert.Equal(t, body, out.Body)
}

func TestZstdStringEncoding(t *testing.T) {
	c, err := NewZstdCodec(nil)
	require.NoError(t, err)
	defer c.Close()

	s, err := c.EncodeToString([]string{"a", "b"})
	require.NoError(t, err)
	assert.True(t, IsCompressed(s))

	var out []string
	require.NoError(t, c.DecodeString(s, &out))
	assert.Equal(t, []string{"a", "b"}, out)

	assert.Error(t, c.DecodeString(`{"data":1}`, &out))
	assert.Error(t, c.DecodeString(ZstdPrefix+"!!!", &out))
}
