package captcha

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code := RandomCode(DefaultLength)
		require.Len(t, code, DefaultLength)
		seen := map[rune]bool{}
		for _, c := range code {
			assert.True(t, strings.ContainsRune(Alphabet, c))
			assert.False(t, seen[c], "duplicated char in %s", code)
			seen[c] = true
		}
	}
}

func TestEveryCharHasGlyph(t *testing.T) {
	for i := 0; i < len(Alphabet); i++ {
		_, ok := glyphs[Alphabet[i]]
		assert.True(t, ok, "missing glyph %q", Alphabet[i])
	}
	assert.NotContains(t, Alphabet, "0")
	assert.NotContains(t, Alphabet, "O")
	assert.NotContains(t, Alphabet, "I")
	assert.NotContains(t, Alphabet, "1")
}

func TestGenerate(t *testing.T) {
	c, err := Generate(4)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(c.Image, []byte("\x89PNG")))
	assert.NotEmpty(t, c.Base64())
}

func TestRenderUnsupported(t *testing.T) {
	_, err := RenderSVG("0")
	assert.Error(t, err)
}

func TestMatch(t *testing.T) {
	assert.True(t, Match("AbC4", "abc4"))
	assert.False(t, Match("", ""))
	assert.False(t, Match("AB", "AC"))
}
