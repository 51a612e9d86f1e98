package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderString(t *testing.T) {
	p := NewParser()

	html, err := p.RenderString("")
	require.NoError(t, err)
	assert.Empty(t, html)

	html, err = p.RenderString("**SubhanAllah**\nwa bihamdihi")
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>SubhanAllah</strong>")
	assert.Contains(t, html, "<br />")

	html, err = p.RenderString("<script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestParseWithFrontmatter(t *testing.T) {
	p := NewParser()
	source := []byte("---\nname: Tasbih\ndaily_limit: 33\n---\nSubhanAllah\n")

	var meta struct {
		Name       string `yaml:"name"`
		DailyLimit int    `yaml:"daily_limit"`
	}
	html, found, err := p.ParseWithFrontmatter(source, &meta)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Tasbih", meta.Name)
	assert.Equal(t, 33, meta.DailyLimit)
	assert.Contains(t, string(html), "SubhanAllah")
	assert.NotContains(t, string(html), "daily_limit")

	_, found, err = p.ParseWithFrontmatter([]byte("no frontmatter"), &meta)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBody(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"with frontmatter", "---\nname: x\n---\nbody\nmore", "body\nmore"},
		{"closing delimiter at eof", "---\nname: x\n---", ""},
		{"no frontmatter", "just text", "just text"},
		{"unterminated", "---\nname: x\nbody", "---\nname: x\nbody"},
		{"crlf", "---\r\nname: x\r\n---\r\nbody", "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(Body([]byte(tt.source))))
		})
	}
}
