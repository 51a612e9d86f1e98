package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

type Parser struct {
	md goldmark.Markdown
}

// NewParser renders goal text. Raw HTML in the source is dropped since goal
// text is user input.
func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			&frontmatter.Extender{},
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithXHTML(),
		),
	)

	return &Parser{
		md: md,
	}
}

func (p *Parser) Parse(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	err := p.md.Convert(source, &buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderString converts markdown to HTML, returning "" for empty input.
func (p *Parser) RenderString(source string) (string, error) {
	if source == "" {
		return "", nil
	}
	html, err := p.Parse([]byte(source))
	if err != nil {
		return "", err
	}
	return string(html), nil
}

// ParseWithFrontmatter renders source and decodes its YAML frontmatter into
// meta. found is false when the document has no frontmatter block.
func (p *Parser) ParseWithFrontmatter(source []byte, meta any) (content []byte, found bool, err error) {
	context := parser.NewContext()
	var buf bytes.Buffer

	err = p.md.Convert(source, &buf, parser.WithContext(context))
	if err != nil {
		return nil, false, err
	}

	data := frontmatter.Get(context)
	if data == nil {
		return buf.Bytes(), false, nil
	}

	err = data.Decode(meta)
	if err != nil {
		return nil, true, err
	}

	return buf.Bytes(), true, nil
}

// Body returns source without a leading "---" delimited frontmatter block.
func Body(source []byte) []byte {
	const delim = "---"

	rest, ok := cutLine(source)
	if !ok || string(bytes.TrimSpace(source[:len(source)-len(rest)])) != delim {
		return source
	}

	for len(rest) > 0 {
		next, _ := cutLine(rest)
		line := rest[:len(rest)-len(next)]
		if string(bytes.TrimSpace(line)) == delim {
			return next
		}
		rest = next
	}
	return source
}

// cutLine returns what follows the first newline in b.
func cutLine(b []byte) ([]byte, bool) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return nil, false
	}
	return b[i+1:], true
}
