package fsadapter

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

// Frontmatter is the optional yaml header of a course description file.
type Frontmatter struct {
	Title  string `yaml:"title"`
	Author string `yaml:"author"`
}

type descriptionRenderer struct {
	md goldmark.Markdown
}

func newDescriptionRenderer() *descriptionRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			&frontmatter.Extender{},
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	return &descriptionRenderer{md: md}
}

// Render converts markdown to HTML and returns the decoded frontmatter, if
// the source has one.
func (r *descriptionRenderer) Render(src []byte) (string, *Frontmatter, error) {
	var buf bytes.Buffer

	pc := parser.NewContext()
	if err := r.md.Convert(src, &buf, parser.WithContext(pc)); err != nil {
		return "", nil, fmt.Errorf("cannot convert markdown: %w", err)
	}

	data := frontmatter.Get(pc)
	if data == nil {
		return buf.String(), nil, nil
	}

	var fm Frontmatter
	if err := data.Decode(&fm); err != nil {
		return "", nil, fmt.Errorf("cannot decode frontmatter: %w", err)
	}

	return buf.String(), &fm, nil
}
