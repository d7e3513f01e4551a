// Package markdown derives the searchable projections of a note from its
// Markdown source: the title (first top-level heading) and the plain text.
package markdown

import (
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Derived holds the values recomputed on every save.
type Derived struct {
	Title     string
	PlainText string
}

// Empty reports whether the content has no visible text. Empty content is
// never persisted.
func (d Derived) Empty() bool {
	return d.PlainText == ""
}

type Deriver struct {
	md goldmark.Markdown
}

func NewDeriver() *Deriver {
	return &Deriver{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

// Derive parses content once and extracts both projections.
func (d *Deriver) Derive(content string) Derived {
	src := []byte(content)
	doc := d.md.Parser().Parse(text.NewReader(src))

	title := ""
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			title = plainText(h, src)
			break
		}
	}
	if title == "" {
		title = common.NoTitle
	}

	return Derived{Title: title, PlainText: plainText(doc, src)}
}

func plainText(root ast.Node, src []byte) string {
	var b strings.Builder

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}

		switch v := n.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(v.Value)
		case *ast.AutoLink:
			b.Write(v.Label(src))
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(src))
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}
