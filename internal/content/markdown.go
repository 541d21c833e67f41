package content

import (
	"bytes"
	"fmt"
	"html/template"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const defaultMarkdownCacheSize = 128

// Renderer turns markdown snippets (bio, project descriptions) into HTML.
// Content is static, so rendered output is cached by source text.
type Renderer struct {
	md    goldmark.Markdown
	cache *lru.Cache[string, template.HTML]
}

// NewRenderer creates a renderer with an LRU of the given size
// (defaultMarkdownCacheSize when size <= 0).
func NewRenderer(size int) (*Renderer, error) {
	if size <= 0 {
		size = defaultMarkdownCacheSize
	}
	cache, err := lru.New[string, template.HTML](size)
	if err != nil {
		return nil, fmt.Errorf("markdown cache: %w", err)
	}
	return &Renderer{
		md:    goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough)),
		cache: cache,
	}, nil
}

// Render converts src to HTML. Raw HTML in src is dropped since goldmark's
// unsafe mode stays off.
func (r *Renderer) Render(src string) (template.HTML, error) {
	if out, ok := r.cache.Get(src); ok {
		return out, nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	out := template.HTML(buf.String())
	r.cache.Add(src, out)
	return out, nil
}

// MustRender is the template helper; failures render the escaped source.
func (r *Renderer) MustRender(src string) template.HTML {
	out, err := r.Render(src)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return out
}

// Cached reports how many snippets are held.
func (r *Renderer) Cached() int { return r.cache.Len() }
