package translation

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLTranslator translates the text nodes of an HTML fragment and leaves
// the markup alone. Whitespace around each text node is preserved and
// script/style contents are skipped. A node the wrapped translator fails on
// keeps its source text; Translate only fails when every node failed.
type HTMLTranslator struct {
	Next Translator
}

// Translate implements Translator. Input without markup goes straight to
// the wrapped translator.
func (h HTMLTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if !strings.Contains(text, "<") {
		return h.Next.Translate(ctx, text, source, target)
	}

	parent := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(text), parent)
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	var w treeWalk
	for _, n := range nodes {
		h.translateTree(ctx, n, source, target, &w)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if w.failed > 0 && w.translated == 0 {
		return "", fmt.Errorf("translating %d text nodes: %w", w.failed, w.lastErr)
	}

	var b strings.Builder
	for _, n := range nodes {
		if err := html.Render(&b, n); err != nil {
			return "", fmt.Errorf("rendering html: %w", err)
		}
	}
	return b.String(), nil
}

type treeWalk struct {
	translated int
	failed     int
	lastErr    error
}

func (h HTMLTranslator) translateTree(ctx context.Context, n *html.Node, source, target string, w *treeWalk) {
	if ctx.Err() != nil {
		return
	}
	if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
		return
	}

	if n.Type == html.TextNode {
		lead, core, trail := splitSpace(n.Data)
		if !needsTranslation(core) {
			return
		}
		out, err := h.Next.Translate(ctx, core, source, target)
		if err != nil {
			w.failed++
			w.lastErr = err
			return
		}
		w.translated++
		n.Data = lead + out + trail
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		h.translateTree(ctx, c, source, target, w)
	}
}

// splitSpace splits s into leading whitespace, the trimmed text and
// trailing whitespace.
func splitSpace(s string) (lead, core, trail string) {
	core = strings.TrimLeftFunc(s, unicode.IsSpace)
	lead = s[:len(s)-len(core)]
	trimmed := strings.TrimRightFunc(core, unicode.IsSpace)
	trail = core[len(trimmed):]
	return lead, trimmed, trail
}
