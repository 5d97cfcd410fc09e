package htmlutil

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blockElements = map[atom.Atom]bool{
	atom.Address:    true,
	atom.Article:    true,
	atom.Blockquote: true,
	atom.Dd:         true,
	atom.Div:        true,
	atom.Dl:         true,
	atom.Dt:         true,
	atom.Fieldset:   true,
	atom.Figure:     true,
	atom.Footer:     true,
	atom.Form:       true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Header:     true,
	atom.Hr:         true,
	atom.Li:         true,
	atom.Ol:         true,
	atom.P:          true,
	atom.Pre:        true,
	atom.Section:    true,
	atom.Table:      true,
	atom.Tr:         true,
	atom.Ul:         true,
}

var sourceBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

var skippedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
}

type textBuilder struct {
	strings.Builder
}

func (b *textBuilder) atLineStart() bool {
	s := strings.TrimRight(b.String(), " \t")
	return s == "" || strings.HasSuffix(s, "\n")
}

// softBreak ends the current line unless it is already ended.
func (b *textBuilder) softBreak() {
	if !b.atLineStart() {
		b.WriteByte('\n')
	}
}

// renderText writes the text of `node`, source line breaks only survive inside <pre>.
func renderText(node *html.Node, b *textBuilder, pre bool) {
	switch node.Type {
	case html.TextNode:
		if strings.TrimSpace(node.Data) == "" && b.atLineStart() {
			return
		}
		if pre {
			b.WriteString(node.Data)
			return
		}
		b.WriteString(sourceBreaks.Replace(node.Data))
		return
	case html.ElementNode:
		if skippedElements[node.DataAtom] {
			return
		}
		if node.DataAtom == atom.Br {
			b.WriteByte('\n')
			return
		}
	}

	block := node.Type == html.ElementNode && blockElements[node.DataAtom]
	if block {
		b.softBreak()
	}
	pre = pre || node.DataAtom == atom.Pre
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		renderText(child, b, pre)
	}
	if block {
		b.softBreak()
	}
}

var innerWhitespace = regexp.MustCompile(`[ \t\r\f\v\x{00a0}]+`)

func removeNonPrintable(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || unicode.IsPrint(r) {
			return r
		}
		if unicode.IsSpace(r) {
			return ' '
		}
		return -1
	}, s)
}

// NormalizeLine collapses inner whitespace and trims a single line of text.
func NormalizeLine(line string) string {
	line = removeNonPrintable(line)
	line = innerWhitespace.ReplaceAllString(line, " ")
	return strings.TrimSpace(line)
}

// RenderedText returns the text of a node roughly the way a browser lays it out:
// <br> and block boundaries become line breaks, every line is whitespace-collapsed
// and trimmed, and blank lines at the edges are dropped.
func RenderedText(node *html.Node) string {
	if node == nil {
		return ""
	}
	var b textBuilder
	renderText(node, &b, false)

	lines := strings.Split(strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = NormalizeLine(l)
	}

	start := 0
	for start < len(lines) && lines[start] == "" {
		start++
	}
	end := len(lines)
	for end > start && lines[end-1] == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

// ResolveUrl resolves `ref` against `base`, returning false when `ref` is empty or
// cannot be parsed.
func ResolveUrl(base *url.URL, ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	if base == nil {
		return parsed.String(), true
	}
	return base.ResolveReference(parsed).String(), true
}
