package markdown

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PlainText extracts the visible text of an HTML fragment, collapsing
// whitespace. Code blocks, scripts and styles are skipped.
func PlainText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return collapseSpace(b.String())
		case html.StartTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Pre, atom.Script, atom.Style:
				skip++
			}
			if isBlock(atom.Lookup(name)) {
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Pre, atom.Script, atom.Style:
				if skip > 0 {
					skip--
				}
			}
			if isBlock(atom.Lookup(name)) {
				b.WriteByte(' ')
			}
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.Br {
				b.WriteByte(' ')
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Li, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Blockquote, atom.Tr, atom.Td, atom.Th, atom.Br, atom.Figcaption:
		return true
	}
	return false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Ellipsis is appended to truncated excerpts.
const Ellipsis = "…"

// Excerpt shortens text to at most max characters (runes), cutting at the
// last word boundary and appending Ellipsis when anything was removed.
// It never splits a multi-byte character.
func Excerpt(text string, max int) string {
	text = collapseSpace(text)
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	// Reserve room for the ellipsis.
	limit := max - utf8.RuneCountInString(Ellipsis)
	if limit <= 0 {
		return string([]rune(text)[:max])
	}
	cut := 0
	n := 0
	for i := range text {
		if n == limit {
			cut = i
			break
		}
		n++
	}
	head := text[:cut]
	// Prefer a word boundary when one exists in the head.
	if next, _ := utf8.DecodeRuneInString(text[cut:]); !unicode.IsSpace(next) {
		if sp := strings.LastIndexFunc(head, unicode.IsSpace); sp > 0 {
			head = head[:sp]
		}
	}
	head = strings.TrimRightFunc(head, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) && r != ')' && r != '"'
	})
	return head + Ellipsis
}
