package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestToHTMLHeadings(t *testing.T) {
	c := New()
	tests := []struct {
		input    string
		expected string
	}{
		{"# Heading 1", `<h1 id="heading-1">Heading 1</h1>`},
		{"## Heading 2", `<h2 id="heading-2">Heading 2</h2>`},
		{"### Heading 3", `<h3 id="heading-3">Heading 3</h3>`},
	}
	for _, tt := range tests {
		got, err := c.ToHTML([]byte(tt.input))
		if err != nil {
			t.Fatalf("ToHTML(%q) failed: %v", tt.input, err)
		}
		if strings.TrimSpace(got) != tt.expected {
			t.Errorf("ToHTML(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestToHTMLInline(t *testing.T) {
	c := New()
	tests := []struct {
		input    string
		contains string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"use `fmt.Println` here", "<code>fmt.Println</code>"},
		{"~~gone~~", "<del>gone</del>"},
	}
	for _, tt := range tests {
		got, err := c.ToHTML([]byte(tt.input))
		if err != nil {
			t.Fatalf("ToHTML(%q) failed: %v", tt.input, err)
		}
		if !strings.Contains(got, tt.contains) {
			t.Errorf("ToHTML(%q) = %q, want it to contain %q", tt.input, got, tt.contains)
		}
	}
}

func TestToHTMLList(t *testing.T) {
	got, err := New().ToHTML([]byte("- item 1\n- item 2"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<ul>", "<li>item 1</li>", "<li>item 2</li>", "</ul>"} {
		if !strings.Contains(got, want) {
			t.Errorf("list output %q missing %q", got, want)
		}
	}
}

func TestToHTMLTable(t *testing.T) {
	input := "| a | b |\n|---|---|\n| 1 | 2 |"
	got, err := New().ToHTML([]byte(input))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "<table>") || !strings.Contains(got, "<td>1</td>") {
		t.Errorf("table output = %q", got)
	}
}

func TestToHTMLCodeBlockHighlighted(t *testing.T) {
	input := "```go\nfmt.Println(1)\n```"
	got, err := New().ToHTML([]byte(input))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `class="chroma"`) {
		t.Errorf("code block should carry chroma classes: %q", got)
	}
	if strings.Contains(got, "style=") {
		t.Errorf("code block should not use inline styles: %q", got)
	}
	if !strings.Contains(got, "Println") {
		t.Errorf("code block missing content: %q", got)
	}
}

func TestToHTMLStripsScripts(t *testing.T) {
	input := "hello <script>alert(1)</script> world"
	got, err := New().ToHTML([]byte(input))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "<script") || strings.Contains(got, "alert(1)") {
		t.Errorf("script survived sanitizing: %q", got)
	}
	if !strings.Contains(got, "hello") || !strings.Contains(got, "world") {
		t.Errorf("text around script lost: %q", got)
	}
}

func TestToHTMLUnsafeLinks(t *testing.T) {
	tests := []struct {
		input   string
		allowed bool
	}{
		{"[ok](https://example.com)", true},
		{"[rel](/about)", true},
		{"[mail](mailto:me@example.com)", true},
		{"[bad](javascript:alert(1))", false},
	}
	c := New()
	for _, tt := range tests {
		got, err := c.ToHTML([]byte(tt.input))
		if err != nil {
			t.Fatal(err)
		}
		hasHref := strings.Contains(got, "href=")
		if hasHref != tt.allowed {
			t.Errorf("ToHTML(%q) = %q, href allowed = %v, want %v", tt.input, got, hasHref, tt.allowed)
		}
	}
}

func TestHTMLComponentWritesVerbatim(t *testing.T) {
	var buf bytes.Buffer
	if err := HTML("<p>hi &amp; bye</p>").Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "<p>hi &amp; bye</p>" {
		t.Errorf("HTML() wrote %q", got)
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"<p>Hello <strong>world</strong></p>", "Hello world"},
		{"<h1>Title</h1><p>Body</p>", "Title Body"},
		{"<p>a &amp; b</p>", "a & b"},
		{"<p>before</p><pre><code>x := 1</code></pre><p>after</p>", "before after"},
		{"<ul><li>one</li><li>two</li></ul>", "one two"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := PlainText(tt.input); got != tt.expected {
			t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestExcerptShortTextUnchanged(t *testing.T) {
	if got := Excerpt("short text", 300); got != "short text" {
		t.Errorf("Excerpt = %q, want %q", got, "short text")
	}
}

func TestExcerptCutsAtWordBoundary(t *testing.T) {
	got := Excerpt("the quick brown fox jumps", 12)
	if got != "the quick…" {
		t.Errorf("Excerpt = %q, want %q", got, "the quick…")
	}
}

func TestExcerptRespectsMaxRunes(t *testing.T) {
	text := strings.Repeat("héllo wörld ", 50)
	for _, max := range []int{1, 2, 5, 17, 40, 299} {
		got := Excerpt(text, max)
		if n := utf8.RuneCountInString(got); n > max {
			t.Errorf("Excerpt(max=%d) has %d runes: %q", max, n, got)
		}
		if !utf8.ValidString(got) {
			t.Errorf("Excerpt(max=%d) split a character: %q", max, got)
		}
	}
}

func TestExcerptMultibyteWithoutSpaces(t *testing.T) {
	text := strings.Repeat("日本語", 20)
	got := Excerpt(text, 10)
	if !utf8.ValidString(got) {
		t.Fatalf("invalid UTF-8: %q", got)
	}
	if got != "日本語日本語日本語…" {
		t.Errorf("Excerpt = %q", got)
	}
}

func TestExcerptZeroMax(t *testing.T) {
	if got := Excerpt("anything", 0); got != "" {
		t.Errorf("Excerpt(max=0) = %q, want empty", got)
	}
}

func TestWriteCSS(t *testing.T) {
	var buf bytes.Buffer
	if err := New(WithStyle("monokai")).WriteCSS(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), ".chroma") {
		t.Errorf("stylesheet has no chroma rules: %q", buf.String())
	}
}
