package pubsite

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/eringen/pubsite/markdown"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func newTestLoader() *Loader {
	return NewLoader(markdown.New(), 40)
}

func TestParseFrontMatter(t *testing.T) {
	src := `---
title: "Hello, World"
date: 2018-01-02
path: /2018-01-02-hello/
tags: [go, web]
---
The *first* post with some words that go on for a while.
`
	r, err := newTestLoader().Parse("2018-01-02-hello/index.md", []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if r.Title != "Hello, World" {
		t.Errorf("Title = %q", r.Title)
	}
	if r.Date == nil || r.Date.Format("2006-01-02") != "2018-01-02" {
		t.Errorf("Date = %v", r.Date)
	}
	if r.Path != "/2018-01-02-hello" {
		t.Errorf("Path = %q", r.Path)
	}
	if !reflect.DeepEqual(r.Tags, []string{"go", "web"}) {
		t.Errorf("Tags = %v", r.Tags)
	}
	if !strings.Contains(r.Body, "<em>first</em>") {
		t.Errorf("Body = %q", r.Body)
	}
	if strings.Contains(r.Body, "title:") {
		t.Error("front-matter leaked into body")
	}
	if n := len([]rune(r.Excerpt)); n > 40 || !strings.HasSuffix(r.Excerpt, markdown.Ellipsis) {
		t.Errorf("Excerpt = %q (%d runes)", r.Excerpt, n)
	}
	if r.Source != "2018-01-02-hello/index.md" {
		t.Errorf("Source = %q", r.Source)
	}
}

func TestParseStableID(t *testing.T) {
	l := newTestLoader()
	a, _ := l.Parse("a.md", []byte("---\ntitle: A\n---\nbody"))
	b, _ := l.Parse("a.md", []byte("---\ntitle: A changed\n---\nother body"))
	c, _ := l.Parse("c.md", []byte("---\ntitle: A\n---\nbody"))
	if a.ID == "" || a.ID != b.ID {
		t.Errorf("same source gave IDs %q and %q", a.ID, b.ID)
	}
	if a.ID == c.ID {
		t.Error("different sources share an ID")
	}
}

func TestParseFrontMatterTags(t *testing.T) {
	tests := []struct {
		name string
		tags string
		want []string
	}{
		{"list", "tags: [a, b]", []string{"a", "b"}},
		{"block list", "tags:\n  - a\n  - b", []string{"a", "b"}},
		{"comma string", "tags: a, b , ,c", []string{"a", "b", "c"}},
		{"list with commas", "tags: [\"a,b\", c]", []string{"a", "b", "c"}},
		{"none", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "---\ntitle: T\ndate: 2020-01-01\n" + tt.tags + "\n---\nbody\n"
			r, err := newTestLoader().Parse("t.md", []byte(src))
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(r.Tags, tt.want) {
				t.Errorf("Tags = %#v, want %#v", r.Tags, tt.want)
			}
		})
	}
}

func TestParseDraftsAndBadDates(t *testing.T) {
	l := newTestLoader()
	tests := []struct {
		name    string
		src     string
		date    bool
		rawDate string
	}{
		{"dated", "---\ntitle: T\ndate: 2020-01-01\n---\n", true, ""},
		{"no date", "---\ntitle: T\n---\n", false, ""},
		{"draft flag", "---\ntitle: T\ndate: 2020-01-01\ndraft: true\n---\n", false, ""},
		{"bad date", "---\ntitle: T\ndate: soon\n---\n", false, "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := l.Parse("t.md", []byte(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			if (r.Date != nil) != tt.date {
				t.Errorf("Date = %v, want set=%v", r.Date, tt.date)
			}
			if r.RawDate != tt.rawDate {
				t.Errorf("RawDate = %q, want %q", r.RawDate, tt.rawDate)
			}
		})
	}
}

func TestParseWithoutFrontMatter(t *testing.T) {
	r, err := newTestLoader().Parse("notes.md", []byte("# Just text\n"))
	if err != nil {
		t.Fatal(err)
	}
	if r.Title != "" || r.Date != nil || r.Problem != "" {
		t.Errorf("record = %+v, want untitled draft", r)
	}
	if !strings.Contains(r.Body, "Just text") {
		t.Errorf("Body = %q", r.Body)
	}
}

func TestParseBrokenFrontMatter(t *testing.T) {
	src := "---\ntitle: [unclosed\ndate: 2020-01-01\n---\nbody\n"
	r, err := newTestLoader().Parse("broken.md", []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(r.Problem, "front-matter: ") {
		t.Errorf("Problem = %q, want front-matter error", r.Problem)
	}
	if r.Date != nil {
		t.Errorf("Date = %v, want nil", r.Date)
	}

	l, err := SelectListing([]ContentRecord{r}, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Records) != 0 {
		t.Errorf("listing has %d records, want 0", len(l.Records))
	}
	if len(l.Diagnostics) != 1 || l.Diagnostics[0].Reason != r.Problem || l.Diagnostics[0].Source != "broken.md" {
		t.Errorf("Diagnostics = %+v, want one front-matter diagnostic for broken.md", l.Diagnostics)
	}
}

func TestRecordPath(t *testing.T) {
	tests := []struct {
		source   string
		authored string
		want     string
	}{
		{"hello.md", "", "/hello"},
		{"2018/My Trip.md", "", "/my-trip"},
		{"2018-01-02-hello/index.md", "", "/2018-01-02-hello"},
		{"x.md", "/custom/", "/custom"},
		{"x.md", "custom/path", "/custom/path"},
		{"x.md", "/a/../b", "/b"},
		{"привет.md", "", "/привет"},
		{"2020/日本語/index.md", "", "/日本語"},
		{"🎉.md", "", "/rec-id"},
		{"---.md", "", "/rec-id"},
	}
	for _, tt := range tests {
		if got := recordPath(tt.source, tt.authored, "rec-id"); got != tt.want {
			t.Errorf("recordPath(%q, %q) = %q, want %q", tt.source, tt.authored, got, tt.want)
		}
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"b/index.md":     "---\ntitle: B\ndate: 2020-01-02\n---\nb",
		"a.md":           "---\ntitle: A\ndate: 2020-01-01\n---\na",
		"b/photo.jpg":    "jpeg",
		".hidden.md":     "---\ntitle: Hidden\n---\n",
		".git/HEAD":      "ref",
		"drafts/wip.MD":  "---\ntitle: WIP\n---\n",
		"b/notes/sub.md": "---\ntitle: Sub\ndate: 2020-01-03\n---\n",
	})

	set, err := newTestLoader().LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	var sources []string
	for _, r := range set.Records {
		sources = append(sources, r.Source)
	}
	wantSources := []string{"a.md", "b/index.md", "b/notes/sub.md", "drafts/wip.MD"}
	if !reflect.DeepEqual(sources, wantSources) {
		t.Errorf("sources = %v, want %v", sources, wantSources)
	}
	if !reflect.DeepEqual(set.Assets, []string{"b/photo.jpg"}) {
		t.Errorf("Assets = %v", set.Assets)
	}
}

func TestLoadDirMissing(t *testing.T) {
	set, err := newTestLoader().LoadDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Records) != 0 || len(set.Assets) != 0 {
		t.Errorf("set = %+v, want empty", set)
	}
}

func TestLoadDirCancelled(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.md": "---\ntitle: A\n---\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newTestLoader().LoadDir(ctx, dir); err == nil {
		t.Error("LoadDir with cancelled context succeeded")
	}
}

func TestLoadPage(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"about.md": "---\ntitle: About me\n---\nI write **Go**.\n"})
	l := newTestLoader()

	page, ok, err := l.LoadPage(filepath.Join(dir, "about.md"))
	if err != nil || !ok {
		t.Fatalf("LoadPage = %v, %v", ok, err)
	}
	if page.Title != "About me" || !strings.Contains(page.Body, "<strong>Go</strong>") {
		t.Errorf("page = %+v", page)
	}

	if _, ok, err := l.LoadPage(filepath.Join(dir, "missing.md")); ok || err != nil {
		t.Errorf("missing page = %v, %v", ok, err)
	}
}
