package pubsite

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/eringen/pubsite/markdown"
)

// recordNamespace seeds record IDs so they stay stable across rebuilds.
var recordNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/eringen/pubsite/records"))

var frontMatterFormats = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", yaml.Unmarshal),
}

type frontMatter struct {
	Title string  `yaml:"title"`
	Date  string  `yaml:"date"`
	Path  string  `yaml:"path"`
	Tags  tagList `yaml:"tags"`
	Draft bool    `yaml:"draft"`
}

// tagList accepts either a YAML sequence or a comma-separated string.
type tagList []string

func (t *tagList) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		*t = FilterEmpty(strings.Split(n.Value, ","))
		return nil
	case yaml.SequenceNode:
		var tags []string
		if err := n.Decode(&tags); err != nil {
			return err
		}
		*t = FilterEmpty(strings.Split(strings.Join(tags, ","), ","))
		return nil
	default:
		return fmt.Errorf("line %d: tags must be a list or a comma-separated string", n.Line)
	}
}

// ContentSet is everything the loader found in a content directory.
type ContentSet struct {
	Records []ContentRecord
	Assets  []string // non-markdown files, relative to the content directory
}

// Loader reads markdown posts and turns them into ContentRecords.
type Loader struct {
	conv          *markdown.Converter
	excerptLength int
}

// NewLoader creates a Loader producing excerpts of excerptLength characters.
func NewLoader(conv *markdown.Converter, excerptLength int) *Loader {
	return &Loader{conv: conv, excerptLength: excerptLength}
}

// LoadDir walks dir and parses every .md file. Files are parsed in parallel;
// the returned records are ordered by source path. A missing directory yields
// an empty set.
func (l *Loader) LoadDir(ctx context.Context, dir string) (ContentSet, error) {
	var set ContentSet
	var sources []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if strings.EqualFold(path.Ext(rel), ".md") {
			sources = append(sources, rel)
		} else {
			set.Assets = append(set.Assets, rel)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return set, nil
		}
		return set, fmt.Errorf("walk %s: %w", dir, err)
	}

	records := make([]ContentRecord, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, rel := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
			if err != nil {
				return fmt.Errorf("read %s: %w", rel, err)
			}
			rec, err := l.Parse(rel, src)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ContentSet{}, err
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Source < records[j].Source })
	sort.Strings(set.Assets)
	set.Records = records
	return set, nil
}

// Parse turns one markdown source into a record. Front-matter problems never
// fail the parse: a record with an unreadable date keeps the raw text and no
// Date, one with unreadable front-matter carries the error in Problem, and
// SelectListing reports both.
func (l *Loader) Parse(source string, src []byte) (ContentRecord, error) {
	var fm frontMatter
	var problem string
	body, err := frontmatter.Parse(bytes.NewReader(src), &fm, frontMatterFormats...)
	if err != nil {
		fm = frontMatter{}
		body = src
		problem = "front-matter: " + err.Error()
	}

	html, err := l.conv.ToHTML(body)
	if err != nil {
		return ContentRecord{}, fmt.Errorf("convert %s: %w", source, err)
	}

	id := uuid.NewSHA1(recordNamespace, []byte(source)).String()
	rec := ContentRecord{
		ID:      id,
		Path:    recordPath(source, fm.Path, id),
		Title:   strings.TrimSpace(fm.Title),
		Tags:    []string(fm.Tags),
		Body:    html,
		Excerpt: markdown.Excerpt(markdown.PlainText(html), l.excerptLength),
		Source:  source,
		Problem: problem,
	}
	if fm.Draft || problem != "" {
		return rec, nil
	}
	if raw := strings.TrimSpace(fm.Date); raw != "" {
		if t, err := ParseDate(raw); err == nil {
			rec.Date = &t
		} else {
			rec.RawDate = raw
		}
	}
	return rec, nil
}

// recordPath normalizes the authored path or derives one from the file name.
// A file name with nothing left to slug falls back to the record ID.
func recordPath(source, authored, id string) string {
	p := strings.TrimSpace(authored)
	if p == "" {
		base := strings.TrimSuffix(path.Base(source), path.Ext(source))
		if base == "index" {
			base = path.Base(path.Dir(source))
		}
		if p = Slugify(base); p == "" {
			p = id
		}
	}
	p = path.Clean("/" + strings.Trim(p, "/"))
	return p
}

// LoadPage reads a single markdown page such as pages/about.md. ok is false
// when the file does not exist.
func (l *Loader) LoadPage(file string) (page StaticPage, ok bool, err error) {
	src, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return StaticPage{}, false, nil
		}
		return StaticPage{}, false, err
	}
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(src), &fm, frontMatterFormats...)
	if err != nil {
		return StaticPage{}, false, fmt.Errorf("front-matter %s: %w", file, err)
	}
	html, err := l.conv.ToHTML(body)
	if err != nil {
		return StaticPage{}, false, fmt.Errorf("convert %s: %w", file, err)
	}
	return StaticPage{Title: strings.TrimSpace(fm.Title), Body: html}, true, nil
}
