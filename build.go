package pubsite

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/sync/errgroup"
)

// BuildReport summarizes a static build.
type BuildReport struct {
	Posts       int
	Pages       int // HTML files written
	Files       int // static files, images and post assets copied
	Resized     int // images scaled down to maxImageWidth
	Diagnostics []Diagnostic
	Duration    time.Duration
}

// Build renders the whole site into the output directory, replacing what was
// there. Drafts are not published; malformed records are reported in the
// BuildReport and logged.
func (a *App) Build(ctx context.Context) (BuildReport, error) {
	start := time.Now()
	if err := a.Reload(ctx); err != nil {
		return BuildReport{}, err
	}
	listing, err := a.Cache.Listing(ctx)
	if err != nil {
		return BuildReport{}, err
	}

	out := a.Config.OutputDir
	if err := a.resetOutput(out); err != nil {
		return BuildReport{}, err
	}

	report := BuildReport{Posts: len(listing.Records), Diagnostics: listing.Diagnostics}
	var pages, files, resized atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	render := func(rel string, cmp templ.Component) {
		g.Go(func() error {
			if err := renderToFile(gctx, filepath.Join(out, rel), cmp); err != nil {
				return fmt.Errorf("render %s: %w", rel, err)
			}
			pages.Add(1)
			return nil
		})
	}

	id := a.Identity
	tags := CollectTags(listing.Records)
	if err := a.renderListings(render, "", listing.Records, tags); err != nil {
		return BuildReport{}, err
	}
	for _, tag := range tags {
		if err := a.renderListings(render, tag, FilterByTag(listing.Records, tag), tags); err != nil {
			return BuildReport{}, err
		}
	}
	for _, r := range listing.Records {
		render(pageFile(r.Path), a.Views.Post(id, BuildPostPage(id, r, listing.Records)))
	}
	about, hasAbout := a.aboutPage()
	if hasAbout {
		render(pageFile(aboutPath), a.Views.About(id, about))
	}
	render("404.html", a.Views.NotFound(id))

	g.Go(func() error {
		feed, err := FeedXML(id, listing.Records)
		if err != nil {
			return err
		}
		sitemap, err := SitemapXML(id, listing.Records, hasAbout)
		if err != nil {
			return err
		}
		style, err := EmbeddedAssets.ReadFile("embedded/style.css")
		if err != nil {
			return err
		}
		var chroma bytes.Buffer
		if err := a.converter.WriteCSS(&chroma); err != nil {
			return err
		}
		for name, data := range map[string][]byte{
			"feed.xml":    feed,
			"sitemap.xml": sitemap,
			"robots.txt":  []byte(RobotsTxt(id)),
			"style.css":   style,
			"chroma.css":  chroma.Bytes(),
		} {
			if err := writeFile(filepath.Join(out, name), data); err != nil {
				return err
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return BuildReport{}, err
	}

	// Authored files are copied last so a static/style.css overrides the
	// embedded stylesheet.
	copyAll := func(srcDir, dstDir string, rels []string) error {
		for _, rel := range rels {
			if err := ctx.Err(); err != nil {
				return err
			}
			src := filepath.Join(srcDir, filepath.FromSlash(rel))
			dst := filepath.Join(dstDir, filepath.FromSlash(rel))
			didResize, err := a.publishFile(src, dst)
			if err != nil {
				return fmt.Errorf("copy %s: %w", src, err)
			}
			files.Add(1)
			if didResize {
				resized.Add(1)
			}
		}
		return nil
	}
	staticFiles, err := listFiles(a.Config.StaticDir)
	if err != nil {
		return BuildReport{}, err
	}
	imageFiles, err := listFiles(a.Config.ImagesDir)
	if err != nil {
		return BuildReport{}, err
	}
	if err := copyAll(a.Config.StaticDir, out, staticFiles); err != nil {
		return BuildReport{}, err
	}
	if err := copyAll(a.Config.ImagesDir, filepath.Join(out, "images"), imageFiles); err != nil {
		return BuildReport{}, err
	}
	if err := copyAll(a.Config.ContentDir, out, a.contentAssets()); err != nil {
		return BuildReport{}, err
	}

	report.Pages = int(pages.Load())
	report.Files = int(files.Load())
	report.Resized = int(resized.Load())
	report.Duration = time.Since(start)
	a.Logger().Infof("built %d pages, %d posts, %d files (%d resized) into %s in %s",
		report.Pages, report.Posts, report.Files, report.Resized, out, report.Duration.Round(time.Millisecond))
	return report, nil
}

// renderListings schedules every page of one listing, tag-filtered or not.
// An empty main listing still gets its first page.
func (a *App) renderListings(render func(string, templ.Component), tag string, records []ContentRecord, tags []string) error {
	for i := 0; ; i++ {
		page, err := Paginate(records, a.Identity.PostsPerPage(), i)
		if err != nil {
			return err
		}
		if i > 0 && len(page.Records) == 0 {
			return nil
		}
		render(pageFile(ListingURL(tag, i)), a.Views.Listing(a.Identity, BuildListingPage(a.Identity, page, tag, tags)))
		if !page.HasNext {
			return nil
		}
	}
}

// pageFile maps a site path to the index.html that serves it.
func pageFile(urlPath string) string {
	return filepath.Join(filepath.FromSlash(strings.Trim(urlPath, "/")), "index.html")
}

// resetOutput empties the output directory. It refuses directories that
// contain the site's own sources.
func (a *App) resetOutput(out string) error {
	absOut, err := filepath.Abs(out)
	if err != nil {
		return err
	}
	for _, src := range []string{".", a.Config.ContentDir, a.Config.PagesDir, a.Config.StaticDir, a.Config.ImagesDir} {
		absSrc, err := filepath.Abs(src)
		if err != nil {
			return err
		}
		if absSrc == absOut || strings.HasPrefix(absSrc+string(filepath.Separator), absOut+string(filepath.Separator)) {
			return InvalidConfiguration("outputDir %q would overwrite %q", out, src)
		}
	}
	if err := os.RemoveAll(out); err != nil {
		return err
	}
	return os.MkdirAll(out, 0o755)
}

// listFiles returns the regular files under dir as slash-separated relative
// paths. A missing directory has no files.
func listFiles(dir string) ([]string, error) {
	var rels []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rels = append(rels, filepath.ToSlash(rel))
		return nil
	})
	if os.IsNotExist(err) {
		return nil, nil
	}
	return rels, err
}

// publishFile copies src to dst, scaling images down to maxImageWidth.
func (a *App) publishFile(src, dst string) (resized bool, err error) {
	if a.Config.MaxImageWidth > 0 && resizableImage(src) {
		f, err := os.Open(src)
		if err != nil {
			return false, err
		}
		data, ok, err := resizeImage(f, a.Config.MaxImageWidth)
		f.Close()
		if err != nil {
			a.Logger().Warnf("resize %s: %v; copying as is", src, err)
		} else if ok {
			return true, writeFile(dst, data)
		}
	}
	return false, copyFile(src, dst)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
