package pubsite

import (
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const aboutPath = "/pages/about/"

func (a *App) handleIndex(c echo.Context) error {
	return a.renderListing(c, "", 0)
}

func (a *App) handleIndexPage(c echo.Context) error {
	n, ok := pageNumber(c.Param("n"))
	if !ok {
		return a.notFound(c)
	}
	if n == 1 {
		return c.Redirect(http.StatusMovedPermanently, a.Identity.Link(ListingURL("", 0)))
	}
	return a.renderListing(c, "", n-1)
}

func (a *App) handleTag(c echo.Context) error {
	return a.renderTag(c, 0)
}

func (a *App) handleTagPage(c echo.Context) error {
	n, ok := pageNumber(c.Param("n"))
	if !ok {
		return a.notFound(c)
	}
	if n == 1 {
		return c.Redirect(http.StatusMovedPermanently, a.Identity.Link(ListingURL(c.Param("tag"), 0)))
	}
	return a.renderTag(c, n-1)
}

func (a *App) renderTag(c echo.Context, index int) error {
	tag, ok, err := a.Cache.TagBySlug(c.Request().Context(), c.Param("tag"))
	if err != nil {
		return err
	}
	if !ok {
		return a.notFound(c)
	}
	return a.renderListing(c, tag, index)
}

// pageNumber parses a 1-based page number from a URL segment.
func pageNumber(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func (a *App) renderListing(c echo.Context, tag string, index int) error {
	ctx := c.Request().Context()
	listing, err := a.Cache.Listing(ctx)
	if err != nil {
		return err
	}
	records := listing.Records
	if tag != "" {
		records = FilterByTag(records, tag)
	}
	page, err := Paginate(records, a.Identity.PostsPerPage(), index)
	if err != nil {
		return err
	}
	// The first page always renders, even for an empty site.
	if index > 0 && len(page.Records) == 0 {
		return a.notFound(c)
	}
	tags, err := a.Cache.Tags(ctx)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Listing(a.Identity, BuildListingPage(a.Identity, page, tag, tags)))
}

func (a *App) handleAbout(c echo.Context) error {
	page, ok := a.aboutPage()
	if !ok {
		return a.notFound(c)
	}
	return Render(c, a.Views.About(a.Identity, page))
}

// handleContent serves posts at their own paths, then static files, images
// and files that sit next to posts.
func (a *App) handleContent(c echo.Context) error {
	ctx := c.Request().Context()
	rel := "/" + strings.Trim(c.Param("*"), "/")

	record, err := a.Cache.ByPath(ctx, rel)
	if err == nil {
		listing, err := a.Cache.Listing(ctx)
		if err != nil {
			return err
		}
		return Render(c, a.Views.Post(a.Identity, BuildPostPage(a.Identity, record, listing.Records)))
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	if file, ok := a.lookupFile(rel); ok {
		return c.File(file)
	}
	return a.notFound(c)
}

// lookupFile maps a request path to a file in the static, images or content
// directory. Paths are cleaned against a root so they cannot escape it.
func (a *App) lookupFile(rel string) (string, bool) {
	clean := path.Clean("/" + rel)
	candidates := []string{
		filepath.Join(a.Config.StaticDir, filepath.FromSlash(clean)),
		filepath.Join(a.Config.ContentDir, filepath.FromSlash(clean)),
	}
	if strings.HasPrefix(clean, "/images/") {
		candidates = append(candidates, filepath.Join(a.Config.ImagesDir, filepath.FromSlash(strings.TrimPrefix(clean, "/images"))))
	}
	for _, f := range candidates {
		if info, err := os.Stat(f); err == nil && info.Mode().IsRegular() {
			// Markdown sources are not published.
			if strings.EqualFold(filepath.Ext(f), ".md") {
				continue
			}
			return f, true
		}
	}
	return "", false
}

func (a *App) handleStylesheet(c echo.Context) error {
	data, err := EmbeddedAssets.ReadFile("embedded/style.css")
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "text/css; charset=utf-8", data)
}

func (a *App) handleChromaCSS(c echo.Context) error {
	var b strings.Builder
	if err := a.converter.WriteCSS(&b); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "text/css; charset=utf-8", []byte(b.String()))
}

func (a *App) handleSitemap(c echo.Context) error {
	listing, err := a.Cache.Listing(c.Request().Context())
	if err != nil {
		return err
	}
	_, hasAbout := a.aboutPage()
	data, err := SitemapXML(a.Identity, listing.Records, hasAbout)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", data)
}

func (a *App) handleFeed(c echo.Context) error {
	listing, err := a.Cache.Listing(c.Request().Context())
	if err != nil {
		return err
	}
	data, err := FeedXML(a.Identity, listing.Records)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", data)
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, RobotsTxt(a.Identity))
}

func (a *App) notFound(c echo.Context) error {
	return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Identity))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if (ok && he.Code == http.StatusNotFound) || errors.Is(err, ErrNotFound) {
		_ = a.notFound(c)
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError(a.Identity))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
