package pubsite

import "time"

// ContentRecord is one authored post as produced by the loader. Records are
// immutable for the lifetime of a build.
type ContentRecord struct {
	ID      string     // stable across rebuilds
	Path    string     // site-relative URL, e.g. "/2018-01-02-hello"
	Title   string
	Date    *time.Time // nil for drafts
	RawDate string     // date as authored; set with a nil Date when unparsable
	Problem string     // why the source could not be read, e.g. broken front-matter
	Tags    []string
	Body    string // sanitized HTML
	Excerpt string // plain-text preview
	Source  string // content-relative source file
}

// IsDraft reports whether the record has no publication date.
func (r ContentRecord) IsDraft() bool {
	return r.Date == nil
}

// CommentsBlock describes the third-party comment thread embedded under a post.
type CommentsBlock struct {
	Shortname  string // comments service site identifier
	Identifier string // thread identifier, the record ID
	PageURL    string // canonical URL of the post
	Title      string
}

// DetailView is everything a post page template needs.
type DetailView struct {
	ID       string
	Title    string
	Date     string // formatted with the site date format; empty for drafts
	Tags     []string
	Body     string // trusted HTML, passed through untouched
	Path     string
	Excerpt  string
	Comments *CommentsBlock // nil unless a comments service is configured
}

// Listing is the filtered, ordered result of SelectListing.
type Listing struct {
	Records     []ContentRecord
	Diagnostics []Diagnostic
}

// Page is one slice of a sorted listing.
type Page struct {
	Records     []ContentRecord
	Index       int // 0-based
	Count       int // total number of pages
	HasNext     bool
	HasPrevious bool
}

// ListingItem is a post summary row on an index page.
type ListingItem struct {
	Title   string
	Date    string
	Tags    []string
	URL     string
	Excerpt string
}

// ListingPage is the view model for an index or tag page.
type ListingPage struct {
	Items      []ListingItem
	Tag        string // active tag, empty on the main index
	Tags       []string
	PageNumber int // 1-based
	PageCount  int
	PrevURL    string // empty when there is no previous page
	NextURL    string // empty when there is no next page
	Meta       PageMeta
}

// PostPage is the view model for a single post page.
type PostPage struct {
	View    DetailView
	Related []ListingItem
	JSONLD  string
	Meta    PageMeta
	Draft   bool
}

// StaticPage is the view model for the about page and other fixed pages.
type StaticPage struct {
	Title string
	Body  string // trusted HTML
	Meta  PageMeta
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// Dashboard is the view model for the admin dashboard of the preview server.
type Dashboard struct {
	Records     []ContentRecord // every loaded record, drafts included
	Diagnostics []Diagnostic
	Published   int
	Message     string
}
