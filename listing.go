package pubsite

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SelectListing returns the public listing: drafts and malformed records are
// removed and the rest is ordered by date descending, ties broken by ID
// ascending. Malformed records, paths claimed by the site's own routes and
// duplicate paths are reported as diagnostics. The result is not paginated;
// see Paginate.
//
// SelectListing is pure. The same records in any order give the same output.
func SelectListing(records []ContentRecord, pageSize int) (Listing, error) {
	if pageSize <= 0 {
		return Listing{}, InvalidConfiguration("page size must be greater than 0, got %d", pageSize)
	}

	var diags []Diagnostic
	kept := make([]ContentRecord, 0, len(records))
	for _, r := range records {
		switch {
		case r.Problem != "":
			diags = append(diags, diagnose(r, r.Problem))
		case r.Date == nil && strings.TrimSpace(r.RawDate) != "":
			diags = append(diags, diagnose(r, "unparsable date "+strconv.Quote(r.RawDate)))
		case r.Date == nil:
			// Draft.
		case strings.TrimSpace(r.Title) == "":
			diags = append(diags, diagnose(r, "missing title"))
		case reservedPath(r.Path):
			diags = append(diags, diagnose(r, "path "+strconv.Quote(r.Path)+" is reserved for the site"))
		default:
			kept = append(kept, r)
		}
	}

	sortRecords(kept)

	seen := make(map[string]string, len(kept))
	out := kept[:0]
	for _, r := range kept {
		if owner, dup := seen[r.Path]; dup {
			diags = append(diags, diagnose(r, "path "+strconv.Quote(r.Path)+" already used by "+owner))
			continue
		}
		seen[r.Path] = r.ID
		out = append(out, r)
	}

	sortDiagnostics(diags)
	return Listing{Records: out, Diagnostics: diags}, nil
}

// reservedFiles are generated next to the pages and cannot double as post paths.
var reservedFiles = map[string]bool{
	"/404.html":    true,
	"/feed.xml":    true,
	"/sitemap.xml": true,
	"/robots.txt":  true,
	"/style.css":   true,
	"/chroma.css":  true,
}

// reservedPath reports whether p would shadow or overwrite one of the site's
// own routes: the index, listing pages, tag pages, the about page, the admin
// area, images or a generated file.
func reservedPath(p string) bool {
	p = "/" + strings.Trim(p, "/")
	if p == "/" || p == strings.TrimSuffix(aboutPath, "/") || reservedFiles[p] {
		return true
	}
	for _, prefix := range []string{"/page", "/tag", "/admin", "/images"} {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}

func diagnose(r ContentRecord, reason string) Diagnostic {
	return Diagnostic{RecordID: r.ID, Source: r.Source, Path: r.Path, Reason: reason}
}

// sortRecords orders records by date descending, then ID ascending.
func sortRecords(records []ContentRecord) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.Date.Equal(*b.Date) {
			return a.Date.After(*b.Date)
		}
		return a.ID < b.ID
	})
}

func sortDiagnostics(diags []Diagnostic) {
	sort.Slice(diags, func(i, j int) bool {
		if diags[i].RecordID != diags[j].RecordID {
			return diags[i].RecordID < diags[j].RecordID
		}
		return diags[i].Reason < diags[j].Reason
	})
}

// Paginate slices a sorted listing into pages of pageSize. pageIndex is
// 0-based; an out-of-range index yields an empty page whose HasNext and
// HasPrevious still describe the neighbouring pages.
func Paginate(sorted []ContentRecord, pageSize, pageIndex int) (Page, error) {
	if pageSize <= 0 {
		return Page{}, InvalidConfiguration("page size must be greater than 0, got %d", pageSize)
	}
	count := len(sorted) / pageSize
	if len(sorted)%pageSize != 0 {
		count++
	}
	p := Page{
		Index:       pageIndex,
		Count:       count,
		HasNext:     pageIndex >= -1 && pageIndex < count-1,
		HasPrevious: pageIndex > 0,
	}
	if pageIndex < 0 || pageIndex >= count {
		p.Records = []ContentRecord{}
		return p, nil
	}
	// pageIndex < count keeps start within len(sorted).
	start := pageIndex * pageSize
	end := len(sorted)
	if end-start > pageSize {
		end = start + pageSize
	}
	p.Records = sorted[start:end:end]
	return p, nil
}

// FilterByTag returns the records carrying a tag with the same slug as tag,
// so every tag sharing a /tag/<slug>/ page is listed there. An empty tag
// returns records unchanged.
func FilterByTag(records []ContentRecord, tag string) []ContentRecord {
	if normalizeTag(tag) == "" {
		return records
	}
	want := Slugify(tag)
	var out []ContentRecord
	if want == "" {
		return out
	}
	for _, r := range records {
		for _, t := range r.Tags {
			if Slugify(t) == want {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// CollectTags returns the sorted, lowercased tags of records with one entry
// per slug: of the tags sharing a slug the smallest is kept. Tags with an
// empty slug have no page and are left out.
func CollectTags(records []ContentRecord) []string {
	set := make(map[string]struct{})
	for _, r := range records {
		for _, t := range r.Tags {
			if n := normalizeTag(t); n != "" {
				set[n] = struct{}{}
			}
		}
	}
	all := make([]string, 0, len(set))
	for t := range set {
		all = append(all, t)
	}
	sort.Strings(all)

	slugs := make(map[string]bool, len(all))
	tags := make([]string, 0, len(all))
	for _, t := range all {
		slug := Slugify(t)
		if slug == "" || slugs[slug] {
			continue
		}
		slugs[slug] = true
		tags = append(tags, t)
	}
	return tags
}

// RelatedRecords returns up to limit records sharing at least one tag with current.
func RelatedRecords(current ContentRecord, records []ContentRecord, limit int) []ContentRecord {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		if slug := Slugify(t); slug != "" {
			tagSet[slug] = struct{}{}
		}
	}
	var related []ContentRecord
	for _, r := range records {
		if r.ID == current.ID {
			continue
		}
		for _, t := range r.Tags {
			if _, ok := tagSet[Slugify(t)]; ok {
				related = append(related, r)
				break
			}
		}
		if limit > 0 && len(related) == limit {
			break
		}
	}
	return related
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// ListingURL returns the site-relative URL of a listing page. pageIndex is
// 0-based; tag may be empty for the main index.
func ListingURL(tag string, pageIndex int) string {
	base := "/"
	if tag != "" {
		base = "/tag/" + Slugify(tag) + "/"
	}
	if pageIndex <= 0 {
		return base
	}
	return base + "page/" + strconv.Itoa(pageIndex+1) + "/"
}

// BuildListingPage assembles the view model for one page of a listing.
func BuildListingPage(id SiteIdentity, page Page, tag string, tags []string) ListingPage {
	items := make([]ListingItem, len(page.Records))
	for i, r := range page.Records {
		items[i] = ListingItemFor(id, r)
	}
	lp := ListingPage{
		Items:      items,
		Tag:        tag,
		Tags:       tags,
		PageNumber: page.Index + 1,
		PageCount:  page.Count,
	}
	if page.HasPrevious {
		lp.PrevURL = id.Link(ListingURL(tag, page.Index-1))
	}
	if page.HasNext {
		lp.NextURL = id.Link(ListingURL(tag, page.Index+1))
	}
	title := id.Title()
	if tag != "" {
		title = fmt.Sprintf("Posts tagged \"%s\" - %s", tag, id.Title())
	}
	if page.Index > 0 {
		title = fmt.Sprintf("%s - Page %d", title, page.Index+1)
	}
	lp.Meta = PageMeta{
		Title:       title,
		Description: id.Subtitle(),
		URL:         id.AbsoluteURL(ListingURL(tag, page.Index)),
		OGType:      "website",
	}
	return lp
}

// ListingItemFor maps a record to its summary row.
func ListingItemFor(id SiteIdentity, r ContentRecord) ListingItem {
	return ListingItem{
		Title:   r.Title,
		Date:    id.FormatDate(r),
		Tags:    r.Tags,
		URL:     id.Link(r.Path),
		Excerpt: r.Excerpt,
	}
}
