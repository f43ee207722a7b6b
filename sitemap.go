package pubsite

import (
	"bytes"
	"encoding/xml"
	"strings"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// SitemapXML lists every public page: listing pages, tag pages, posts and
// the about page when there is one.
func SitemapXML(id SiteIdentity, records []ContentRecord, hasAbout bool) ([]byte, error) {
	var urls []sitemapURL
	addListing := func(tag string, n int) {
		pages := (n + id.PostsPerPage() - 1) / id.PostsPerPage()
		if pages == 0 {
			pages = 1
		}
		for i := 0; i < pages; i++ {
			urls = append(urls, sitemapURL{Loc: id.AbsoluteURL(ListingURL(tag, i))})
		}
	}

	addListing("", len(records))
	for _, tag := range CollectTags(records) {
		addListing(tag, len(FilterByTag(records, tag)))
	}
	for _, r := range records {
		u := sitemapURL{Loc: id.AbsoluteURL(r.Path)}
		if r.Date != nil {
			u.LastMod = r.Date.Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	if hasAbout {
		urls = append(urls, sitemapURL{Loc: id.AbsoluteURL(aboutPath)})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RobotsTxt allows everything except the preview admin and points crawlers
// at the sitemap.
func RobotsTxt(id SiteIdentity) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: " + id.Link("/admin/") + "\n\n")
	b.WriteString("Sitemap: " + id.AbsoluteURL("/sitemap.xml") + "\n")
	return b.String()
}
