package views

import (
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/pubsite"
)

// page wraps content in the document shell: head metadata, the sidebar with
// the author block and navigation, and the analytics snippet when an
// analytics ID is configured.
func page(id pubsite.SiteIdentity, meta pubsite.PageMeta, jsonLD string, content templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		title := meta.Title
		if title == "" {
			title = id.Title()
		}
		description := meta.Description
		if description == "" {
			description = id.Subtitle()
		}

		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><meta name="description"`)
		h.attr("content", description)
		h.raw(`>`)
		if meta.URL != "" {
			h.raw(`<link rel="canonical"`)
			h.href(meta.URL)
			h.raw(`><meta property="og:url"`)
			h.attr("content", meta.URL)
			h.raw(`>`)
		}
		h.raw(`<meta property="og:title"`)
		h.attr("content", title)
		h.raw(`><meta property="og:description"`)
		h.attr("content", description)
		h.raw(`><meta property="og:site_name"`)
		h.attr("content", id.Title())
		h.raw(`>`)
		if meta.OGType != "" {
			h.raw(`<meta property="og:type"`)
			h.attr("content", meta.OGType)
			h.raw(`>`)
		}
		h.raw(`<meta name="twitter:card" content="summary">`)
		if handle, ok := id.Contact("twitter"); ok {
			h.raw(`<meta name="twitter:creator"`)
			h.attr("content", "@"+handle)
			h.raw(`>`)
		}
		h.raw(`<link rel="stylesheet"`)
		h.href(id.Link("/style.css"))
		h.raw(`><link rel="stylesheet"`)
		h.href(id.Link("/chroma.css"))
		h.raw(`><link rel="alternate" type="application/rss+xml"`)
		h.attr("title", id.Title())
		h.href(id.Link("/feed.xml"))
		h.raw(`>`)
		if jsonLD != "" {
			h.raw(`<script type="application/ld+json">`, jsonLD, `</script>`)
		}
		if gaID, ok := id.AnalyticsID(); ok {
			h.component(analyticsSnippet(gaID))
		}
		h.raw(`</head><body><div class="layout"><aside class="sidebar">`)
		h.component(sidebar(id, meta.URL))
		h.raw(`</aside><main class="content">`)
		h.component(content)
		h.raw(`</main></div></body></html>`)
	})
}

func analyticsSnippet(gaID string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<script async`)
		h.attr("src", "https://www.googletagmanager.com/gtag/js?id="+url.QueryEscape(gaID))
		h.raw(`></script>`)
		h.raw(`<script>window.dataLayer=window.dataLayer||[];function gtag(){dataLayer.push(arguments);}gtag('js',new Date());gtag('config',`, jsString(gaID), `);</script>`)
	})
}

// sidebar renders the author block, menu, contact links and copyright.
// current is the canonical URL of the page being rendered.
func sidebar(id pubsite.SiteIdentity, current string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="author">`)
		if photo := id.AuthorPhoto(); photo != "" {
			if strings.HasPrefix(photo, "/") {
				photo = id.Link(photo)
			}
			h.raw(`<a`)
			h.href(id.Link("/"))
			h.raw(`><img class="author__photo"`)
			h.attr("src", photo)
			h.attr("alt", id.AuthorName())
			h.raw(` width="75" height="75"></a>`)
		}
		h.raw(`<h1 class="author__title"><a`)
		h.href(id.Link("/"))
		h.raw(`>`)
		h.text(id.AuthorName())
		h.raw(`</a></h1><p class="author__subtitle">`)
		h.text(id.Subtitle())
		h.raw(`</p></div>`)

		h.raw(`<nav><ul class="menu">`)
		for _, item := range id.Menu() {
			h.raw(`<li><a`)
			h.href(id.Link(item.Path))
			if current != "" && trimSlash(id.AbsoluteURL(item.Path)) == trimSlash(current) {
				h.raw(` class="is-active"`)
			}
			h.raw(`>`)
			h.text(item.Label)
			h.raw(`</a></li>`)
		}
		h.raw(`</ul></nav>`)

		if links := id.SocialLinks(); len(links) > 0 {
			h.raw(`<ul class="contacts">`)
			for _, l := range links {
				h.raw(`<li><a`)
				if l.Channel == "line" {
					// line:// is not a scheme templ.URL lets through.
					h.attr("href", l.URL)
				} else {
					h.href(l.URL)
				}
				h.attr("title", l.Channel)
				h.raw(` rel="noopener noreferrer" target="_blank">`)
				h.text(l.Channel)
				h.raw(`</a></li>`)
			}
			h.raw(`</ul>`)
		}

		if c := id.Copyright(); c != "" {
			h.raw(`<p class="copyright">`)
			h.text(c)
			h.raw(`</p>`)
		}
	})
}
