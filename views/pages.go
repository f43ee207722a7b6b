package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/pubsite"
	"github.com/eringen/pubsite/markdown"
)

// Listing renders one page of the main index or of a tag.
func Listing(id pubsite.SiteIdentity, lp pubsite.ListingPage) templ.Component {
	jsonLD := ""
	if lp.Tag == "" && lp.PageNumber == 1 {
		jsonLD = pubsite.WebsiteJSONLD(id)
	}
	return page(id, lp.Meta, jsonLD, component(func(h *htmlWriter) {
		if lp.Tag != "" {
			h.raw(`<h1 class="listing__title">Posts tagged “`)
			h.text(lp.Tag)
			h.raw(`”</h1>`)
		}
		if len(lp.Items) == 0 {
			h.raw(`<p class="listing__empty">No posts yet.</p>`)
		}
		for _, item := range lp.Items {
			h.component(postLink(id, item))
		}
		h.component(pagination(lp))
		if len(lp.Tags) > 0 {
			h.raw(`<ul class="tags">`)
			for _, t := range lp.Tags {
				h.raw(`<li><a`)
				h.href(id.Link(pubsite.ListingURL(t, 0)))
				if t == lp.Tag {
					h.raw(` class="is-active"`)
				}
				h.raw(`>`)
				h.text(t)
				h.raw(`</a></li>`)
			}
			h.raw(`</ul>`)
		}
	}))
}

// tagLink links t to its tag page. A tag with an empty slug has no page.
func tagLink(h *htmlWriter, id pubsite.SiteIdentity, t string) {
	if pubsite.Slugify(t) == "" {
		h.text(t)
		return
	}
	h.raw(`<a`)
	h.href(id.Link(pubsite.ListingURL(t, 0)))
	h.raw(`>`)
	h.text(t)
	h.raw(`</a>`)
}

// postLink renders a summary row: date, title linking to the post, excerpt.
func postLink(id pubsite.SiteIdentity, item pubsite.ListingItem) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<article class="post-link"><div class="post-link__meta">`)
		h.text(item.Date)
		for _, t := range item.Tags {
			h.raw(` · `)
			tagLink(h, id, t)
		}
		h.raw(`</div><h2 class="post-link__title"><a`)
		h.href(item.URL)
		h.raw(`>`)
		h.text(item.Title)
		h.raw(`</a></h2><p class="post-link__excerpt">`)
		h.text(item.Excerpt)
		h.raw(`</p><a class="post-link__more"`)
		h.href(item.URL)
		h.raw(`>Read</a></article>`)
	})
}

func pagination(lp pubsite.ListingPage) templ.Component {
	return component(func(h *htmlWriter) {
		if lp.PageCount <= 1 {
			return
		}
		h.raw(`<nav class="pagination">`)
		if lp.PrevURL != "" {
			h.raw(`<a rel="prev"`)
			h.href(lp.PrevURL)
			h.raw(`>← Newer posts</a>`)
		} else {
			h.raw(`<span class="is-disabled">← Newer posts</span>`)
		}
		h.raw(`<span class="pagination__count">Page `, strconv.Itoa(lp.PageNumber), ` of `, strconv.Itoa(lp.PageCount), `</span>`)
		if lp.NextURL != "" {
			h.raw(`<a rel="next"`)
			h.href(lp.NextURL)
			h.raw(`>Older posts →</a>`)
		} else {
			h.raw(`<span class="is-disabled">Older posts →</span>`)
		}
		h.raw(`</nav>`)
	})
}

// Post renders a single post with its related posts and comment thread.
func Post(id pubsite.SiteIdentity, pp pubsite.PostPage) templ.Component {
	v := pp.View
	return page(id, pp.Meta, pp.JSONLD, component(func(h *htmlWriter) {
		h.raw(`<article class="post">`)
		if pp.Draft {
			h.raw(`<p class="post__draft">Draft preview. This post is not published.</p>`)
		}
		h.raw(`<h1 class="post__title">`)
		h.text(v.Title)
		h.raw(`</h1>`)
		if v.Date != "" {
			h.raw(`<p class="post__date">`)
			h.text(v.Date)
			h.raw(`</p>`)
		}
		h.raw(`<div class="post__body">`)
		h.component(markdown.HTML(v.Body))
		h.raw(`</div>`)
		if len(v.Tags) > 0 {
			h.raw(`<ul class="tags">`)
			for _, t := range v.Tags {
				h.raw(`<li>`)
				tagLink(h, id, t)
				h.raw(`</li>`)
			}
			h.raw(`</ul>`)
		}
		h.raw(`</article>`)

		if len(pp.Related) > 0 {
			h.raw(`<section class="post__related"><h2>Related posts</h2>`)
			for _, item := range pp.Related {
				h.component(postLink(id, item))
			}
			h.raw(`</section>`)
		}
		if v.Comments != nil {
			h.component(comments(*v.Comments))
		}
	}))
}

// comments embeds the Disqus thread for one post.
func comments(cb pubsite.CommentsBlock) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<section class="post__comments"><div id="disqus_thread"></div><script>`)
		h.raw(`var disqus_config=function(){`)
		h.raw(`this.page.url=`, jsString(cb.PageURL), `;`)
		h.raw(`this.page.identifier=`, jsString(cb.Identifier), `;`)
		h.raw(`this.page.title=`, jsString(cb.Title), `;};`)
		h.raw(`(function(){var d=document,s=d.createElement('script');`)
		h.raw(`s.src=`, jsString("https://"+cb.Shortname+".disqus.com/embed.js"), `;`)
		h.raw(`s.setAttribute('data-timestamp',+new Date());(d.head||d.body).appendChild(s);})();`)
		h.raw(`</script><noscript>Enable JavaScript to view the comments.</noscript></section>`)
	})
}

// About renders pages/about.md.
func About(id pubsite.SiteIdentity, sp pubsite.StaticPage) templ.Component {
	return page(id, sp.Meta, "", component(func(h *htmlWriter) {
		h.raw(`<article class="post"><h1 class="post__title">`)
		h.text(sp.Title)
		h.raw(`</h1><div class="post__body">`)
		h.component(markdown.HTML(sp.Body))
		h.raw(`</div></article>`)
	}))
}

// NotFound renders the 404 page.
func NotFound(id pubsite.SiteIdentity) templ.Component {
	meta := pubsite.PageMeta{Title: "Not found - " + id.Title()}
	return page(id, meta, "", component(func(h *htmlWriter) {
		h.raw(`<h1 class="post__title">NOT FOUND</h1>`)
		h.raw(`<p>You just hit a route that doesn't exist... the sadness.</p><p><a`)
		h.href(id.Link("/"))
		h.raw(`>Back to the articles</a></p>`)
	}))
}

// ServerError renders the 5xx page.
func ServerError(id pubsite.SiteIdentity) templ.Component {
	meta := pubsite.PageMeta{Title: "Error - " + id.Title()}
	return page(id, meta, "", component(func(h *htmlWriter) {
		h.raw(`<h1 class="post__title">Something went wrong</h1><p>Please try again in a moment.</p>`)
	}))
}
