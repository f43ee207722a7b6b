package pubsite

// RenderDetail maps one record to the fields a post page needs. The body is
// trusted, already-sanitized HTML and is passed through untouched. The
// comments block is present only when the site has a comments service ID.
func RenderDetail(record ContentRecord, identity SiteIdentity) DetailView {
	tags := make([]string, len(record.Tags))
	copy(tags, record.Tags)

	v := DetailView{
		ID:      record.ID,
		Title:   record.Title,
		Date:    identity.FormatDate(record),
		Tags:    tags,
		Body:    record.Body,
		Path:    record.Path,
		Excerpt: record.Excerpt,
	}
	if shortname, ok := identity.CommentsServiceID(); ok {
		v.Comments = &CommentsBlock{
			Shortname:  shortname,
			Identifier: record.ID,
			PageURL:    identity.AbsoluteURL(record.Path),
			Title:      record.Title,
		}
	}
	return v
}

// BuildPostPage assembles the view model for a post page. all is the public
// listing and is used for the related-posts block.
func BuildPostPage(id SiteIdentity, record ContentRecord, all []ContentRecord) PostPage {
	view := RenderDetail(record, id)
	related := RelatedRecords(record, all, 3)
	items := make([]ListingItem, len(related))
	for i, r := range related {
		items[i] = ListingItemFor(id, r)
	}
	return PostPage{
		View:    view,
		Related: items,
		JSONLD:  BlogPostingJSONLD(id, record),
		Draft:   record.IsDraft(),
		Meta: PageMeta{
			Title:       record.Title + " - " + id.Title(),
			Description: record.Excerpt,
			URL:         id.AbsoluteURL(record.Path),
			OGType:      "article",
		},
	}
}
