package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/pubsite"
)

// AdminLogin renders the preview server's password form.
func AdminLogin(id pubsite.SiteIdentity, showError bool, csrfToken string) templ.Component {
	meta := pubsite.PageMeta{Title: "Admin - " + id.Title()}
	return page(id, meta, "", component(func(h *htmlWriter) {
		h.raw(`<section class="admin"><h1>Admin</h1>`)
		if showError {
			h.raw(`<p class="error">Wrong password.</p>`)
		}
		h.raw(`<form method="post"`)
		h.attr("action", id.Link("/admin/login/"))
		h.raw(`><input type="hidden" name="_csrf"`)
		h.attr("value", csrfToken)
		h.raw(`><label>Password <input type="password" name="password" autocomplete="current-password" required autofocus></label> `)
		h.raw(`<button type="submit">Log in</button></form></section>`)
	}))
}

// AdminDashboard lists every loaded record with its status and the reasons
// records were left out of the listing.
func AdminDashboard(id pubsite.SiteIdentity, d pubsite.Dashboard, csrfToken string) templ.Component {
	meta := pubsite.PageMeta{Title: "Dashboard - " + id.Title()}
	return page(id, meta, "", component(func(h *htmlWriter) {
		h.raw(`<section class="admin"><h1>Dashboard</h1>`)
		if d.Message != "" {
			h.raw(`<p class="notice">`)
			h.text(d.Message)
			h.raw(`</p>`)
		}
		h.raw(`<p>`, strconv.Itoa(len(d.Records)), ` records, `, strconv.Itoa(d.Published), ` published.</p>`)

		h.raw(`<form method="post"`)
		h.attr("action", id.Link("/admin/reload/"))
		h.raw(`><input type="hidden" name="_csrf"`)
		h.attr("value", csrfToken)
		h.raw(`><button type="submit">Reload content</button></form>`)

		if len(d.Diagnostics) > 0 {
			h.raw(`<h2>Skipped</h2><table><thead><tr><th>Source</th><th>Path</th><th>Reason</th></tr></thead><tbody>`)
			for _, diag := range d.Diagnostics {
				h.raw(`<tr><td>`)
				h.text(diag.Source)
				h.raw(`</td><td>`)
				h.text(diag.Path)
				h.raw(`</td><td class="error">`)
				h.text(diag.Reason)
				h.raw(`</td></tr>`)
			}
			h.raw(`</tbody></table>`)
		}

		h.raw(`<h2>Records</h2><table><thead><tr><th>Title</th><th>Date</th><th>Path</th><th>Source</th></tr></thead><tbody>`)
		for _, r := range d.Records {
			h.raw(`<tr><td><a`)
			h.href(id.Link("/admin/preview/" + PathEscape(r.ID) + "/"))
			h.raw(`>`)
			title := r.Title
			if title == "" {
				title = "(untitled)"
			}
			h.text(title)
			h.raw(`</a></td><td>`)
			switch {
			case r.Problem != "":
				h.raw(`<span class="error">`)
				h.text(r.Problem)
				h.raw(`</span>`)
			case r.Date != nil:
				h.text(id.FormatDate(r))
			case r.RawDate != "":
				h.raw(`<span class="error">`)
				h.text(r.RawDate)
				h.raw(`</span>`)
			default:
				h.raw(`draft`)
			}
			h.raw(`</td><td>`)
			h.text(r.Path)
			h.raw(`</td><td>`)
			h.text(r.Source)
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)

		h.raw(`<form method="post"`)
		h.attr("action", id.Link("/admin/logout/"))
		h.raw(`><input type="hidden" name="_csrf"`)
		h.attr("value", csrfToken)
		h.raw(`><button type="submit">Log out</button></form></section>`)
	}))
}
