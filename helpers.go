package pubsite

import (
	"encoding/json"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Slugify converts a title or tag to a URL-safe slug. Letters and digits of
// any script are kept; accents on Latin letters are folded to their ASCII
// base ("Café" -> "cafe") and everything else collapses to single dashes.
// The result is empty when s has no letters or digits.
func Slugify(s string) string {
	s = norm.NFKD.String(strings.ToLower(strings.TrimSpace(s)))
	var b strings.Builder
	dash, latin := false, false
	for _, r := range s {
		switch {
		case unicode.IsMark(r):
			// Marks on other scripts (й, ガ, हि) are part of the letter.
			if !latin && !dash && b.Len() > 0 {
				b.WriteRune(r)
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash, latin = false, r < utf8.RuneSelf
		default:
			latin = false
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return norm.NFC.String(strings.TrimRight(b.String(), "-"))
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// WebsiteJSONLD returns a JSON-LD string for a WebSite schema.
func WebsiteJSONLD(id SiteIdentity) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     id.Title(),
		"url":      id.AbsoluteURL("/"),
	}
	if id.Subtitle() != "" {
		data["description"] = id.Subtitle()
	}
	if id.AuthorName() != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  id.AuthorName(),
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJSONLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJSONLD(id SiteIdentity, r ContentRecord) string {
	postURL := id.AbsoluteURL(r.Path)
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "BlogPosting",
		"headline":    r.Title,
		"description": r.Excerpt,
		"url":         postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  id.Title(),
		},
	}
	if r.Date != nil {
		data["datePublished"] = r.Date.Format(time.RFC3339)
	}
	if id.AuthorName() != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  id.AuthorName(),
		}
	}
	if len(r.Tags) > 0 {
		data["keywords"] = strings.Join(r.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
