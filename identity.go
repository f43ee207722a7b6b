package pubsite

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Contact channels understood by the header. The order is the render order.
var contactChannels = []string{
	"twitter", "github", "linkedin", "instagram", "facebook", "telegram",
	"vkontakte", "line", "gitlab", "weibo", "codepen", "youtube",
	"soundcloud", "email", "rss",
}

// SocialLink is a resolved contact link rendered in the header.
type SocialLink struct {
	Channel string
	Handle  string
	URL     string
}

// SiteIdentity is the immutable, validated form of SiteConfig. Build it once
// with NewSiteIdentity and pass it explicitly to whatever needs it.
type SiteIdentity struct {
	url               string
	pathPrefix        string
	title             string
	subtitle          string
	copyright         string
	postsPerPage      int
	dateFormat        string
	dateLayout        dateFormat
	excerptLength     int
	authorName        string
	authorPhoto       string
	authorBio         string
	contacts          map[string]string
	analyticsID       string
	commentsServiceID string
	menu              []MenuItem
}

var configValidator = validator.New()

// NewSiteIdentity validates cfg and freezes it. Any problem is reported as
// ErrInvalidConfiguration with per-field details; there is no partial result.
func NewSiteIdentity(cfg SiteConfig) (SiteIdentity, error) {
	cfg.setDefaults()
	if err := configValidator.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return SiteIdentity{}, ErrInvalidConfiguration.WithCause(err)
		}
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Namespace()] = friendlyMessage(fe)
		}
		return SiteIdentity{}, ErrInvalidConfiguration.WithDetails(details).WithCause(errors.New(joinDetails(details)))
	}

	layout, err := convertDateFormat(cfg.DateFormat)
	if err != nil {
		return SiteIdentity{}, ErrInvalidConfiguration.WithCause(err)
	}

	contacts := make(map[string]string)
	for channel, handle := range cfg.Author.Contacts {
		channel = strings.ToLower(strings.TrimSpace(channel))
		handle = strings.TrimSpace(handle)
		if !knownChannel(channel) {
			return SiteIdentity{}, InvalidConfiguration("unknown contact channel %q", channel)
		}
		if handle == "" {
			continue
		}
		contacts[channel] = handle
	}

	menu := make([]MenuItem, len(cfg.Menu))
	copy(menu, cfg.Menu)

	return SiteIdentity{
		url:               strings.TrimRight(cfg.URL, "/"),
		pathPrefix:        "/" + strings.Trim(cfg.PathPrefix, "/"),
		title:             cfg.Title,
		subtitle:          cfg.Subtitle,
		copyright:         cfg.Copyright,
		postsPerPage:      cfg.PostsPerPage,
		dateFormat:        cfg.DateFormat,
		dateLayout:        layout,
		excerptLength:     cfg.ExcerptLength,
		authorName:        cfg.Author.Name,
		authorPhoto:       cfg.Author.Photo,
		authorBio:         cfg.Author.Bio,
		contacts:          contacts,
		analyticsID:       strings.TrimSpace(cfg.AnalyticsID),
		commentsServiceID: strings.TrimSpace(cfg.CommentsServiceID),
		menu:              menu,
	}, nil
}

func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "startswith":
		return "must start with " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

func joinDetails(details map[string]string) string {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + details[k]
	}
	return strings.Join(parts, "; ")
}

func knownChannel(channel string) bool {
	for _, c := range contactChannels {
		if c == channel {
			return true
		}
	}
	return false
}

func (s SiteIdentity) URL() string { return s.url }
func (s SiteIdentity) PathPrefix() string { return s.pathPrefix }
func (s SiteIdentity) Title() string { return s.title }
func (s SiteIdentity) Subtitle() string { return s.subtitle }
func (s SiteIdentity) Copyright() string { return s.copyright }
func (s SiteIdentity) PostsPerPage() int { return s.postsPerPage }
func (s SiteIdentity) DateFormat() string { return s.dateFormat }
func (s SiteIdentity) ExcerptLength() int { return s.excerptLength }
func (s SiteIdentity) AuthorName() string { return s.authorName }
func (s SiteIdentity) AuthorPhoto() string { return s.authorPhoto }
func (s SiteIdentity) AuthorBio() string { return s.authorBio }

// AnalyticsID returns the analytics property ID and whether one is configured.
func (s SiteIdentity) AnalyticsID() (string, bool) {
	return s.analyticsID, s.analyticsID != ""
}

// CommentsServiceID returns the comments service site ID and whether one is configured.
func (s SiteIdentity) CommentsServiceID() (string, bool) {
	return s.commentsServiceID, s.commentsServiceID != ""
}

// Contact returns the handle for channel and whether it is present.
func (s SiteIdentity) Contact(channel string) (string, bool) {
	h, ok := s.contacts[channel]
	return h, ok
}

// Menu returns a copy of the navigation menu.
func (s SiteIdentity) Menu() []MenuItem {
	out := make([]MenuItem, len(s.menu))
	copy(out, s.menu)
	return out
}

// SocialLinks returns links for every present contact in header order.
func (s SiteIdentity) SocialLinks() []SocialLink {
	var links []SocialLink
	for _, channel := range contactChannels {
		handle, ok := s.contacts[channel]
		if !ok {
			continue
		}
		links = append(links, SocialLink{
			Channel: channel,
			Handle:  handle,
			URL:     contactURL(channel, handle),
		})
	}
	return links
}

// FormatDate renders a publication date with the configured format.
func (s SiteIdentity) FormatDate(r ContentRecord) string {
	if r.Date == nil {
		return ""
	}
	return s.dateLayout.format(*r.Date)
}

// Link turns a site-relative path into a path including the path prefix.
func (s SiteIdentity) Link(p string) string {
	if s.pathPrefix == "/" || s.pathPrefix == "" {
		return ensureLeadingSlash(p)
	}
	return s.pathPrefix + ensureLeadingSlash(p)
}

// AbsoluteURL turns a site-relative path into a canonical URL.
func (s SiteIdentity) AbsoluteURL(p string) string {
	return s.url + s.Link(p)
}

func ensureLeadingSlash(p string) string {
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}

func contactURL(channel, handle string) string {
	if strings.HasPrefix(handle, "http://") || strings.HasPrefix(handle, "https://") {
		return handle
	}
	h := url.PathEscape(handle)
	switch channel {
	case "twitter":
		return "https://www.twitter.com/" + h
	case "github":
		return "https://github.com/" + h
	case "linkedin":
		return "https://www.linkedin.com/in/" + h + "/"
	case "instagram":
		return "https://www.instagram.com/" + h
	case "facebook":
		return "https://www.facebook.com/" + h
	case "telegram":
		return "https://t.me/" + h
	case "vkontakte":
		return "https://vk.com/" + h
	case "line":
		return "line://ti/p/" + h
	case "gitlab":
		return "https://www.gitlab.com/" + h
	case "weibo":
		return "https://weibo.com/" + h
	case "codepen":
		return "https://www.codepen.io/" + h
	case "youtube":
		return "https://www.youtube.com/channel/" + h
	case "soundcloud":
		return "https://soundcloud.com/" + h
	case "email":
		return "mailto:" + handle
	case "rss":
		return handle
	default:
		return fmt.Sprintf("#%s", h)
	}
}
