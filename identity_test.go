package pubsite

import (
	"errors"
	"reflect"
	"testing"
)

func testConfig() SiteConfig {
	return SiteConfig{
		URL:   "https://example.com",
		Title: "Example Blog",
		Author: AuthorConfig{
			Name: "Jane Doe",
		},
	}
}

func testIdentity(t *testing.T, mutate func(*SiteConfig)) SiteIdentity {
	t.Helper()
	cfg := testConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	id, err := NewSiteIdentity(cfg)
	if err != nil {
		t.Fatalf("NewSiteIdentity: %v", err)
	}
	return id
}

func TestNewSiteIdentityDefaults(t *testing.T) {
	id := testIdentity(t, nil)
	if id.PostsPerPage() != 4 {
		t.Errorf("PostsPerPage = %d, want 4", id.PostsPerPage())
	}
	if id.DateFormat() != "MMMM DD, YYYY" {
		t.Errorf("DateFormat = %q", id.DateFormat())
	}
	if id.PathPrefix() != "/" {
		t.Errorf("PathPrefix = %q, want /", id.PathPrefix())
	}
	if len(id.Menu()) != 2 {
		t.Errorf("Menu = %v, want the two default entries", id.Menu())
	}
	if _, ok := id.AnalyticsID(); ok {
		t.Error("AnalyticsID should be absent")
	}
	if _, ok := id.CommentsServiceID(); ok {
		t.Error("CommentsServiceID should be absent")
	}
}

func TestNewSiteIdentityInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SiteConfig)
		field  string
	}{
		{"missing title", func(c *SiteConfig) { c.Title = "" }, "SiteConfig.Title"},
		{"bad url", func(c *SiteConfig) { c.URL = "not a url" }, "SiteConfig.URL"},
		{"negative page size", func(c *SiteConfig) { c.PostsPerPage = -2 }, "SiteConfig.PostsPerPage"},
		{"missing author", func(c *SiteConfig) { c.Author.Name = "" }, "SiteConfig.Author.Name"},
		{"relative menu path", func(c *SiteConfig) {
			c.Menu = []MenuItem{{Label: "Home", Path: "home"}}
		}, "SiteConfig.Menu[0].Path"},
		{"bad log level", func(c *SiteConfig) { c.LogLevel = "loud" }, "SiteConfig.LogLevel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			_, err := NewSiteIdentity(cfg)
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("error = %v, want ErrInvalidConfiguration", err)
			}
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("error %T is not *Error", err)
			}
			if _, ok := perr.Details[tt.field]; !ok {
				t.Errorf("details %v missing %s", perr.Details, tt.field)
			}
		})
	}
}

func TestNewSiteIdentityRejectsBadDateFormatAndChannel(t *testing.T) {
	cfg := testConfig()
	cfg.DateFormat = "[YYYY"
	if _, err := NewSiteIdentity(cfg); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("unterminated date format: error = %v", err)
	}

	cfg = testConfig()
	cfg.Author.Contacts = map[string]string{"myspace": "tom"}
	if _, err := NewSiteIdentity(cfg); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("unknown channel: error = %v", err)
	}
}

func TestContactsAndSocialLinks(t *testing.T) {
	id := testIdentity(t, func(c *SiteConfig) {
		c.Author.Contacts = map[string]string{
			"email":    "jane@example.com",
			"GitHub":   " janedoe ",
			"twitter":  "",
			"linkedin": "jane-doe",
			"rss":      "/feed.xml",
		}
	})

	if _, ok := id.Contact("twitter"); ok {
		t.Error("empty twitter handle should be absent")
	}
	if h, ok := id.Contact("github"); !ok || h != "janedoe" {
		t.Errorf("Contact(github) = %q, %v", h, ok)
	}

	want := []SocialLink{
		{Channel: "github", Handle: "janedoe", URL: "https://github.com/janedoe"},
		{Channel: "linkedin", Handle: "jane-doe", URL: "https://www.linkedin.com/in/jane-doe/"},
		{Channel: "email", Handle: "jane@example.com", URL: "mailto:jane@example.com"},
		{Channel: "rss", Handle: "/feed.xml", URL: "/feed.xml"},
	}
	if got := id.SocialLinks(); !reflect.DeepEqual(got, want) {
		t.Errorf("SocialLinks =\n%v\nwant\n%v", got, want)
	}
}

func TestIdentityIsolatedFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Menu = []MenuItem{{Label: "Home", Path: "/"}}
	id, err := NewSiteIdentity(cfg)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Menu[0].Label = "Changed"
	if id.Menu()[0].Label != "Home" {
		t.Error("identity menu changed with config")
	}
	menu := id.Menu()
	menu[0].Label = "Changed"
	if id.Menu()[0].Label != "Home" {
		t.Error("identity menu changed through Menu()")
	}
}

func TestLinkAndAbsoluteURL(t *testing.T) {
	tests := []struct {
		prefix string
		path   string
		link   string
		abs    string
	}{
		{"/", "/", "/", "https://example.com/"},
		{"/", "/hello/", "/hello/", "https://example.com/hello/"},
		{"/blog", "/hello/", "/blog/hello/", "https://example.com/blog/hello/"},
		{"/blog/", "hello", "/blog/hello", "https://example.com/blog/hello"},
	}
	for _, tt := range tests {
		id := testIdentity(t, func(c *SiteConfig) {
			c.URL = "https://example.com/"
			c.PathPrefix = tt.prefix
		})
		if got := id.Link(tt.path); got != tt.link {
			t.Errorf("prefix %q: Link(%q) = %q, want %q", tt.prefix, tt.path, got, tt.link)
		}
		if got := id.AbsoluteURL(tt.path); got != tt.abs {
			t.Errorf("prefix %q: AbsoluteURL(%q) = %q, want %q", tt.prefix, tt.path, got, tt.abs)
		}
	}
}

func TestFormatDate(t *testing.T) {
	id := testIdentity(t, func(c *SiteConfig) { c.DateFormat = "Do MMM YYYY" })
	if got := id.FormatDate(ContentRecord{Date: datePtr(2018, 1, 2)}); got != "2nd Jan 2018" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := id.FormatDate(ContentRecord{}); got != "" {
		t.Errorf("FormatDate(draft) = %q, want empty", got)
	}
}
