package pubsite

import (
	"time"

	"github.com/labstack/echo/v4"
)

// SiteConfig holds all configuration for a pubsite site. It is decoded from
// config.yaml by the CLI and turned into an immutable SiteIdentity at startup.
type SiteConfig struct {
	URL               string       `mapstructure:"url" validate:"required,url"`
	PathPrefix        string       `mapstructure:"pathPrefix" validate:"startswith=/"`
	Title             string       `mapstructure:"title" validate:"required"`
	Subtitle          string       `mapstructure:"subtitle"`
	Copyright         string       `mapstructure:"copyright"`
	PostsPerPage      int          `mapstructure:"postsPerPage" validate:"gt=0"`
	DateFormat        string       `mapstructure:"dateFormat" validate:"required"` // e.g. "MMMM DD, YYYY"
	ExcerptLength     int          `mapstructure:"excerptLength" validate:"gt=0"`  // in characters
	AnalyticsID       string       `mapstructure:"analyticsId"`
	CommentsServiceID string       `mapstructure:"commentsServiceId"` // Disqus shortname
	Menu              []MenuItem   `mapstructure:"menu" validate:"dive"`
	Author            AuthorConfig `mapstructure:"author"`

	ContentDir string `mapstructure:"contentDir"` // markdown posts (default "posts")
	PagesDir   string `mapstructure:"pagesDir"`   // about.md and friends (default "pages")
	ImagesDir  string `mapstructure:"imagesDir"`  // site images (default "images")
	StaticDir  string `mapstructure:"staticDir"`  // copied verbatim (default "static")
	OutputDir  string `mapstructure:"outputDir"`  // build output (default "public")
	IndexPath  string `mapstructure:"indexPath"`  // SQLite record index (default "data/index.db")

	MaxImageWidth int    `mapstructure:"maxImageWidth" validate:"gte=0"` // 0 disables resizing
	LogLevel      string `mapstructure:"logLevel" validate:"omitempty,oneof=debug info warn error"`

	Addr          string        `mapstructure:"addr"` // preview server listen address (default ":8000")
	AdminPassword string        `mapstructure:"adminPassword"`
	SessionSecret string        `mapstructure:"sessionSecret"`
	CookieSecure  bool          `mapstructure:"cookieSecure"`
	CacheTTL      time.Duration `mapstructure:"cacheTTL"`
}

// AuthorConfig describes the site author. Empty contact handles are treated
// as absent.
type AuthorConfig struct {
	Name     string            `mapstructure:"name" validate:"required"`
	Photo    string            `mapstructure:"photo"`
	Bio      string            `mapstructure:"bio"`
	Contacts map[string]string `mapstructure:"contacts"`
}

// MenuItem is a header navigation entry.
type MenuItem struct {
	Label string `mapstructure:"label" validate:"required"`
	Path  string `mapstructure:"path" validate:"required,startswith=/"`
}

func (c *SiteConfig) setDefaults() {
	if c.PathPrefix == "" {
		c.PathPrefix = "/"
	}
	if c.PostsPerPage == 0 {
		c.PostsPerPage = 4
	}
	if c.DateFormat == "" {
		c.DateFormat = "MMMM DD, YYYY"
	}
	if c.ExcerptLength == 0 {
		c.ExcerptLength = 300
	}
	if c.ContentDir == "" {
		c.ContentDir = "posts"
	}
	if c.PagesDir == "" {
		c.PagesDir = "pages"
	}
	if c.ImagesDir == "" {
		c.ImagesDir = "images"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if c.OutputDir == "" {
		c.OutputDir = "public"
	}
	if c.IndexPath == "" {
		c.IndexPath = "data/index.db"
	}
	if c.Addr == "" {
		c.Addr = ":8000"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if len(c.Menu) == 0 {
		c.Menu = []MenuItem{
			{Label: "Articles", Path: "/"},
			{Label: "About me", Path: "/pages/about/"},
		}
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the preview server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithEcho replaces the Echo instance, mainly for tests.
func WithEcho(e *echo.Echo) Option {
	return func(a *App) {
		a.Echo = e
	}
}

// WithoutIndex keeps records in memory only; no SQLite index is opened.
func WithoutIndex() Option {
	return func(a *App) {
		a.noIndex = true
	}
}
