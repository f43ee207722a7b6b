// Package pubsite turns a directory of markdown posts into a blog. It builds
// a static site (paginated listing, tag pages, post pages, feed, sitemap) and
// runs a preview server over the same content.
//
// Callers provide templ components through ViewFuncs; pubsite owns loading,
// ordering, pagination, routing and output.
package pubsite

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/eringen/pubsite/markdown"
)

// ViewFuncs holds the templ components pubsite calls when rendering pages.
// The views package provides a default set.
type ViewFuncs struct {
	Listing        func(id SiteIdentity, page ListingPage) templ.Component
	Post           func(id SiteIdentity, page PostPage) templ.Component
	About          func(id SiteIdentity, page StaticPage) templ.Component
	NotFound       func(id SiteIdentity) templ.Component
	ServerError    func(id SiteIdentity) templ.Component
	AdminLogin     func(id SiteIdentity, showError bool, csrfToken string) templ.Component
	AdminDashboard func(id SiteIdentity, d Dashboard, csrfToken string) templ.Component
}

func (v ViewFuncs) missing() []string {
	var names []string
	if v.Listing == nil {
		names = append(names, "Listing")
	}
	if v.Post == nil {
		names = append(names, "Post")
	}
	if v.About == nil {
		names = append(names, "About")
	}
	if v.NotFound == nil {
		names = append(names, "NotFound")
	}
	if v.ServerError == nil {
		names = append(names, "ServerError")
	}
	if v.AdminLogin == nil {
		names = append(names, "AdminLogin")
	}
	if v.AdminDashboard == nil {
		names = append(names, "AdminDashboard")
	}
	return names
}

// App wires together the loader, record index, cache, views and the Echo
// preview server.
type App struct {
	Config   SiteConfig
	Identity SiteIdentity
	Echo     *echo.Echo
	Store    *Store
	Cache    *RecordCache
	Views    ViewFuncs

	converter    *markdown.Converter
	loader       *Loader
	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	noIndex      bool

	openMu sync.Mutex
	mu     sync.RWMutex
	about  *StaticPage
	assets []string
}

// New validates cfg and creates an App. Configuration problems are reported
// as ErrInvalidConfiguration.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) (*App, error) {
	cfg.setDefaults()
	identity, err := NewSiteIdentity(cfg)
	if err != nil {
		return nil, err
	}
	if names := views.missing(); len(names) > 0 {
		return nil, InvalidConfiguration("views not set: %s", strings.Join(names, ", "))
	}

	a := &App{
		Config:   cfg,
		Identity: identity,
		Echo:     echo.New(),
		Views:    views,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.noIndex {
		a.Config.IndexPath = MemoryIndex
	}

	a.Echo.HideBanner = true
	a.Echo.Logger.SetLevel(parseLevel(cfg.LogLevel))

	a.converter = markdown.New()
	a.loader = NewLoader(a.converter, identity.ExcerptLength())
	return a, nil
}

func parseLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}

// Logger returns the application logger.
func (a *App) Logger() echo.Logger {
	return a.Echo.Logger
}

func (a *App) open() error {
	a.openMu.Lock()
	defer a.openMu.Unlock()
	if a.Store != nil {
		return nil
	}
	store, err := NewStore(a.Config.IndexPath)
	if err != nil {
		return fmt.Errorf("pubsite: open index: %w", err)
	}
	a.Store = store
	a.Cache = NewRecordCache(store, a.Identity.PostsPerPage(), a.Config.CacheTTL)
	return nil
}

// Reload reads the content and pages directories again, replaces the record
// index and drops cached listings. Records that cannot be listed are logged.
func (a *App) Reload(ctx context.Context) error {
	if err := a.open(); err != nil {
		return err
	}
	start := time.Now()
	set, err := a.loader.LoadDir(ctx, a.Config.ContentDir)
	if err != nil {
		return fmt.Errorf("pubsite: load content: %w", err)
	}
	about, ok, err := a.loader.LoadPage(filepath.Join(a.Config.PagesDir, "about.md"))
	if err != nil {
		return fmt.Errorf("pubsite: load about page: %w", err)
	}
	if err := a.Store.ReplaceAll(ctx, set.Records); err != nil {
		return fmt.Errorf("pubsite: index records: %w", err)
	}
	a.Cache.Invalidate()

	a.mu.Lock()
	a.about = nil
	if ok {
		a.about = &about
	}
	a.assets = set.Assets
	a.mu.Unlock()

	listing, err := a.Cache.Listing(ctx)
	if err != nil {
		return err
	}
	for _, d := range listing.Diagnostics {
		a.Logger().Warnf("skipped %s", d)
	}
	a.Logger().Infof("loaded %d records, %d published (%s)", len(set.Records), len(listing.Records), time.Since(start).Round(time.Millisecond))
	return nil
}

func (a *App) aboutPage() (StaticPage, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.about == nil {
		return StaticPage{}, false
	}
	page := *a.about
	if page.Title == "" {
		page.Title = "About"
	}
	page.Meta = PageMeta{
		Title:       page.Title + " - " + a.Identity.Title(),
		Description: a.Identity.AuthorBio(),
		URL:         a.Identity.AbsoluteURL(aboutPath),
		OGType:      "profile",
	}
	return page, true
}

func (a *App) contentAssets() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.assets
}

func (a *App) adminEnabled() bool {
	return a.Config.AdminPassword != ""
}

// Setup loads content and registers middleware and routes without starting
// the listener. Start calls it; tests call it directly.
func (a *App) Setup(ctx context.Context) error {
	if a.adminEnabled() && a.Config.SessionSecret == "" {
		return InvalidConfiguration("sessionSecret is required when adminPassword is set")
	}
	if err := a.Reload(ctx); err != nil {
		return err
	}
	if a.adminEnabled() {
		a.loginLimiter = NewLoginLimiter(5, time.Minute)
	}
	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start runs the preview server until ctx is cancelled.
func (a *App) Start(ctx context.Context) error {
	if err := a.Setup(ctx); err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Echo.Shutdown(shutdownCtx); err != nil {
			a.Logger().Errorf("shutdown: %v", err)
		}
	}()
	a.Logger().Infof("preview server listening on %s", a.Config.Addr)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// route returns p under the configured path prefix.
func (a *App) route(p string) string {
	prefix := strings.TrimSuffix(a.Identity.PathPrefix(), "/")
	return prefix + p
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET(a.route("/style.css"), a.handleStylesheet)
	e.GET(a.route("/chroma.css"), a.handleChromaCSS)
	e.GET(a.route("/robots.txt"), a.handleRobots)
	e.GET(a.route("/sitemap.xml"), a.handleSitemap)
	e.GET(a.route("/feed.xml"), a.handleFeed)

	e.GET(a.route("/"), a.handleIndex)
	e.GET(a.route("/page/:n/"), a.handleIndexPage)
	e.GET(a.route("/tag/:tag/"), a.handleTag)
	e.GET(a.route("/tag/:tag/page/:n/"), a.handleTagPage)
	e.GET(a.route(aboutPath), a.handleAbout)

	if a.adminEnabled() {
		e.GET(a.route("/admin/"), a.handleAdmin)
		e.POST(a.route("/admin/login/"), a.handleAdminLogin)
		e.POST(a.route("/admin/logout/"), a.handleAdminLogout)
		e.POST(a.route("/admin/reload/"), a.handleAdminReload)
		e.GET(a.route("/admin/preview/:id/"), a.handleAdminPreview)
	}

	// Posts live at author-chosen paths; everything else falls through to
	// static files and then 404.
	e.GET(a.route("/*"), a.handleContent)
}

// Close releases the record index and stops background work.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
