package pubsite

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
)

// The admin area of the preview server lets the author see drafts and
// records that were left out of the listing, and trigger a reload.

func (a *App) adminHome() string {
	return a.Identity.Link("/admin/")
}

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(a.Identity, false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		a.loginLimiter.Reset(ip)
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, a.adminHome())
	}
	a.loginLimiter.Record(ip)
	a.Logger().Warnf("failed admin login from %s", ip)
	return RenderStatus(c, http.StatusUnauthorized, a.Views.AdminLogin(a.Identity, true, CsrfToken(c)))
}

func (a *App) handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, a.adminHome())
}

func (a *App) handleAdminReload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, a.adminHome())
	}
	msg := "reloaded"
	if err := a.Reload(c.Request().Context()); err != nil {
		c.Logger().Errorf("reload: %v", err)
		msg = "reload failed: " + err.Error()
	}
	return c.Redirect(http.StatusSeeOther, a.adminHome()+"?msg="+url.QueryEscape(msg))
}

// handleAdminPreview renders any indexed record, drafts included, with the
// post view.
func (a *App) handleAdminPreview(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, a.adminHome())
	}
	ctx := c.Request().Context()
	record, err := a.Store.GetByID(ctx, c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return a.notFound(c)
	}
	if err != nil {
		return err
	}
	listing, err := a.Cache.Listing(ctx)
	if err != nil {
		return err
	}
	c.Response().Header().Set("X-Robots-Tag", "noindex")
	return Render(c, a.Views.Post(a.Identity, BuildPostPage(a.Identity, record, listing.Records)))
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	ctx := c.Request().Context()
	all, err := a.Cache.All(ctx)
	if err != nil {
		return err
	}
	listing, err := a.Cache.Listing(ctx)
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(a.Identity, Dashboard{
		Records:     all,
		Diagnostics: listing.Diagnostics,
		Published:   len(listing.Records),
		Message:     msg,
	}, CsrfToken(c)))
}
