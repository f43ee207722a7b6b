// Package views holds the default pages of a pubsite blog, written as templ
// components. Sites that want their own look pass a different
// pubsite.ViewFuncs to pubsite.New.
package views

import "github.com/eringen/pubsite"

// Default returns the built-in views.
func Default() pubsite.ViewFuncs {
	return pubsite.ViewFuncs{
		Listing:        Listing,
		Post:           Post,
		About:          About,
		NotFound:       NotFound,
		ServerError:    ServerError,
		AdminLogin:     AdminLogin,
		AdminDashboard: AdminDashboard,
	}
}
