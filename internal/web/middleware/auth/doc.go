// Package auth provides the authentication middleware and the access guard of the web application.
//
// Middleware runs once per request before the route handlers. It loads the session referenced by
// the session cookie, looks up the user bound to it and attaches the user, without the password
// hash, under the "CurrentUser" request local. Every authenticated request saves the session again,
// which slides its expiry. A request without a session, without a user id or with a user id that no
// longer exists simply has no identity. Failures of the session storage or the user store are
// request errors and end up in the fiber error handler.
//
// RequireLogin guards a route: requests without identity are redirected to the login page.
//
// Usage:
//
//	app.Use(authmiddleware.New(sessions, users))
//	app.Get("/dashboard", authmiddleware.RequireLogin, dashboardHandler)
package auth
