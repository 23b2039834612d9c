package middleware

// identity.go holds the helper shared by the rate limiter and cache
// for attributing a request to a caller.  It reads the "user_id" value
// stored by JWTAuth and falls back to "anon" for guests, so public
// routes are keyed by IP alone.

import "github.com/labstack/echo/v4"

// currentUserID returns the authenticated user's id from context, or
// "anon" when the request carries no valid session.
func currentUserID(c echo.Context) string {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s
	}
	return "anon"
}
