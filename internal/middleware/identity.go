package middleware

// identity.go provides accessors for the values JWTAuth stashes in the Echo
// context. Handlers use these instead of reaching into c.Get with raw keys.

import "github.com/labstack/echo/v4"

// Token returns the caller's raw bearer token, or "" for unauthenticated
// requests. Browse endpoints forward it opportunistically; funnel endpoints
// sit behind JWTAuth and can rely on it being present.
func Token(c echo.Context) string {
	if v, ok := c.Get("token").(string); ok {
		return v
	}
	return ""
}

// Username returns the authenticated caller's username, or "guest" when the
// request carries no identity. The guest value only ever feeds rate-limit
// keys; funnel handlers require JWTAuth and always see a real username.
func Username(c echo.Context) string {
	if v, ok := c.Get("username").(string); ok && v != "" {
		return v
	}
	return "guest"
}
