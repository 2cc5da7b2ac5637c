package middleware

// identity.go holds the context keys set by JWTAuth and the accessors
// handlers use to read them back.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// UserID returns the authenticated user's id.  ok is false on routes that
// did not pass through JWTAuth.
func UserID(c echo.Context) (int, bool) {
	id, ok := c.Get(ctxUserID).(int)
	return id, ok
}

// Role returns the authenticated user's role, or "" when anonymous.
func Role(c echo.Context) string {
	r, _ := c.Get(ctxRole).(string)
	return r
}

// userKey identifies the caller in rate-limit keys: "<role>-<id>" when
// authenticated, "anon" otherwise.
func userKey(c echo.Context) string {
	id, ok := UserID(c)
	if !ok {
		return "anon"
	}
	return Role(c) + "-" + strconv.Itoa(id)
}
