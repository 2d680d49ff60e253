package middleware

// identity.go defines helper functions shared across middleware files.
// It extracts a user identifier for rate-limit keying: the user_id set
// by JWTAuth when present, otherwise the sub claim of a raw token left
// in context, otherwise "anon".

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// currentUserID returns a stable identifier for the requesting user.
// Unauthenticated requests map to "anon" so guests share one bucket per
// IP while logged-in clients get their own.
func currentUserID(c echo.Context) string {
	if v := c.Get("user_id"); v != nil {
		switch t := v.(type) {
		case string:
			if t != "" {
				return t
			}
		case uint64, int64, int, float64:
			return fmt.Sprint(t)
		}
	}
	if u := c.Get("user"); u != nil {
		if tok, ok := u.(*jwt.Token); ok {
			if cl, ok := tok.Claims.(jwt.MapClaims); ok {
				if v, ok := cl["sub"].(string); ok && v != "" {
					return v
				}
			}
		}
	}
	return "anon"
}
