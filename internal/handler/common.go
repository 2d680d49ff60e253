package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used in getUserID
	"regexp"  // regexp validates phone numbers
	"strconv" // strconv converts strings to numeric types
	"strings" // strings provides trimming helpers

	"github.com/labstack/echo/v4" // echo defines request context types
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// phoneRe matches a normalized Russian mobile number: 7 followed by ten digits.
var phoneRe = regexp.MustCompile(`^7\d{10}$`)

// normalizePhone strips formatting characters from a phone number and
// rewrites the +7/8 country prefixes to a bare leading 7.  The second
// return value reports whether the result is a valid normalized number.
func normalizePhone(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
		// '+', spaces, dashes and parentheses are formatting only
	}
	s := b.String()
	if len(s) == 11 && s[0] == '8' {
		s = "7" + s[1:]
	}
	return s, phoneRe.MatchString(s)
}

// parseIDParam parses a positive numeric path parameter.
func parseIDParam(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// parseQueryID parses a positive numeric query parameter.
func parseQueryID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.QueryParam(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// pageParams reads ?page and ?page_size with the usual clamping.
func pageParams(c echo.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
