package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare", "79261234567", "79261234567", true},
		{"plus prefix", "+79261234567", "79261234567", true},
		{"eight prefix", "89261234567", "79261234567", true},
		{"formatted", "+7 (926) 123-45-67", "79261234567", true},
		{"too short", "7926123456", "", false},
		{"too long", "792612345678", "", false},
		{"letters", "7926abc4567", "", false},
		{"empty", "", "", false},
		{"foreign country code", "+14155550123", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := normalizePhone(tc.in)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func newTestContext(t *testing.T, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest("GET", target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestPageParams(t *testing.T) {
	c := newTestContext(t, "/v1/services")
	page, ps := pageParams(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, ps)

	c = newTestContext(t, "/v1/services?page=3&page_size=50")
	page, ps = pageParams(c)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, ps)

	// Clamped to sane bounds.
	c = newTestContext(t, "/v1/services?page=-1&page_size=1000")
	page, ps = pageParams(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 100, ps)
}

func TestGetUserID(t *testing.T) {
	c := newTestContext(t, "/")

	_, err := getUserID(c)
	assert.Error(t, err, "missing user_id should not resolve")

	// JWT numeric claims arrive as float64.
	c.Set("user_id", float64(7))
	id, err := getUserID(c)
	assert.NoError(t, err)
	assert.Equal(t, uint64(7), id)

	c.Set("user_id", "15")
	id, err = getUserID(c)
	assert.NoError(t, err)
	assert.Equal(t, uint64(15), id)
}
