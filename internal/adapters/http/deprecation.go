package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DeprecatedRoute marks an endpoint as deprecated with sunset date.
type DeprecatedRoute struct {
	Path        string    // Route pattern, ":name" segments match anything
	SunsetDate  time.Time // Date when endpoint will be removed
	Alternative string    // Recommended alternative endpoint (optional)
}

// legacyRoutes are the unversioned endpoints of the first release of the API.
var legacyRoutes = []DeprecatedRoute{
	{Path: "/graham", SunsetDate: legacySunset, Alternative: "/v1/hull/graham"},
	{Path: "/jarvis", SunsetDate: legacySunset, Alternative: "/v1/hull/jarvis"},
	{Path: "/chan", SunsetDate: legacySunset, Alternative: "/v1/hull/chan"},
	{Path: "/incremental", SunsetDate: legacySunset, Alternative: "/v1/hull/incremental"},
	{Path: "/compare", SunsetDate: legacySunset, Alternative: "/v1/compare"},
	{Path: "/api-info", SunsetDate: legacySunset, Alternative: "/v1/algorithms"},
	{Path: "/health", SunsetDate: legacySunset, Alternative: "/v1/health"},
}

var legacySunset = time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC)

// httpDate is the IMF-fixdate layout of RFC 9110.
const httpDate = "Mon, 02 Jan 2006 15:04:05 GMT"

// DeprecationMiddleware adds Deprecation, Sunset, and Link headers to deprecated endpoints.
func DeprecationMiddleware(deprecated []DeprecatedRoute) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, d := range deprecated {
			if !matchPattern(c.Path(), d.Path) {
				continue
			}
			// RFC 8594
			c.Set("Deprecation", "true")
			c.Set("Sunset", d.SunsetDate.UTC().Format(httpDate))

			if d.Alternative != "" {
				c.Set(fiber.HeaderLink, fmt.Sprintf(`<%s>; rel="successor-version"`, d.Alternative))
			}

			days := time.Until(d.SunsetDate).Hours() / 24
			c.Set(fiber.HeaderWarning, fmt.Sprintf(`299 - "Deprecated API, will sunset in %.0f days"`, days))
			break
		}

		return c.Next()
	}
}

// matchPattern matches a path against a route pattern segment by segment.
// "/v1/hull/:algorithm" matches "/v1/hull/chan".
func matchPattern(path, pattern string) bool {
	if path == pattern {
		return true
	}
	ps := strings.Split(strings.Trim(path, "/"), "/")
	qs := strings.Split(strings.Trim(pattern, "/"), "/")
	if len(ps) != len(qs) {
		return false
	}
	for i := range qs {
		if strings.HasPrefix(qs[i], ":") {
			if ps[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != qs[i] {
			return false
		}
	}
	return true
}
