package http

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultStepLimit = 500
	maxStepLimit     = 5000
)

// Pagination contains offset-based pagination info.
type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

// pageParams reads ?offset= and ?limit=. ok is false when the caller asked
// for neither, in which case everything is returned.
func pageParams(c *fiber.Ctx) (offset, limit int, ok bool) {
	if c.Query("offset") == "" && c.Query("limit") == "" {
		return 0, 0, false
	}
	offset = c.QueryInt("offset", 0)
	limit = c.QueryInt("limit", defaultStepLimit)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxStepLimit {
		limit = defaultStepLimit
	}
	return offset, limit, true
}

// page slices items to [offset, offset+limit).
func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

// SetLinkHeaders adds RFC 8288 Link headers for paginated responses. Query
// parameters other than offset and limit are carried over.
func SetLinkHeaders(c *fiber.Ctx, p Pagination) {
	base := c.Path()
	q := url.Values{}
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		key := string(k)
		if key != "offset" && key != "limit" {
			q.Add(key, string(v))
		}
	})

	link := func(offset int, rel string) string {
		q.Set("offset", fmt.Sprint(offset))
		q.Set("limit", fmt.Sprint(p.Limit))
		return fmt.Sprintf(`<%s?%s>; rel="%s"`, base, q.Encode(), rel)
	}

	links := []string{link(0, "first")}
	if p.Offset > 0 {
		links = append(links, link(max(p.Offset-p.Limit, 0), "prev"))
	}
	if p.Offset+p.Limit < p.Total {
		links = append(links, link(p.Offset+p.Limit, "next"))
	}
	links = append(links, link(max(p.Total-p.Limit, 0), "last"))

	c.Set(fiber.HeaderLink, strings.Join(links, ", "))
}
