package handlers

import (
	"strconv"

	"foodgram/domain"

	"github.com/gofiber/fiber/v2"
)

// viewerID is empty for anonymous requests.
func viewerID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

func pageRequest(c *fiber.Ctx) domain.PageRequest {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(domain.DefaultPageSize)))
	if err != nil || limit < 1 {
		limit = domain.DefaultPageSize
	}
	return domain.PageRequest{Page: page, Limit: limit}.Normalize()
}

// recipesLimit returns the recipes_limit query value, 0 meaning no limit.
func recipesLimit(c *fiber.Ctx) int {
	limit, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

// queryFlag reads a 0/1 (or true/false) filter. An absent key means "no
// filter"; anything else that does not parse is reported as invalid.
func queryFlag(c *fiber.Ctx, key string, invalid error) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, invalid
	}
	return &v, nil
}

// queryValues collects every value of a repeated query key, e.g.
// ?tags=lunch&tags=dinner.
func queryValues(c *fiber.Ctx, key string) []string {
	var values []string
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		if string(k) == key {
			values = append(values, string(v))
		}
	})
	return values
}
