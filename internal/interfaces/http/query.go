package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/vjmurenko/Warehouse-sub001/internal/application/dto"
)

// queryList admite el parámetro repetido (?id=a&id=b) o separado por comas (?id=a,b).
func queryList(c *fiber.Ctx, key string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		for _, v := range strings.Split(string(raw), ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func pageQuery(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
}

func documentListQuery(c *fiber.Ctx) dto.DocumentListQuery {
	return dto.DocumentListQuery{
		From:        c.Query("from"),
		To:          c.Query("to"),
		Numbers:     queryList(c, "number"),
		ResourceIDs: queryList(c, "resource_id"),
		UnitIDs:     queryList(c, "unit_id"),
		ClientIDs:   queryList(c, "client_id"),
		Page:        pageQuery(c),
	}
}
