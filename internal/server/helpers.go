package server

import (
	"strconv"
	"strings"

	"framez/internal/models"

	"github.com/gofiber/fiber/v2"
)

// uintParam parses a positive integer route parameter.
func uintParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || value == 0 {
		return 0, models.NewValidationError("Invalid " + name + " parameter")
	}
	return uint(value), nil
}

// optionalUintQuery parses a positive integer query value, returning 0
// when the parameter is absent.
func optionalUintQuery(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || value == 0 {
		return 0, models.NewValidationError("Invalid " + name + " parameter")
	}
	return uint(value), nil
}

// uintListQuery parses a comma-separated list of IDs. Returns nil when
// the parameter is absent, and an empty non-nil slice for an explicit
// empty list.
func uintListQuery(c *fiber.Ctx, name string) ([]uint, error) {
	raw := c.Query(name)
	if raw == "" {
		if c.Context().QueryArgs().Has(name) {
			return []uint{}, nil
		}
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	out := make([]uint, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, models.NewValidationError("Invalid " + name + " parameter")
		}
		out = append(out, uint(value))
	}
	return out, nil
}
