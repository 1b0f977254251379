// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"errors"
	"fmt"
	"time"

	"debteraser/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// respondAppError serves an error produced by a repository or client,
// mapping AppError codes onto HTTP statuses.
func respondAppError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return models.RespondWithError(c, appErr.HTTPStatus(), appErr)
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}

// timeAgo renders a timestamp as a coarse relative description for feed
// display.
func timeAgo(t time.Time) string {
	seconds := int64(time.Since(t).Seconds())
	if seconds < 0 {
		seconds = 0
	}

	intervals := []struct {
		unit    string
		seconds int64
	}{
		{"year", 31536000},
		{"month", 2592000},
		{"week", 604800},
		{"day", 86400},
		{"hour", 3600},
		{"minute", 60},
	}

	for _, iv := range intervals {
		if n := seconds / iv.seconds; n >= 1 {
			if n == 1 {
				return fmt.Sprintf("1 %s ago", iv.unit)
			}
			return fmt.Sprintf("%d %ss ago", n, iv.unit)
		}
	}
	return "just now"
}
