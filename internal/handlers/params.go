package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"social-service/internal/apperr"
)

// pathID parses a numeric path parameter.
func pathID(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, apperr.Validationf("invalid %s", name)
	}
	return id, nil
}

// pageParams reads page/limit query parameters with the API defaults.
func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = 6
	}
	return page, limit
}

// totalPages computes the page count for the pagination envelope.
func totalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
