package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamqa/teamqa-api/internal/constants"
)

// PaginationParams carries the page window a client asked for.
type PaginationParams struct {
	Page  int
	Limit int
}

// PaginationResponse is the pagination block echoed in list responses.
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// GetPaginationParams reads page and limit from the query string. Values that
// are missing, malformed or out of bounds fall back to the defaults.
func GetPaginationParams(c *gin.Context) PaginationParams {
	params := PaginationParams{
		Page:  constants.MinPageSize,
		Limit: constants.DefaultPageSize,
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page >= constants.MinPageSize {
		params.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil &&
		limit >= constants.MinPageSize && limit <= constants.MaxPageSize {
		params.Limit = limit
	}

	return params
}
