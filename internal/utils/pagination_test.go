package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/teamqa/teamqa-api/internal/constants"
)

func paginationContext(t *testing.T, query string) *gin.Context {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/questions"+query, nil)
	return c
}

func TestGetPaginationParams_Defaults(t *testing.T) {
	params := GetPaginationParams(paginationContext(t, ""))

	require.Equal(t, constants.MinPageSize, params.Page)
	require.Equal(t, constants.DefaultPageSize, params.Limit)
}

func TestGetPaginationParams_ReadsQuery(t *testing.T) {
	params := GetPaginationParams(paginationContext(t, "?page=3&limit=50"))

	require.Equal(t, 3, params.Page)
	require.Equal(t, 50, params.Limit)
}

func TestGetPaginationParams_ClampsOutOfBounds(t *testing.T) {
	for _, query := range []string{
		"?page=0&limit=0",
		"?page=-2&limit=-5",
		"?page=abc&limit=xyz",
		"?limit=10000",
	} {
		params := GetPaginationParams(paginationContext(t, query))

		require.Equal(t, constants.MinPageSize, params.Page, "query %q", query)
		require.Equal(t, constants.DefaultPageSize, params.Limit, "query %q", query)
	}
}
