package middleware

import (
	"net/http"

	"github.com/flourmill/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SwaggerProtection hides the documentation endpoints when Swagger is
// disabled in configuration.
func SwaggerProtection(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.AbortWithStatusJSON(http.StatusNotFound,
				dto.NewErrorResponse(dto.ErrCodeNotFound, "API documentation is not available"))
			return
		}
		c.Next()
	}
}
