package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/persistorai/citegraph/internal/httputil"
)

func respondError(c *gin.Context, code int, errCode, message string) {
	httputil.RespondError(c, code, errCode, message)
}
