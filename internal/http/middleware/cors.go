package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowHeaders = "Authorization,X-API-KEY, Origin, X-Requested-With, Content-Type, Accept, Access-Control-Request-Method"
	corsAllowMethods = "GET, POST, OPTIONS, PATCH, PUT, DELETE"
	allowMethods     = "GET, POST, PATCH, OPTIONS, PUT, DELETE"
)

// CORS answers preflight requests and allows every origin unless
// allowedOrigins names specific ones.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowAll := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")

	return func(ctx *gin.Context) {
		origin := ctx.GetHeader("Origin")
		if allowAll {
			ctx.Header("Access-Control-Allow-Origin", "*")
		} else if origin != "" && slices.Contains(allowedOrigins, origin) {
			ctx.Header("Access-Control-Allow-Origin", origin)
			ctx.Writer.Header().Add("Vary", "Origin")
		}
		ctx.Header("Access-Control-Allow-Headers", corsAllowHeaders)
		ctx.Header("Access-Control-Allow-Methods", corsAllowMethods)
		ctx.Header("Allow", allowMethods)

		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}

		ctx.Next()
	}
}
