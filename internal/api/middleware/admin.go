package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdminPIN gates admin routes on the x-admin-pin header. The compare is
// constant-time to avoid leaking the PIN through response timing.
func RequireAdminPIN(pin string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		supplied := ctx.GetHeader("x-admin-pin")
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(pin)) != 1 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid Admin PIN"})
			return
		}

		ctx.Next()
	}
}
