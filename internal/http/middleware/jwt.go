package middleware

import (
	"net/http"
	"strings"

	"mine_empire/internal/service"

	"github.com/gin-gonic/gin"
)

// JWT authenticates the request and stores the caller's address in the
// context under "address". Accepts "Authorization: Bearer <token>" or a
// token query parameter.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		address, err := service.ParseJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("address", address)
		c.Next()
	}
}
