package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// InternalAuthMiddleware 內部接口認證中間件
func InternalAuthMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 獲取請求頭中的認證信息
		authToken := c.GetHeader("X-Internal-Auth")

		// 驗證認證信息
		if token == "" || authToken != token {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Forbidden",
			})
			return
		}

		c.Next()
	}
}
