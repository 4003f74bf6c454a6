package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupMiddleware 配置中間件
func SetupMiddleware(r *gin.Engine) {
	// CORS中間件
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Internal-Auth"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	// 日誌中間件
	r.Use(RequestLogger())

	// 錯誤恢復中間件
	r.Use(gin.Recovery())
}
