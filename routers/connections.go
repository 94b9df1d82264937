package routers

import (
	"github.com/Yulian302/lfusys-services-connections/auth"
	"github.com/Yulian302/lfusys-services-connections/auth/handlers"
	"github.com/gin-gonic/gin"
)

func RegisterConnectionRoutes(h *handlers.ConnectionsHandler, jwtSecret string, route *gin.Engine) {
	linkedin := route.Group("/connections/linkedin")

	linkedin.GET("/authorize", auth.JWTMiddleware(jwtSecret), h.Authorize)
	// the provider redirect may arrive without the session cookie
	linkedin.GET("/callback", auth.OptionalSession(jwtSecret), h.Callback)
	linkedin.GET("", auth.JWTMiddleware(jwtSecret), h.Status)
	linkedin.DELETE("", auth.JWTMiddleware(jwtSecret), h.Disconnect)
}
