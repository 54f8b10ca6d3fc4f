package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/middleware"
)

func actorID(c *gin.Context) string {
	if claims := middleware.CurrentUser(c); claims != nil {
		return claims.UserID
	}
	return ""
}
