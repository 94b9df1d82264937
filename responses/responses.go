package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func JSONSuccess(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{
		"message": msg,
	})
}

func JSONData(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

// Redirect issues a 302 so the browser follows with GET.
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}
