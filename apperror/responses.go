package apperror

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Error string `json:"error" example:"unauthorized"`
}

func errorResponse(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, HTTPError{Error: msg})
}

func BadRequestResponse(c *gin.Context, msg string) {
	errorResponse(c, http.StatusBadRequest, msg)
}

func UnauthorizedResponse(c *gin.Context, msg string) {
	errorResponse(c, http.StatusUnauthorized, msg)
}

func NotFoundResponse(c *gin.Context, msg string) {
	errorResponse(c, http.StatusNotFound, msg)
}

func TooManyRequestsResponse(c *gin.Context, msg string) {
	errorResponse(c, http.StatusTooManyRequests, msg)
}

func InternalServerErrorResponse(c *gin.Context, msg string) {
	errorResponse(c, http.StatusInternalServerError, msg)
}
