package middleware

import (
	"fmt"
	"time"

	"github.com/Yulian302/lfusys-services-connections/apperror"
	"github.com/Yulian302/lfusys-services-connections/logging"
	"github.com/Yulian302/lfusys-services-connections/ratelimit"
	"github.com/gin-gonic/gin"
)

func RateLimiterMiddleware(limiter ratelimit.RateLimiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		key := fmt.Sprintf("rate:ip:%s", ip)

		count, err := limiter.Incr(c, key)
		if err != nil {
			c.Next()
			return
		}

		if count == 1 {
			err = limiter.Expire(c, key, window)
			if err != nil {
				logging.FromContext(c.Request.Context()).Warn("could not set expiration for rate limiting", "error", err)
			}
		}

		if count > int64(limit) {
			apperror.TooManyRequestsResponse(c, "Too many requests. Please try again later")
			return
		}

		c.Next()
	}
}
