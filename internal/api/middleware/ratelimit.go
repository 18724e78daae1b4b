package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/vietanh2810/portfolio-site/internal/ratelimit"
)

// RateLimit rejects clients that exceed the limiter's quota with a 429 and the
// fixed message. The key is the client IP as resolved by gin's trusted proxy
// settings. Limiter failures let the request through.
func RateLimit(limiter ratelimit.Limiter, message string) gin.HandlerFunc {
	logRejection := &rate.Sometimes{First: 1, Interval: time.Minute}
	logFailure := &rate.Sometimes{First: 1, Interval: time.Minute}

	return func(ctx *gin.Context) {
		key := ctx.ClientIP()

		dec, err := limiter.Allow(ctx.Request.Context(), key)
		if err != nil {
			logFailure.Do(func() {
				zap.L().Error("rate limiter unavailable, allowing request", zap.String("key", key), zap.Error(err))
			})
			ctx.Next()
			return
		}

		reset := strconv.Itoa(int(math.Ceil(dec.ResetAfter.Seconds())))
		ctx.Header("RateLimit-Limit", strconv.Itoa(dec.Limit))
		ctx.Header("RateLimit-Remaining", strconv.Itoa(dec.Remaining))
		ctx.Header("RateLimit-Reset", reset)

		if !dec.Allowed {
			logRejection.Do(func() {
				zap.L().Warn("rate limit exceeded", zap.String("key", key), zap.String("path", ctx.Request.URL.Path))
			})
			ctx.Header("Retry-After", reset)
			ctx.String(http.StatusTooManyRequests, message)
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}
