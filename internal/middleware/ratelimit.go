package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"

	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/response"
)

// NewIPLimiter builds an in-memory per-IP limiter from a formatted rate
// such as "5-M".
func NewIPLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("parse rate %q: %w", formatted, err)
	}
	return limiter.New(memory.NewStore(), rate), nil
}

// RateLimit rejects clients that exceeded the limiter's rate with 429.
func RateLimit(l *limiter.Limiter, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		ip := c.ClientIP()
		state, err := l.Get(c.Request.Context(), ip)
		if err != nil {
			logger.Error("rate limit lookup failed", zap.String("ip", ip), zap.Error(err))
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message))
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprint(state.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprint(state.Remaining))
		if state.Reached {
			logger.Warn("rate limit exceeded", zap.String("ip", ip), zap.String("path", c.FullPath()))
			response.Error(c, appErrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
