package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"mateswap/pkg/errors"
	"mateswap/pkg/logger"
	"mateswap/pkg/response"
)

// IPRateLimit limits every client IP to perMinute requests per minute, with
// a burst of the same size.
func IPRateLimit(perMinute int) echo.MiddlewareFunc {
	if perMinute <= 0 {
		perMinute = 120
	}
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(perMinute) / 60),
		Burst:     perMinute,
		ExpiresIn: 3 * time.Minute,
	})

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Path()
			return path == "/health" || path == "/metrics"
		},
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return response.Error(c, errors.Internal("Failed to identify client", err))
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			logger.Warn("RATE LIMIT: blocked request from %s to %s", identifier, c.Path())
			return response.Error(c, errors.TooManyRequests("Rate limit exceeded", time.Minute/time.Duration(perMinute)))
		},
	})
}
