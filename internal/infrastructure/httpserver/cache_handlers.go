package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/harborline/saas-cache/internal/core/domain/cachekey"
)

// getCacheStats exposes the running hit/miss counters. Advisory data only.
func (s *Server) getCacheStats(c echo.Context) error {
	stats := s.cacheService.Stats(c.Request().Context())
	return c.JSON(http.StatusOK, stats)
}

// invalidateCacheKeys bulk-deletes every key under the given prefix.
// ?pattern=tenant:42:* and ?prefix=tenant:42: are both accepted.
func (s *Server) invalidateCacheKeys(c echo.Context) error {
	pattern := c.QueryParam("pattern")
	if pattern == "" {
		if prefix := c.QueryParam("prefix"); prefix != "" {
			pattern = cachekey.PrefixPattern(prefix).String()
		}
	}
	if pattern == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "pattern or prefix query parameter is required")
	}
	removed := s.cacheService.InvalidatePattern(c.Request().Context(), cachekey.Pattern(pattern))
	s.logger.WithFields(map[string]interface{}{"pattern": pattern, "removed": removed}).Info("cache keys invalidated")
	return c.JSON(http.StatusOK, map[string]interface{}{"pattern": pattern, "removed": removed})
}

// clearCache empties the whole cache and resets statistics.
func (s *Server) clearCache(c echo.Context) error {
	s.cacheService.Clear(c.Request().Context())
	s.logger.Warn("cache cleared via admin endpoint")
	return c.NoContent(http.StatusNoContent)
}
