package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// AdminMiddleware stands in for the host application's authorization layer
// on the administrative cache endpoints. A static bearer token is checked in
// constant time; an empty configured token disables the endpoints entirely.
type AdminMiddleware struct {
	token  string
	logger *logrus.Logger
}

func NewAdminMiddleware(token string, logger *logrus.Logger) *AdminMiddleware {
	return &AdminMiddleware{token: token, logger: logger}
}

func (m *AdminMiddleware) RequireAdminToken() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.token == "" {
				return echo.NewHTTPError(http.StatusNotFound)
			}
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			presented, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(m.token)) != 1 {
				if m.logger != nil {
					m.logger.WithField("path", c.Path()).Warn("rejected admin cache request")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid admin token")
			}
			return next(c)
		}
	}
}
