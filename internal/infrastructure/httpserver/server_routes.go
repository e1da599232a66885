package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	// Administrative cache surface. Gated by the host authorization hook;
	// Clear in particular is destructive.
	admin := s.echo.Group("/admin/cache", s.middleware.Admin.RequireAdminToken())
	admin.GET("/stats", s.getCacheStats)
	admin.DELETE("/keys", s.invalidateCacheKeys)
	admin.POST("/clear", s.clearCache)
}
