// Package handlers contains HTTP handler interfaces, implementations, and middleware.
//
// This package provides:
//   - Health check interfaces and implementations
//   - JWT authentication middleware
//   - Reusable middleware components
//
// # Health Checks
//
// The HealthChecker interface allows registering multiple named health checks
// that are executed in parallel:
//
//	checker := handlers.NewCompositeHealthChecker("v1.0.0")
//	checker.AddCheck("database", handlers.NewDatabaseCheck(db))
//	checker.AddCheck("cache", handlers.NewCacheCheck(cache))
//
//	status := checker.Check(ctx)
//	if !status.Healthy {
//	    log.Printf("Health check failed: %s", status.Message)
//	}
//
// # Authentication
//
// AuthMiddleware verifies bearer tokens and injects the authenticated
// student's identity into the request context:
//
//	auth := handlers.NewAuthMiddleware(tokenService)
//	mux.Handle("GET /api/v1/profile", auth.RequireAuth(profileHandler))
//	mux.Handle("POST /api/v1/colleges", auth.RequireAdmin(createHandler))
package handlers
