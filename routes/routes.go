package routes

// Package routes wires the HTTP surface of the PNU resolver.
//
// Layout:
// - api.go: versioned API routes (/v1/*) and middleware
// - web.go: informational pages (/, /docs)
//
// Usage:
// routes.SetupAllRoutes(router, resolveController, adminController)
