package server

// Route path constants
const (
	RouteIndex    = "/"
	RouteLogin    = "/login"
	RouteCallback = "/callback"
	RouteHealth   = "/healthz"
	RouteMetrics  = "/metrics"
)
