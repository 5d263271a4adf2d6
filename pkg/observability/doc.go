/*
Package observability turns solver lifecycle hooks into Prometheus metrics.

Metrics owns its registry so several solvers (or tests) can run side by side
without colliding on the global default registerer. Hooks returns a
domain.SearchHooks value that can be passed to watercap.WithSearchHooks, and
Handler exposes the registry for scraping.
*/
package observability
