/*
Package ports defines the driven ports (interfaces) of the watercap services.

These interfaces decouple the solver surfaces (CLI, HTTP, MCP) from storage
backends, so solutions can be cached in memory or shared through Redis.

# Key Interfaces

  - SolutionStore: persists solutions keyed by the puzzle key.
  - DistributedLocker: coordinates replicas so a puzzle is only solved once at a time.
*/
package ports
