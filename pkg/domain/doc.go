/*
Package domain contains the core domain models of the watercap solver.

It defines the puzzle being solved (buckets, target, step budget), the moves the
engine may apply, and the Solution it reports. This package is kept pure and free
of I/O, search logic and persistence, so adapters and the engine can share it.

# Key Entities

  - Bucket: a container with a fixed Capacity and a starting Quantity.
  - Puzzle: the step budget, the ordered buckets and the Target to reach.
  - Move: one of Fill, Empty, Pour (and the optional Halve) over bucket ids.
  - Solution: the Outcome of a search, the winning Moves in execution order and Stats.
  - SearchHooks: callbacks fired by the engine for observability.
*/
package domain
