// Package search implements the depth-bounded backtracking solver.
//
// The engine keeps a stack of bucket quantity snapshots (State), walks a fixed,
// ordered move table (BuildMoveTable) depth first, and records the first winning
// path it meets. Moves are appended post-order while the recursion unwinds and the
// log is reversed once at the end, so Solution.Moves is in execution order.
//
// Complexity:
//
//   - Time:   O((3n-1)^MaxSteps) applied moves in the worst case for n buckets.
//   - Memory: O(MaxSteps * n) for the snapshot stack, plus the optional failure memo.
//
// The result only depends on the puzzle and the table order: the same input
// always yields the same moves, with or without memoization.
package search
