/*
Package cache memoizes solver results in a ports.SolutionStore.

A Manager serializes access per puzzle key so concurrent requests for the same
puzzle run the search once; the others wait and read the stored result. An
optional ports.DistributedLocker extends that guarantee across processes.
*/
package cache
