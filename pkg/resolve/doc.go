/*
Package resolve implements a demand-driven resolution engine over ID-keyed data.

Raw records are turned into resolved values lazily by a caller-supplied
resolver. The resolver may read other keys of the same graph; each read is
recorded as a reverse (dependent) edge, so the dependency graph is discovered
while values are computed rather than declared up front. Results are memoized
until a change to a raw record invalidates exactly the records that read it,
directly or transitively.

# Variants

  - Graph: a single layer of raw values, one per key.
  - Layered: an immutable global layer plus independent scopes, each holding
    several named sources per key. The resolver receives all visible values
    ordered locals first, global last.

# Cycles

A key that is read while it is still being computed is reported as in
progress. GetCycle returns such a view without failing so resolvers can
treat the reference as a loop; Get converts it into ErrCycleDetected.

# Concurrency

A graph is not safe for concurrent use. Only one resolution chain is active at
a time and resolvers must not mutate the graph they are called from; doing so
panics with ErrReentrantMutation. Resolution recurses once per live reference,
so stack depth is bounded by the longest reference chain, not the data size.
*/
package resolve
