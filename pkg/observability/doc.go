/*
Package observability exports resolution engine activity as Prometheus metrics.

Metrics are fed through resolve.Hooks, so any graph built with
resolve.WithHooks(m.Hooks(name)) reports resolver invocations, cache hits,
observed cycles and invalidation sizes under the given graph label.
*/
package observability
