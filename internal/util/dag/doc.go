// Package dag provides a small generic directed acyclic graph with a
// deterministic topological sort. Ties between ready vertices are broken by
// the order value each vertex was added with.
package dag
