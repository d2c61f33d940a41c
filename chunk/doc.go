// Package chunk holds the bookkeeping of chunk loading: classification of
// chunk paths by kind, the set of chunks already merged into the factory
// table, and the memoized results of asynchronous loads.
//
// # Caching policy
//
// Synchronous loads consult the loaded Set only; a failed synchronous load
// leaves no trace and is retried by the next caller. Asynchronous loads go
// through Cache, which keeps the first result per path, failures included.
// Every later caller receives the identical future until Clear is called.
package chunk
