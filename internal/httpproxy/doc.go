// Package httpproxy implements the forward-proxy collaborator layer: the
// TCP accept loop, request parsing, upstream request rewriting, and
// response relay that drive the cache package end to end. None of this
// is part of the cache's own invariants — it is the un-hardened glue a
// runnable proxy binary needs around it.
package httpproxy
