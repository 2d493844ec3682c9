// Package cache implements the concurrent, size-bounded LRU response cache
// the proxy keys on request URI. It is a sentinel-headed doubly linked
// list guarded by the classic readers-preference readers/writers
// discipline: many lookups may run in parallel, but an insert/evict has
// exclusive access to the list.
package cache
