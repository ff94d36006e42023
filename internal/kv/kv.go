// Package kv provides the persistence contract of the storefront: a
// flat key-value store where each key holds the JSON-encoded array of
// records for one collection. Every mutation is a whole-collection
// read-modify-write; two concurrent writers can lose one writer's
// update (last-write-wins), which is acceptable for the single-user
// demo model this service implements.
package kv

import "context"

// Storage keys. A key does not exist until its collection is first
// written.
const (
	KeyProducts = "nexus_products"
	KeyOrders   = "nexus_orders"
	KeyUser     = "nexus_user"
)

// Store is the persistence contract. Get reports ok=false when the
// key has never been written. A failed Set means the collection was
// not written at all; there is no partial success and no retry.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}
