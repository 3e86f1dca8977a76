// Package store provides whole-document persistence for the storefront
// collections. Every collection lives under a single logical key and is
// serialized as one JSON document; mutations elsewhere in the codebase are
// read-modify-write cycles over the whole document. There is no partial
// update and no cross-process locking.
package store

import (
	"context"
	"strconv"
)

// Logical keys, carried over from the original storage layout. Review
// collections are keyed per product via ReviewsKey.
const (
	KeyProducts = "ut_products_v1"
	KeyUsers    = "ut_users_v1"
	KeyCart     = "ut_cart_v1"
	KeyOrders   = "ut_orders_v1"
	KeySession  = "ut_session"
	KeyTheme    = "ut_theme"
)

// Store is the single source of truth for all persisted collections.
//
// Load decodes the document stored under key into dest. An absent key or an
// undecodable document leaves dest untouched and returns nil, so callers
// always observe the empty collection rather than an error. Save marshals
// value and overwrites the document unconditionally. Delete removes the key;
// deleting an absent key is a no-op.
type Store interface {
	Load(ctx context.Context, key string, dest any) error
	Save(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ReviewsKey returns the storage key of the review collection for one
// product.
func ReviewsKey(productID int64) string {
	return "ut_reviews_" + strconv.FormatInt(productID, 10)
}
