// internal/core/services/keys.go
package services

import (
	"strconv"
	"time"
)

// Cache keys and invalidation patterns.
const (
	stockAllKey           = "stock:all"
	stockCachePattern     = "stock:*"
	catalogProductsKey    = "catalog:products"
	catalogCachePattern   = "catalog:*"
	dashboardCachePattern = "dashboard:*"
	idempotencyKeyPrefix  = "idem:"
)

func stockStoreKey(storeID int64) string {
	return "stock:store:" + strconv.FormatInt(storeID, 10)
}

func dashboardKey(from, to time.Time) string {
	return "dashboard:" + from.UTC().Format(time.RFC3339) + ":" + to.UTC().Format(time.RFC3339)
}

func idempotencyCacheKey(key string) string {
	return idempotencyKeyPrefix + key
}
