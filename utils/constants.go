// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = 10 * time.Minute

// SyncChannel carries schedule pushes from the foreground API to the
// delivery worker.
const SyncChannel = "schedule:sync"

// SyncRequestChannel carries requests from the delivery worker back to the
// foreground API.
const SyncRequestChannel = "schedule:requests"
