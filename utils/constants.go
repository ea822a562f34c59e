// File: utils/constants.go
package utils

import "time"

// DeviceCachePrefix is the prefix used for Redis device-info cache keys.
const DeviceCachePrefix = "device:"

// DeviceCacheTTL is the time-to-live for device-info cache entries.
const DeviceCacheTTL = 10 * time.Minute
