// Package bucket maps block timestamps to fixed-width aggregation windows.
package bucket

import (
	"strconv"
	"time"
)

// DefaultWidth is the aggregation window used when none is configured
const DefaultWidth = time.Hour

// ID returns the bucket identifier for a timestamp, optionally shifted back by
// lookback whole buckets. Two timestamps in the same window share an id, and
// ids of consecutive windows differ by one, which is what the snapshot
// carry-forward search relies on.
func ID(ts time.Time, width time.Duration, lookback int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	n := ts.Unix()/int64(width.Seconds()) - int64(lookback)
	return strconv.FormatInt(n, 10)
}
