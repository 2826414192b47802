// Package cache provides a transparent on-disk cache for API GET responses.
//
// Responses are keyed by method and URL only. Query parameters are sorted and
// ignored parameters are dropped; headers never take part in the key, so the
// credential header can change without invalidating cached snapshots. Only
// status 200 responses are stored.
package cache
