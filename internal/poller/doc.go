// Package poller implements the snapshot collection loop.
//
// The Poller:
//   - Walks dates from start (inclusive) to end (exclusive) by a fixed step
//   - Fetches one listing snapshot per date, paced to the request budget
//   - Flattens each record and hands the snapshot to a writer
//   - Stops at the first error; there is no retry and no resume point
package poller
