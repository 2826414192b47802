// Package model defines the listing record types shared across the collector.
//
// A RawRecord is one entity of a /listings/historical response, with every
// top-level field classified once at parse time into one of four kinds:
// Scalar, NestedMap, QuoteMap or StringList. A FlatRecord is the single-level
// row derived from it.
//
// Conventions:
//   - Numbers keep their JSON text, so 0.1 is written back as 0.1
//   - Key order follows the source document
package model
