// Package flatten turns parsed listing records into single-level rows.
package flatten

import (
	"strings"

	"github.com/ekorchmar/HistoricalCoinData/internal/model"
)

// Separator joins a parent key and a nested key.
const Separator = "_"

// ListSeparator joins list elements into one cell.
const ListSeparator = ","

// Flatten converts one record into a flat row:
//   - quote: {"USD": {"price": 1}} -> USD_price
//   - nested map: {"platform": {"id": 1}} -> platform_id (one level only)
//   - list: ["a", "b"] -> "a,b"
//   - scalar: unchanged
//
// A derived key produced twice keeps the later value.
func Flatten(rec model.RawRecord) model.FlatRecord {
	var out model.FlatRecord
	for _, f := range rec.Fields {
		switch f.Kind {
		case model.FieldQuoteMap:
			for _, q := range f.Quotes {
				for _, m := range q.Metrics {
					out.Set(q.Currency+Separator+m.Key, m.Value)
				}
			}
		case model.FieldNestedMap:
			for _, e := range f.Entries {
				out.Set(f.Key+Separator+e.Key, e.Value)
			}
		case model.FieldStringList:
			out.Set(f.Key, model.StringValue(strings.Join(f.List, ListSeparator)))
		default:
			out.Set(f.Key, f.Scalar)
		}
	}
	return out
}

// All flattens every record, preserving order.
func All(recs []model.RawRecord) []model.FlatRecord {
	out := make([]model.FlatRecord, len(recs))
	for i, rec := range recs {
		out[i] = Flatten(rec)
	}
	return out
}

// Columns returns the union of keys across rows in first-occurrence order.
func Columns(rows []model.FlatRecord) []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, row := range rows {
		for _, k := range row.Keys() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			cols = append(cols, k)
		}
	}
	return cols
}
