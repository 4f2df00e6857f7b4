// Package properties reads and writes FatTail dynamic property values.
package properties

import "github.com/centraldesktop/fattailsync/internal/fattail"

// Merge returns a copy of values with id set to value. An existing entry for
// id is overwritten in place; otherwise one entry is appended. The input is
// never modified.
func Merge(values []fattail.DynamicPropertyValue, id int, value string) []fattail.DynamicPropertyValue {
	out := make([]fattail.DynamicPropertyValue, len(values), len(values)+1)
	copy(out, values)
	for i := range out {
		if out[i].DynamicPropertyID == id {
			out[i].Value = value
			return out
		}
	}
	return append(out, fattail.DynamicPropertyValue{DynamicPropertyID: id, Value: value})
}

// Value returns the value stored for id.
func Value(values []fattail.DynamicPropertyValue, id int) (string, bool) {
	for _, v := range values {
		if v.DynamicPropertyID == id {
			return v.Value, true
		}
	}
	return "", false
}
