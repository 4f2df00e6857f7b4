package reconcile

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ParseSalesRep turns a "Last, First" report value into the "first last"
// lookup key used by the user directory. Values without a comma are only
// normalized.
func ParseSalesRep(raw string) string {
	last, first, ok := strings.Cut(raw, ",")
	if !ok {
		return NormalizeName(raw)
	}
	return NormalizeName(first + " " + last)
}

// NormalizeName lower-cases name and collapses runs of whitespace.
func NormalizeName(name string) string {
	return cases.Lower(language.Und).String(strings.Join(strings.Fields(name), " "))
}
