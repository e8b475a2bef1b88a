// Package normalize canonicalizes user-supplied strings before they are
// stored or used in queries.
package normalize

import "strings"

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name and keeps its case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role trims and lowercases a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// TaxID trims and uppercases PAN, GSTIN, and IFSC values.
func TaxID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// QueryParam trims a query-string value and keeps its case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Filter trims a list-filter value; "all" (any case) means no filter and
// becomes "".
func Filter(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}
