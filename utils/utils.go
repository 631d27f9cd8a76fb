package utils

import "strings"

func StringInSlice(a string, list []string) bool {
	for _, b := range list {
		if b == a {
			return true
		}
	}
	return false
}

// IsEmptyMarker reports whether a feed value denotes "no value";
// upstream feeds use both the empty string and a lone dash.
func IsEmptyMarker(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed == "" || trimmed == "-"
}

// SplitAndTrim comma-splits, trims each element and drops empties.
func SplitAndTrim(value string) []string {
	var parts []string
	for _, p := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
