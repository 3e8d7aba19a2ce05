package utils

import "strings"

// SplitFeatures turns the comma-separated features text stored on a car into
// a clean list for API responses.
func SplitFeatures(features string) []string {
	parts := strings.Split(features, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if f := strings.TrimSpace(p); f != "" {
			out = append(out, f)
		}
	}
	return out
}
