package dataset

import "strings"

// DropMatching removes every column whose lowercased name contains one of
// the substrings (compared lowercased). It returns the filtered frame and the
// dropped column names in header order.
func DropMatching(f *Frame, substrings []string) (*Frame, []string) {
	var dropped []string
	for _, h := range f.Headers {
		if containsAny(strings.ToLower(h), substrings) {
			dropped = append(dropped, h)
		}
	}
	return f.Drop(dropped...), dropped
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if sub == "" {
			continue
		}
		if strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
