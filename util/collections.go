package util

// Unique returns a slice with duplicate values removed, keeping the first
// occurrence of each.
func Unique[T comparable](slice []T) []T {
	seen := make(map[T]struct{}, len(slice))
	result := make([]T, 0, len(slice))
	for _, item := range slice {
		if _, ok := seen[item]; !ok {
			seen[item] = struct{}{}
			result = append(result, item)
		}
	}
	return result
}

// CleanList sanitizes every entry, drops the empty ones and removes
// duplicates.
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = SanitizeString(s); s != "" {
			out = append(out, s)
		}
	}
	return Unique(out)
}
