package utils

// Ptr returns a pointer to v. Handy for the many nullable columns on matches.
func Ptr[T any](v T) *T {
	return &v
}
