package slices

// Map returns the slice obtained by applying fn to each element of s.
func Map[S ~[]E, E any, R any](s S, fn func(E) R) []R {
	rv := make([]R, len(s))
	for i, e := range s {
		rv[i] = fn(e)
	}
	return rv
}

// Filter returns a new slice containing the elements of s for which
// predicate returns true.
func Filter[S ~[]E, E any](s S, predicate func(E) bool) S {
	rv := make(S, 0, len(s))
	for _, e := range s {
		if predicate(e) {
			rv = append(rv, e)
		}
	}
	return rv
}
