// Package fallback resolves a value from an ordered list of optional
// candidates. Catalog data is sparse; most planner inputs are "use the
// override if present, else the profile figure, else a documented default",
// and spelling those chains out inline buries the order.
package fallback

// First returns the value of the first non-nil candidate, or def when every
// candidate is nil. Candidates are checked in argument order, so the most
// specific source goes first.
func First[T any](def T, candidates ...*T) T {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return def
}
