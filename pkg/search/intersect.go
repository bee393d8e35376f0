package search

// Intersect reduces identifier sets to their logical AND. With zero input
// sets it returns nothing: the caller decides whether "no constraints" means
// "match all", the intersector never infers it. With one or more sets it
// returns the identifiers present in every set, in the (deduplicated) order
// of the first set.
func Intersect(sets [][]string) []string {
	if len(sets) == 0 {
		return nil
	}

	// The first set is the candidate pool.
	seen := make(map[string]struct{}, len(sets[0]))
	candidates := make([]string, 0, len(sets[0]))
	for _, id := range sets[0] {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		candidates = append(candidates, id)
	}

	for _, set := range sets[1:] {
		if len(candidates) == 0 {
			return nil
		}
		members := make(map[string]struct{}, len(set))
		for _, id := range set {
			members[id] = struct{}{}
		}

		kept := candidates[:0]
		for _, id := range candidates {
			if _, ok := members[id]; ok {
				kept = append(kept, id)
			}
		}
		candidates = kept
	}

	if len(candidates) == 0 {
		return nil
	}
	return candidates
}
