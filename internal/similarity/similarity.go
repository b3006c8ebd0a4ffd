// Package similarity provides the edit-distance primitive shared by
// summary deduplication and fuzzy call matching.
package similarity

// EditDistance returns the Levenshtein distance between a and b: the
// minimum number of single-character insertions, deletions, and
// substitutions transforming one into the other.
func EditDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// Score returns a similarity in [0, 1] where 1 means identical:
// 1 - editDistance/max(len(a), len(b)). Two empty strings score 1;
// one empty string scores 0 against anything non-empty.
func Score(a, b string) float64 {
	if a == b {
		return 1
	}
	la := len([]rune(a))
	lb := len([]rune(b))
	longer := la
	if lb > longer {
		longer = lb
	}
	if longer == 0 {
		return 1
	}
	return 1 - float64(EditDistance(a, b))/float64(longer)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
