package amp

import "slices"

// Permutations returns every ordering of values, in lexicographic order of
// their positions: the first permutation is values itself, the last one is
// values reversed. Equal values are still treated as distinct.
func Permutations(values []int64) [][]int64 {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}

	var out [][]int64
	for {
		p := make([]int64, len(idx))
		for i, j := range idx {
			p[i] = values[j]
		}
		out = append(out, p)

		// Next permutation of idx.
		i := len(idx) - 2
		for i >= 0 && idx[i] > idx[i+1] {
			i--
		}
		if i < 0 {
			return out
		}
		j := len(idx) - 1
		for idx[j] < idx[i] {
			j--
		}
		idx[i], idx[j] = idx[j], idx[i]
		slices.Reverse(idx[i+1:])
	}
}
