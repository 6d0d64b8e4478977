package khmer

import "math"

// repairPenalty is the cost of the forced-repair trap: it must exceed any
// other single-step cost by enough that the DP never prefers it over a
// legitimate transition, while still guaranteeing progress.
const repairPenalty = 50.0

// runDP computes the minimum-cost cover of runes using dict for word
// lookups, per spec §4.4, reusing cost/parent buffers sized to at least
// len(runes)+1.
func runDP(runes []rune, dict *Dictionary, cost []float64, parent []int) ([]float64, []int) {
	n := len(runes)
	if cap(cost) < n+1 || cap(parent) < n+1 {
		cost = make([]float64, n+1)
		parent = make([]int, n+1)
	}
	cost = cost[:n+1]
	parent = parent[:n+1]

	inf := math.Inf(1)
	for i := range cost {
		cost[i] = inf
		parent[i] = -1
	}
	cost[0] = 0

	maxWordLen := dict.MaxWordLength()
	unknownCost := dict.UnknownCost()
	defaultCost := dict.DefaultCost()

	relax := func(i, j int, stepCost float64) {
		if j > n {
			return
		}
		newCost := cost[i] + stepCost
		if newCost < cost[j] {
			cost[j] = newCost
			parent[j] = i
		}
	}

	for i := 0; i < n; i++ {
		if cost[i] == inf {
			continue
		}
		c := runes[i]

		// Forced-repair trap: a stranded diacritic after a coeng, or a
		// dependent vowel with no preceding base to attach to.
		if (i > 0 && runes[i-1] == 0x17D2) || IsDependentVowel(c) {
			relax(i, i+1, unknownCost+repairPenalty)
			continue
		}

		if IsDigit(c) {
			relax(i, i+numberRunLength(runes, i, n), 1.0)
		}

		if IsSeparator(c) {
			relax(i, i+1, 0.1)
		}

		if acrLen := acronymLength(runes, i, n); acrLen > 0 {
			relax(i, i+acrLen, defaultCost)
		}

		endLimit := i + maxWordLen
		if endLimit > n {
			endLimit = n
		}
		for j := i + 1; j <= endLimit; j++ {
			if wordCost, ok := dict.LookupRuneRange(runes, i, j); ok {
				relax(i, j, wordCost)
			}
		}

		if IsKhmerChar(c) {
			clusterLen := khmerClusterLength(runes, i, n)
			stepCost := unknownCost
			if clusterLen == 1 && !IsValidSingleWord(c) {
				stepCost += 10.0
			}
			relax(i, i+clusterLen, stepCost)
		} else {
			relax(i, i+1, unknownCost)
		}
	}

	return cost, parent
}

// backtrack reconstructs the chosen cover from the DP parent table,
// starting at n and working back to 0. If a cell has no recorded parent
// (should not happen given the unknown fallback, but may arise on
// malformed edges), it falls back to a single-character escape.
func backtrack(runes []rune, parent []int) []string {
	n := len(runes)
	segments := make([]string, 0, n/2+1)
	k := n
	for k > 0 {
		prev := parent[k]
		if prev < 0 {
			prev = k - 1
		}
		segments = append(segments, string(runes[prev:k]))
		k = prev
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return segments
}

// khmerClusterLength returns the length, in runes, of the Khmer cluster
// starting at startIndex: a base followed by any run of coeng+consonant
// subscripts, dependent vowels, registers, and signs.
func khmerClusterLength(runes []rune, startIndex, n int) int {
	if startIndex >= n {
		return 0
	}
	if !IsBase(runes[startIndex]) {
		return 1
	}

	i := startIndex + 1
	for i < n {
		c := runes[i]
		if IsCoeng(c) {
			if i+1 < n && IsConsonant(runes[i+1]) {
				i += 2
				continue
			}
			break
		}
		if IsDependentVowel(c) || IsSign(c) || IsRegister(c) {
			i++
			continue
		}
		break
	}
	return i - startIndex
}

// numberRunLength returns the length of the maximal digit run starting at
// startIndex, where an interior ',' or '.' is consumed only when it is
// immediately followed by another digit.
func numberRunLength(runes []rune, startIndex, n int) int {
	i := startIndex
	if !IsDigit(runes[i]) {
		return 0
	}
	i++
	for i < n {
		c := runes[i]
		if IsDigit(c) {
			i++
			continue
		}
		if (c == ',' || c == '.') && i+1 < n && IsDigit(runes[i+1]) {
			i += 2
			continue
		}
		break
	}
	return i - startIndex
}

// acronymLength returns the length of a chain of one-cluster-plus-period
// segments starting at startIndex (e.g. "ក.ប.ស."), or 0 if startIndex does
// not begin such a chain.
func acronymLength(runes []rune, startIndex, n int) int {
	i := startIndex
	matched := false
	for {
		if i >= n || !IsBase(runes[i]) {
			break
		}
		clusterLen := khmerClusterLength(runes, i, n)
		dotIndex := i + clusterLen
		if dotIndex >= n || runes[dotIndex] != '.' {
			break
		}
		i = dotIndex + 1
		matched = true
		if i >= n {
			break
		}
	}
	if !matched {
		return 0
	}
	return i - startIndex
}
