package khmer

import "strings"

// Variant Generator produces orthographic equivalents of a dictionary word:
// spellings that differ from the canonical entry only in ways Khmer writers
// commonly interchange, so the segmenter treats them as the same word.

var (
	coengTa = "្ត"
	coengDa = "្ដ"
)

const roRune = rune(0x179A)

// generateVariants returns the set of texts reachable from word by any
// (possibly zero) of:
//   - swapping coeng-ta (U+17D2 U+178F) and coeng-da (U+17D2 U+178A) for each
//     other;
//   - swapping adjacent subscripts where one is coeng-Ro (U+17D2 U+179A) and
//     the other is any non-Ro subscript, in either order.
//
// word itself is excluded from the result.
func generateVariants(word string) []string {
	seen := map[string]bool{word: true}
	out := make([]string, 0, 2)

	addIfNew := func(w string) {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}

	base := []string{word}
	if strings.Contains(word, coengTa) {
		v := strings.ReplaceAll(word, coengTa, coengDa)
		addIfNew(v)
		base = append(base, v)
	}
	if strings.Contains(word, coengDa) {
		v := strings.ReplaceAll(word, coengDa, coengTa)
		addIfNew(v)
		base = append(base, v)
	}

	for _, w := range base {
		if swapped := swapCoengRoOrder(w); swapped != w {
			addIfNew(swapped)
		}
	}

	return out
}

// swapCoengRoOrder swaps adjacent Coeng+Ro and Coeng+X subscript units in
// both directions, applying the swap once globally over all non-overlapping
// matches.
func swapCoengRoOrder(word string) string {
	runes := []rune(word)
	n := len(runes)
	if n < 4 {
		return word
	}

	result := make([]rune, 0, n)
	i := 0
	changed := false

	for i < n {
		// Coeng + Ro + Coeng + X (X != Ro)
		if i+3 < n &&
			runes[i] == 0x17D2 && runes[i+1] == roRune &&
			runes[i+2] == 0x17D2 && runes[i+3] != roRune {
			result = append(result, runes[i+2], runes[i+3], runes[i], runes[i+1])
			i += 4
			changed = true
			continue
		}
		// Coeng + X + Coeng + Ro (X != Ro)
		if i+3 < n &&
			runes[i] == 0x17D2 && runes[i+1] != roRune &&
			runes[i+2] == 0x17D2 && runes[i+3] == roRune {
			result = append(result, runes[i+2], runes[i+3], runes[i], runes[i+1])
			i += 4
			changed = true
			continue
		}
		result = append(result, runes[i])
		i++
	}

	if changed {
		return string(result)
	}
	return word
}
