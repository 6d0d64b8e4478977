package khmer

import "strings"

// isKnownToken reports whether tok is known per spec §4.6/§4.7: it starts
// with a digit, is a dictionary entry, is a single valid base character, is
// a single separator, or looks like an acronym (contains '.' and has
// length >= 2).
func isKnownToken(tok string, dict *Dictionary) bool {
	if tok == "" {
		return false
	}
	runes := []rune(tok)
	first := runes[0]

	switch {
	case IsDigit(first):
		return true
	case dict.Contains(tok):
		return true
	case len(runes) == 1 && IsValidSingleWord(first):
		return true
	case len(runes) == 1 && IsSeparator(first):
		return true
	case strings.Contains(tok, ".") && len(runes) >= 2:
		return true
	default:
		return false
	}
}

// groupUnknowns coalesces adjacent unknown tokens into single tokens,
// flushing the buffer whenever a known token is seen or whenever the
// buffered tail and the next unknown token disagree on Khmer/non-Khmer
// script (spec §4.6).
func groupUnknowns(tokens []string, dict *Dictionary) []string {
	out := make([]string, 0, len(tokens))
	var buf strings.Builder
	var tailFirstRune rune
	haveTail := false

	flush := func() {
		if buf.Len() > 0 {
			out = append(out, buf.String())
			buf.Reset()
			haveTail = false
		}
	}

	for _, tok := range tokens {
		if isKnownToken(tok, dict) {
			flush()
			out = append(out, tok)
			continue
		}

		first := []rune(tok)[0]
		if haveTail && IsKhmerChar(tailFirstRune) != IsKhmerChar(first) {
			flush()
		}
		buf.WriteString(tok)
		tailFirstRune = first
		haveTail = true
	}
	flush()

	return out
}

// IsUnknown reports whether tok would be annotated as an unknown token by
// the top-level segmenter: it is unknown unless it is in the dictionary,
// starts with a digit, is a single separator, is a single valid base
// character, or contains '.' and has length >= 2.
func (d *Dictionary) IsUnknown(tok string) bool {
	return !isKnownToken(tok, d)
}
