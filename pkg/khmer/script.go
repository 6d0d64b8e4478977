package khmer

import "unicode"

// Unicode character classification for the Khmer script.
// Khmer Unicode Block: U+1780 - U+17FF.

// ValidSingleWords are single characters that can stand alone as words:
// consonants and independent vowels that commonly appear unattached in text.
var ValidSingleWords = map[rune]bool{
	'\u1780': true, '\u1781': true, '\u1782': true, '\u1784': true, '\u1785': true,
	'\u1786': true, '\u1789': true, '\u178A': true, '\u178F': true, '\u1791': true,
	'\u1796': true, '\u179A': true, '\u179B': true, '\u179F': true, '\u17A1': true, // Consonants
	'\u17AC': true, '\u17AE': true, '\u17AA': true, '\u17AF': true, '\u17B1': true,
	'\u17A6': true, '\u17A7': true, '\u17B3': true, // Independent Vowels
}

// IsKhmerChar checks if character is in the Khmer Unicode block.
func IsKhmerChar(r rune) bool {
	return r >= 0x1780 && r <= 0x17FF
}

// IsBase checks if character is a base: a consonant (U+1780-U+17A2) or an
// independent vowel (U+17A3-U+17B3), the anchor of a cluster.
func IsBase(r rune) bool {
	return r >= 0x1780 && r <= 0x17B3
}

// IsConsonant checks if character is a Khmer consonant (U+1780 - U+17A2).
func IsConsonant(r rune) bool {
	return r >= 0x1780 && r <= 0x17A2
}

// IsCoeng checks if character is the Coeng (subscript combiner) U+17D2.
func IsCoeng(r rune) bool {
	return r == 0x17D2
}

// IsRegister checks if character is a register shifter (U+17C9, U+17CA).
func IsRegister(r rune) bool {
	return r == 0x17C9 || r == 0x17CA
}

// IsDependentVowel checks if character is a dependent vowel (U+17B6 - U+17C5).
func IsDependentVowel(r rune) bool {
	return r >= 0x17B6 && r <= 0x17C5
}

// IsSign checks if character is a sign/diacritic (U+17C6-U+17D3, plus U+17DD
// Atthacan).
func IsSign(r rune) bool {
	return (r >= 0x17C6 && r <= 0x17D3) || r == 0x17DD
}

// IsDigit checks if character is a digit (ASCII or Khmer).
func IsDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 0x17E0 && r <= 0x17E9)
}

// IsSeparator checks if character is a separator: Khmer punctuation
// (U+17D4-U+17DB) or any character classified by Unicode as punctuation,
// symbol, separator, or whitespace.
func IsSeparator(r rune) bool {
	if r >= 0x17D4 && r <= 0x17DB {
		return true
	}
	return unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r)
}

// IsValidSingleWord checks if character can be a single-character word.
func IsValidSingleWord(r rune) bool {
	return ValidSingleWords[r]
}
