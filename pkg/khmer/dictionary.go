package khmer

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"
)

const (
	khmerStart = 0x1780
	khmerEnd   = 0x17FF
	khmerRange = khmerEnd - khmerStart + 1 // 128

	minFreqFloor            = 5.0
	defaultCostNoFrequency  = 10.0
	unknownCostNoFrequency  = 20.0
	orMark                  = "ឬ" // ឬ, "or"
	repetitionMark          = "ៗ" // ៗ
	strayCoengPrefix        = "្"
)

// trieNode is a node in the dictionary trie, with a flat array for the
// Khmer codepoint range (O(1) lookup) and a map fallback for everything
// else.
type trieNode struct {
	khmerChildren [khmerRange]*trieNode
	otherChildren map[rune]*trieNode
	isWord        bool
	cost          float64
}

func (n *trieNode) getChild(r rune) *trieNode {
	if r >= khmerStart && r <= khmerEnd {
		return n.khmerChildren[r-khmerStart]
	}
	if n.otherChildren == nil {
		return nil
	}
	return n.otherChildren[r]
}

func (n *trieNode) getOrCreateChild(r rune) *trieNode {
	if r >= khmerStart && r <= khmerEnd {
		idx := r - khmerStart
		if n.khmerChildren[idx] == nil {
			n.khmerChildren[idx] = &trieNode{}
		}
		return n.khmerChildren[idx]
	}
	if n.otherChildren == nil {
		n.otherChildren = make(map[rune]*trieNode)
	}
	child, exists := n.otherChildren[r]
	if !exists {
		child = &trieNode{}
		n.otherChildren[r] = child
	}
	return child
}

// Dictionary holds the word set, per-word cost table, and a trie for fast
// longest-match lookups during segmentation.
type Dictionary struct {
	words         map[string]bool
	wordCosts     map[string]float64
	maxWordLength int
	defaultCost   float64
	unknownCost   float64
	trie          *trieNode
}

// NewDictionary creates an empty dictionary with the no-frequency default
// costs from spec §3.
func NewDictionary() *Dictionary {
	return &Dictionary{
		words:       make(map[string]bool),
		wordCosts:   make(map[string]float64),
		defaultCost: defaultCostNoFrequency,
		unknownCost: unknownCostNoFrequency,
		trie:        &trieNode{},
	}
}

// MaxWordLength returns the longest retained dictionary entry length, in
// code units (runes).
func (d *Dictionary) MaxWordLength() int { return d.maxWordLength }

// DefaultCost returns the cost assigned to dictionary words with no
// frequency entry.
func (d *Dictionary) DefaultCost() float64 { return d.defaultCost }

// UnknownCost returns the cost assigned to a fallback "unknown" transition.
func (d *Dictionary) UnknownCost() float64 { return d.unknownCost }

// Load reads newline-separated dictionary words from dictText and an
// optional frequency map, and builds the word set, cost table, and trie
// under the invariants of spec §3/§4.3.
func (d *Dictionary) Load(dictText string, freq map[string]int) error {
	if err := d.loadWords(strings.NewReader(dictText)); err != nil {
		return err
	}
	d.loadFrequencies(freq)
	d.buildTrie()
	return nil
}

func (d *Dictionary) loadWords(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := cleanLine(scanner.Text())
		if word == "" {
			continue
		}

		runes := []rune(word)
		if len(runes) == 1 && !IsValidSingleWord(runes[0]) {
			continue
		}

		d.addWordWithVariants(word)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading dictionary text: %w", err)
	}

	d.filterSpuriousEntries()
	d.recalcMaxWordLength()

	tracer().Infof("loaded %d dictionary words, max length %d", len(d.words), d.maxWordLength)
	return nil
}

// cleanLine trims whitespace and strips zero-width marks from a raw
// dictionary/input line, tolerating both CRLF and LF line endings.
func cleanLine(line string) string {
	line = strings.TrimRight(line, "\r")
	line = strings.TrimSpace(line)
	return stripZeroWidth(line)
}

func (d *Dictionary) addWordWithVariants(word string) {
	d.addWord(word)
	for _, v := range generateVariants(word) {
		d.addWord(v)
	}
}

func (d *Dictionary) addWord(word string) {
	d.words[word] = true
	if l := len([]rune(word)); l > d.maxWordLength {
		d.maxWordLength = l
	}
}

// filterSpuriousEntries drops entries that are compounds of the ឬ ("or")
// mark whose other parts are all existing dictionary members (a single
// member suffices when ឬ is the prefix or suffix), entries containing the ៗ
// repetition mark, and entries beginning with a stray coeng.
func (d *Dictionary) filterSpuriousEntries() {
	toRemove := make(map[string]bool)

	for word := range d.words {
		if strings.Contains(word, orMark) && len([]rune(word)) > 1 {
			switch {
			case strings.HasPrefix(word, orMark):
				if d.words[strings.TrimPrefix(word, orMark)] {
					toRemove[word] = true
				}
			case strings.HasSuffix(word, orMark):
				if d.words[strings.TrimSuffix(word, orMark)] {
					toRemove[word] = true
				}
			default:
				parts := strings.Split(word, orMark)
				allValid := true
				for _, p := range parts {
					if p != "" && !d.words[p] {
						allValid = false
						break
					}
				}
				if allValid {
					toRemove[word] = true
				}
			}
		}

		if strings.Contains(word, repetitionMark) {
			toRemove[word] = true
		}

		if strings.HasPrefix(word, strayCoengPrefix) {
			toRemove[word] = true
		}
	}

	for word := range toRemove {
		delete(d.words, word)
	}
	if len(toRemove) > 0 {
		tracer().Infof("removed %d spurious dictionary entries", len(toRemove))
	}
	delete(d.words, repetitionMark)
}

func (d *Dictionary) recalcMaxWordLength() {
	d.maxWordLength = 0
	for word := range d.words {
		if l := len([]rune(word)); l > d.maxWordLength {
			d.maxWordLength = l
		}
	}
}

// loadFrequencies derives per-word costs from a frequency map per spec §3:
//
//	eff(w)     = max(count(w), floor)   floor = 5
//	T          = sum of eff over all entries, including variants
//	cost(w)    = -log10(eff(w)/T)
//	defaultCost = -log10(floor/T)
//	unknownCost = defaultCost + 5
//
// If freq is empty, the no-frequency defaults (10 / 20) are kept.
func (d *Dictionary) loadFrequencies(freq map[string]int) {
	if len(freq) == 0 {
		tracer().Infof("no frequency data supplied, using default costs %.2f/%.2f", d.defaultCost, d.unknownCost)
		return
	}

	effectiveCounts := make(map[string]float64, len(freq))
	var total float64

	for word, count := range freq {
		eff := math.Max(float64(count), minFreqFloor)
		effectiveCounts[word] = eff
		for _, v := range generateVariants(word) {
			if _, exists := effectiveCounts[v]; !exists {
				effectiveCounts[v] = eff
			}
		}
	}
	for _, eff := range effectiveCounts {
		total += eff
	}

	if total <= 0 {
		return
	}

	minProb := minFreqFloor / total
	d.defaultCost = -math.Log10(minProb)
	d.unknownCost = d.defaultCost + 5.0

	for word, count := range effectiveCounts {
		prob := count / total
		if prob > 0 {
			d.wordCosts[word] = -math.Log10(prob)
		}
	}

	tracer().Infof("loaded frequencies for %d words, default cost %.2f, unknown cost %.2f",
		len(d.wordCosts), d.defaultCost, d.unknownCost)
}

func (d *Dictionary) buildTrie() {
	for word := range d.words {
		d.insertIntoTrie(word, d.GetWordCost(word))
	}
}

func (d *Dictionary) insertIntoTrie(word string, cost float64) {
	node := d.trie
	for _, r := range word {
		node = node.getOrCreateChild(r)
	}
	node.isWord = true
	node.cost = cost
}

// LookupRuneRange looks up runes[start:end] in the trie and returns its
// cost, if present.
func (d *Dictionary) LookupRuneRange(runes []rune, start, end int) (float64, bool) {
	node := d.trie
	for i := start; i < end; i++ {
		child := node.getChild(runes[i])
		if child == nil {
			return 0, false
		}
		node = child
	}
	if node.isWord {
		return node.cost, true
	}
	return 0, false
}

// Contains reports whether word is a dictionary entry (or retained
// variant).
func (d *Dictionary) Contains(word string) bool {
	return d.words[word]
}

// GetWordCost returns the cost for word: its frequency-derived cost if
// known, the dictionary default cost if it is a dictionary word with no
// frequency entry, or the unknown cost otherwise.
func (d *Dictionary) GetWordCost(word string) float64 {
	if cost, ok := d.wordCosts[word]; ok {
		return cost
	}
	if d.words[word] {
		return d.defaultCost
	}
	return d.unknownCost
}

// stripZeroWidth removes U+200B (zero-width space), U+200C
// (zero-width non-joiner), and U+200D (zero-width joiner).
func stripZeroWidth(s string) string {
	if !strings.ContainsAny(s, "​‌‍") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '​' || r == '‌' || r == '‍' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
