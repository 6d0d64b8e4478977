package khmer

import (
	"github.com/khmer-segmenter/pkg/khmer/rules"
)

// Segmenter is the top-level, construct-once entry point of the core:
// normalize -> DP cover -> rule rewrite -> unknown grouping. Its dictionary
// and rule engine are read-only after construction, but Segment reuses DP
// buffers held on the value, so one Segmenter must not run Segment from
// several goroutines at once; give each goroutine its own Clone().
type Segmenter struct {
	dict   *Dictionary
	engine *rules.Engine

	// Reusable DP buffers. Not safe for concurrent use by a single
	// Segmenter value; callers that want concurrency construct one
	// Segmenter per worker over a shared, read-only Dictionary (see
	// cmd/khmer), mirroring the teacher's per-goroutine segmenter pattern.
	dpCost   []float64
	dpParent []int
}

// NewSegmenter builds a Segmenter from in-memory dictionary text, an
// optional frequency map, and an ordered rule list, per spec §6.
func NewSegmenter(dictText string, freq map[string]int, ruleSpecs []rules.RuleSpec) (*Segmenter, error) {
	dict := NewDictionary()
	if err := dict.Load(dictText, freq); err != nil {
		return nil, err
	}

	s := &Segmenter{
		dict:     dict,
		dpCost:   make([]float64, 1024),
		dpParent: make([]int, 1024),
	}

	preds := rules.Predicates{
		IsSeparator:     s.isSingleSeparator,
		IsInvalidSingle: s.isInvalidSingle,
	}
	s.engine = rules.New(ruleSpecs, preds)

	return s, nil
}

// Segment converts text into an ordered sequence of tokens, per spec §4.7.
// When disablePostProcessing is true, the rule engine and unknown grouper
// are skipped and the raw DP cover is returned.
func (s *Segmenter) Segment(text string, disablePostProcessing ...bool) []string {
	skipPostProcessing := len(disablePostProcessing) > 0 && disablePostProcessing[0]

	normalized := Normalize(text)
	if normalized == "" {
		return []string{}
	}

	runes := []rune(normalized)
	s.dpCost, s.dpParent = runDP(runes, s.dict, s.dpCost, s.dpParent)
	raw := backtrack(runes, s.dpParent[:len(runes)+1])

	if skipPostProcessing {
		return raw
	}

	rewritten := s.engine.Apply(raw)
	return groupUnknowns(rewritten, s.dict)
}

// IsUnknown reports whether token would be annotated unknown by Segment's
// output, per spec §4.7.
func (s *Segmenter) IsUnknown(token string) bool {
	return s.dict.IsUnknown(token)
}

// Clone returns a new Segmenter sharing this one's dictionary and compiled
// rule engine but with its own per-call DP buffers. Segment mutates those
// buffers, so a single Segmenter value must not be called concurrently;
// spec §5's "construct once, call from many goroutines" model is served by
// handing each worker goroutine its own Clone() of one loaded Segmenter,
// mirroring the teacher's per-goroutine segmenter pattern in cmd/khmer.
func (s *Segmenter) Clone() *Segmenter {
	return &Segmenter{
		dict:     s.dict,
		engine:   s.engine,
		dpCost:   make([]float64, 1024),
		dpParent: make([]int, 1024),
	}
}

// isSingleSeparator backs the rule engine's is_separator check: true only
// for single-character separator tokens (a multi-character token cannot be
// "the" separator, even if every rune in it happens to be one).
func (s *Segmenter) isSingleSeparator(tok string) bool {
	runes := []rune(tok)
	return len(runes) == 1 && IsSeparator(runes[0])
}

// isInvalidSingle backs the complexity_check "is_invalid_single" trigger:
// true when tok is a single Khmer character that is not a valid single
// base, not a digit, not a separator, and not itself in the dictionary.
func (s *Segmenter) isInvalidSingle(tok string) bool {
	runes := []rune(tok)
	if len(runes) != 1 {
		return false
	}
	r := runes[0]
	if !IsKhmerChar(r) {
		return false
	}
	if IsValidSingleWord(r) || IsDigit(r) || IsSeparator(r) {
		return false
	}
	return !s.dict.Contains(tok)
}
