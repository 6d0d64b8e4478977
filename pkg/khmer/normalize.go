package khmer

import "sort"

// Normalizer re-orders and re-composes Khmer orthographic clusters into a
// canonical form: zero-width marks stripped, split vowels fused, and
// cluster modifiers sorted into a fixed order.
//
// Normalize returns text of equal or shorter length in canonical form.
//
// Fusion runs both before and after the cluster reorder: a source digraph
// already adjacent is fused going in, and a digraph the reorder brings
// together for the first time (e.g. a sign separating U+17C1 from U+17B8 in
// the source, but sorted after both dependent vowels) is fused coming out.
// The pre-reorder pass alone lets a reorder-created digraph survive, which
// breaks idempotence once a later Normalize call fuses it.
func Normalize(text string) string {
	text = stripZeroWidth(text)
	text = fuseComposites(text)
	text = clusterPass(text)
	return fuseComposites(text)
}

// fuseComposites replaces the two split-vowel digraphs the Khmer script
// renders as one glyph: U+17C1 U+17B8 -> U+17BE and U+17C1 U+17B6 -> U+17C4.
func fuseComposites(text string) string {
	runes := []rune(text)
	out := make([]rune, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		if runes[i] == 0x17C1 && i+1 < len(runes) {
			switch runes[i+1] {
			case 0x17B8:
				out = append(out, 0x17BE)
				i++
				continue
			case 0x17B6:
				out = append(out, 0x17C4)
				i++
				continue
			}
		}
		out = append(out, runes[i])
	}
	return string(out)
}

// clusterPriority classes a cluster modifier for the stable sort described
// in spec §4.1: non-Ro subscript < stray coeng < Ro subscript < register <
// dep-vowel < sign < other.
const (
	priorityNonRoSubscript = 1
	priorityStrayCoeng     = 2
	priorityRoSubscript    = 3
	priorityRegister       = 4
	priorityDepVowel       = 5
	priorityOther          = 7
)

// clusterUnit is one attached unit of a cluster: either a two-rune
// subscript (coeng + base) or a single modifier rune.
type clusterUnit struct {
	runes    []rune
	priority int
}

// clusterPass performs the linear scan of spec §4.1 step 3: base characters
// open a new cluster, coeng+base pairs and modifiers attach to the open
// cluster, and everything else flushes the current cluster and is emitted
// verbatim.
func clusterPass(text string) string {
	runes := []rune(text)
	n := len(runes)
	out := make([]rune, 0, n)

	var base rune
	var units []clusterUnit
	open := false

	flush := func() {
		if !open {
			return
		}
		out = append(out, base)
		out = append(out, sortedUnits(units)...)
		units = units[:0]
		open = false
	}

	for i := 0; i < n; i++ {
		c := runes[i]
		switch {
		case IsBase(c):
			flush()
			base = c
			open = true
		case IsCoeng(c):
			var unit clusterUnit
			if i+1 < n && IsBase(runes[i+1]) {
				priority := priorityNonRoSubscript
				if runes[i+1] == 0x179A {
					priority = priorityRoSubscript
				}
				unit = clusterUnit{runes: []rune{c, runes[i+1]}, priority: priority}
				i++
			} else {
				unit = clusterUnit{runes: []rune{c}, priority: priorityStrayCoeng}
			}
			if open {
				units = append(units, unit)
			} else {
				out = append(out, unit.runes...)
			}
		case IsRegister(c):
			appendModifier(&out, &units, open, c, priorityRegister)
		case IsDependentVowel(c):
			appendModifier(&out, &units, open, c, priorityDepVowel)
		case IsSign(c):
			appendModifier(&out, &units, open, c, priorityOther-1) // sign, just above "other"
		default:
			flush()
			out = append(out, c)
		}
	}
	flush()

	return string(out)
}

// appendModifier attaches a register/dep-vowel/sign rune to the open
// cluster, or emits it in isolation when no cluster is open.
func appendModifier(out *[]rune, units *[]clusterUnit, open bool, c rune, priority int) {
	if open {
		*units = append(*units, clusterUnit{runes: []rune{c}, priority: priority})
		return
	}
	*out = append(*out, c)
}

// sortedUnits flattens a cluster's attached units in priority order with a
// stable sort, so units of equal priority keep their original relative
// order.
func sortedUnits(units []clusterUnit) []rune {
	ordered := make([]clusterUnit, len(units))
	copy(ordered, units)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].priority < ordered[j].priority
	})
	out := make([]rune, 0, len(units)*2)
	for _, u := range ordered {
		out = append(out, u.runes...)
	}
	return out
}
