// Package rules implements the declarative, priority-ordered rewriter that
// merges or keeps adjacent segmentation tokens, as described in spec §4.5.
//
// The engine is parameterized by a small Predicates interface supplied by
// the caller (the top-level segmenter) rather than owning a back-reference
// to it, which would otherwise create a cyclic dependency between the rule
// engine and the segmenter.
package rules

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'khmer.rules'
func tracer() tracing.Trace {
	return tracing.Select("khmer.rules")
}

// Predicates are the segmenter-owned classifiers the rule engine consults
// when evaluating triggers and checks.
type Predicates struct {
	IsSeparator     func(tok string) bool
	IsInvalidSingle func(tok string) bool
}

// TriggerSpec is the YAML/JSON-facing description of a rule's trigger.
type TriggerSpec struct {
	Type  string `yaml:"type" json:"type"`
	Value string `yaml:"value" json:"value"`
}

// CheckSpec is the YAML/JSON-facing description of one rule check.
type CheckSpec struct {
	Target string `yaml:"target" json:"target"`
	Exists *bool  `yaml:"exists,omitempty" json:"exists,omitempty"`
	Check  string `yaml:"check,omitempty" json:"check,omitempty"`
	Value  any    `yaml:"value,omitempty" json:"value,omitempty"`
}

// RuleSpec is the YAML/JSON-facing description of one rule, per spec §6.
type RuleSpec struct {
	Name     string      `yaml:"name" json:"name"`
	Priority int         `yaml:"priority" json:"priority"`
	Trigger  TriggerSpec `yaml:"trigger" json:"trigger"`
	Checks   []CheckSpec `yaml:"checks,omitempty" json:"checks,omitempty"`
	Action   string      `yaml:"action" json:"action"`
}

// compiledRule is a RuleSpec with its trigger precompiled and its checks
// carried forward unchanged (checks are evaluated structurally, not
// compiled).
type compiledRule struct {
	spec    RuleSpec
	trigger func(tok string, preds Predicates) bool
}

// Engine holds a priority-sorted list of compiled rules and rewrites token
// sequences by repeatedly applying the first rule that fires at each
// position.
type Engine struct {
	rules []compiledRule
	preds Predicates
}

// New compiles specs into an Engine. Rules with an unrecognized trigger
// type are dropped with a logged error; an Engine with zero rules is still
// valid (rule application becomes the identity function).
func New(specs []RuleSpec, preds Predicates) *Engine {
	sorted := make([]RuleSpec, len(specs))
	copy(sorted, specs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})

	e := &Engine{preds: preds}
	for _, spec := range sorted {
		trigger, err := compileTrigger(spec.Trigger)
		if err != nil {
			tracer().Errorf("dropping rule %q: %v", spec.Name, err)
			continue
		}
		e.rules = append(e.rules, compiledRule{spec: spec, trigger: trigger})
	}
	return e
}

func compileTrigger(t TriggerSpec) (func(tok string, preds Predicates) bool, error) {
	switch t.Type {
	case "exact_match":
		value := t.Value
		return func(tok string, _ Predicates) bool {
			return tok == value
		}, nil
	case "regex":
		re, err := regexp.Compile("^" + t.Value)
		if err != nil {
			return nil, fmt.Errorf("bad regex %q: %w", t.Value, err)
		}
		return func(tok string, _ Predicates) bool {
			return re.MatchString(tok)
		}, nil
	case "complexity_check":
		if t.Value != "is_invalid_single" {
			return nil, fmt.Errorf("unknown complexity_check value %q", t.Value)
		}
		return func(tok string, preds Predicates) bool {
			return preds.IsInvalidSingle(tok)
		}, nil
	default:
		return nil, fmt.Errorf("unknown trigger type %q", t.Type)
	}
}

// Apply runs the engine over segs, returning the rewritten sequence. It
// walks an explicit mutable index: merges re-evaluate the merged token from
// the top of the rule list, "keep" and "no rule fired" advance the index.
func (e *Engine) Apply(segs []string) []string {
	working := make([]string, len(segs))
	copy(working, segs)

	i := 0
	for i < len(working) {
		fired := false
		for _, r := range e.rules {
			if !r.trigger(working[i], e.preds) {
				continue
			}
			if !e.checksPass(r.spec.Checks, working, i) {
				continue
			}
			working, i = applyAction(r.spec.Action, working, i)
			fired = true
			break
		}
		if !fired {
			i++
		}
	}
	return working
}

// applyAction runs one rule action against segs at position i, per
// spec §4.5:
//   - merge_next: if i+1 exists, fold segs[i+1] into segs[i] and drop
//     segs[i+1]; re-evaluate at the same index. At the last index there is
//     nothing to merge into, so this degrades to advancing past i.
//   - merge_prev: if i>0, fold segs[i] into segs[i-1] and drop segs[i];
//     re-evaluate at i-1. At i==0 there is nothing to merge into, so this
//     degrades to advancing past i.
//   - keep: advance past i without trying further rules here.
//
// Every branch strictly advances i or shrinks segs, so the caller's loop is
// guaranteed to make progress and cannot spin on a boundary token.
func applyAction(action string, segs []string, i int) ([]string, int) {
	switch action {
	case "merge_next":
		if i+1 >= len(segs) {
			return segs, i + 1
		}
		segs[i] = segs[i] + segs[i+1]
		segs = append(segs[:i+1], segs[i+2:]...)
		return segs, i
	case "merge_prev":
		if i == 0 {
			return segs, i + 1
		}
		segs[i-1] = segs[i-1] + segs[i]
		segs = append(segs[:i], segs[i+1:]...)
		return segs, i - 1
	case "keep":
		return segs, i + 1
	default:
		return segs, i + 1
	}
}

// checksPass evaluates every check against the segment at position i,
// per spec §4.5: all checks must pass.
func (e *Engine) checksPass(checks []CheckSpec, segs []string, i int) bool {
	for _, c := range checks {
		if !e.checkPasses(c, segs, i) {
			return false
		}
	}
	return true
}

func (e *Engine) checkPasses(c CheckSpec, segs []string, i int) bool {
	target, exists := resolveTarget(c.Target, segs, i)

	if c.Exists != nil {
		if *c.Exists && !exists {
			return false
		}
	}
	if !exists {
		if c.Check != "" || c.Value != nil {
			return false
		}
		return true
	}

	switch c.Check {
	case "is_separator":
		want, _ := c.Value.(bool)
		return e.preds.IsSeparator(target) == want
	case "is_isolated":
		want, _ := c.Value.(bool)
		return isIsolated(segs, i, e.preds) == want
	case "":
		return true
	default:
		tracer().Errorf("unknown check kind %q, treating as pass", c.Check)
		return true
	}
}

// resolveTarget resolves a check's target keyword to a segment and whether
// it exists (is in bounds).
func resolveTarget(target string, segs []string, i int) (string, bool) {
	switch target {
	case "prev":
		if i-1 >= 0 {
			return segs[i-1], true
		}
		return "", false
	case "next":
		if i+1 < len(segs) {
			return segs[i+1], true
		}
		return "", false
	case "current", "context":
		return segs[i], true
	default:
		return "", false
	}
}

// isIsolated reports whether the segment at i has a separator (or absent)
// neighbor on both sides.
func isIsolated(segs []string, i int, preds Predicates) bool {
	prevOK := i == 0 || preds.IsSeparator(segs[i-1])
	nextOK := i == len(segs)-1 || preds.IsSeparator(segs[i+1])
	return prevOK && nextOK
}
