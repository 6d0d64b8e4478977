package rules

import (
	"reflect"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func alwaysSeparator(tok string) bool   { return tok == "|" }
func neverInvalidSingle(tok string) bool { return false }

func testPreds() Predicates {
	return Predicates{
		IsSeparator:     alwaysSeparator,
		IsInvalidSingle: neverInvalidSingle,
	}
}

func TestEngineExactMatchMergeNext(t *testing.T) {
	specs := []RuleSpec{
		{
			Name:     "merge-x-into-next",
			Priority: 10,
			Trigger:  TriggerSpec{Type: "exact_match", Value: "x"},
			Action:   "merge_next",
		},
	}
	e := New(specs, testPreds())
	got := e.Apply([]string{"x", "y", "z"})
	want := []string{"xy", "z"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Apply = %v, want %v", got, want)
	}
}

func TestEngineRegexMergePrev(t *testing.T) {
	specs := []RuleSpec{
		{
			Name:     "merge-dot-into-prev",
			Priority: 10,
			Trigger:  TriggerSpec{Type: "regex", Value: `\.$`},
			Action:   "merge_prev",
		},
	}
	e := New(specs, testPreds())
	got := e.Apply([]string{"abc", "."})
	want := []string{"abc."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Apply = %v, want %v", got, want)
	}
}

func TestEngineRegexAnchoredAtStart(t *testing.T) {
	specs := []RuleSpec{
		{
			Name:     "merge-a-prefix",
			Priority: 10,
			Trigger:  TriggerSpec{Type: "regex", Value: "a"},
			Action:   "merge_next",
		},
	}
	e := New(specs, testPreds())
	// "ba" contains "a" but does not start with it, so the anchored regex
	// must not fire on it.
	got := e.Apply([]string{"ba", "c"})
	want := []string{"ba", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Apply = %v, want %v", got, want)
	}
}

func TestEngineComplexityCheckTrigger(t *testing.T) {
	specs := []RuleSpec{
		{
			Name:     "merge-invalid-single",
			Priority: 10,
			Trigger:  TriggerSpec{Type: "complexity_check", Value: "is_invalid_single"},
			Action:   "merge_next",
		},
	}
	preds := Predicates{
		IsSeparator:     alwaysSeparator,
		IsInvalidSingle: func(tok string) bool { return tok == "q" },
	}
	e := New(specs, preds)
	got := e.Apply([]string{"q", "r"})
	want := []string{"qr"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Apply = %v, want %v", got, want)
	}
}

func TestEngineChecksGateAction(t *testing.T) {
	specs := []RuleSpec{
		{
			Name:     "merge-next-if-next-is-separator",
			Priority: 10,
			Trigger:  TriggerSpec{Type: "exact_match", Value: "x"},
			Checks: []CheckSpec{
				{Target: "next", Check: "is_separator", Value: true},
			},
			Action: "merge_next",
		},
	}
	e := New(specs, testPreds())

	got := e.Apply([]string{"x", "|"})
	want := []string{"x|"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Apply(with separator next) = %v, want %v", got, want)
	}

	got2 := e.Apply([]string{"x", "y"})
	want2 := []string{"x", "y"}
	if !reflect.DeepEqual(got2, want2) {
		t.Errorf("Apply(without separator next) = %v, want %v", got2, want2)
	}
}

func TestEngineIsolatedCheck(t *testing.T) {
	specs := []RuleSpec{
		{
			Name:     "merge-isolated-x-into-next",
			Priority: 10,
			Trigger:  TriggerSpec{Type: "exact_match", Value: "x"},
			Checks: []CheckSpec{
				{Target: "current", Check: "is_isolated", Value: true},
			},
			Action: "merge_next",
		},
	}
	e := New(specs, testPreds())

	got := e.Apply([]string{"|", "x", "|"})
	want := []string{"|", "x|"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Apply = %v, want %v", got, want)
	}
}

func TestEngineExistsCheckFailsWhenTargetMissing(t *testing.T) {
	specs := []RuleSpec{
		{
			Name:     "merge-prev-requires-prev",
			Priority: 10,
			Trigger:  TriggerSpec{Type: "exact_match", Value: "x"},
			Checks: []CheckSpec{
				{Target: "prev", Exists: boolPtr(true)},
			},
			Action: "merge_prev",
		},
	}
	e := New(specs, testPreds())
	got := e.Apply([]string{"x", "y"})
	want := []string{"x", "y"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Apply = %v, want %v", got, want)
	}
}

func TestEngineKeepAction(t *testing.T) {
	specs := []RuleSpec{
		{
			Name:     "keep-x",
			Priority: 10,
			Trigger:  TriggerSpec{Type: "exact_match", Value: "x"},
			Action:   "keep",
		},
	}
	e := New(specs, testPreds())
	got := e.Apply([]string{"x", "y"})
	want := []string{"x", "y"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Apply = %v, want %v", got, want)
	}
}

func TestEngineDropsRuleWithBadTrigger(t *testing.T) {
	specs := []RuleSpec{
		{Name: "bad", Priority: 100, Trigger: TriggerSpec{Type: "nonsense"}, Action: "merge_next"},
		{Name: "good", Priority: 10, Trigger: TriggerSpec{Type: "exact_match", Value: "x"}, Action: "merge_next"},
	}
	e := New(specs, testPreds())
	if len(e.rules) != 1 {
		t.Fatalf("expected bad rule to be dropped, got %d compiled rules", len(e.rules))
	}
	got := e.Apply([]string{"x", "y"})
	want := []string{"xy"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Apply = %v, want %v", got, want)
	}
}

func TestEnginePriorityOrdering(t *testing.T) {
	specs := []RuleSpec{
		{Name: "low", Priority: 1, Trigger: TriggerSpec{Type: "exact_match", Value: "x"}, Action: "keep"},
		{Name: "high", Priority: 100, Trigger: TriggerSpec{Type: "exact_match", Value: "x"}, Action: "merge_next"},
	}
	e := New(specs, testPreds())
	if e.rules[0].spec.Name != "high" {
		t.Errorf("expected higher-priority rule first, got %q", e.rules[0].spec.Name)
	}
	got := e.Apply([]string{"x", "y"})
	want := []string{"xy"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Apply = %v, want %v", got, want)
	}
}

func TestEngineMergeNextAtLastIndexAdvancesInsteadOfSpinning(t *testing.T) {
	specs := []RuleSpec{
		{
			Name:     "merge-isolated-register-into-next",
			Priority: 90,
			Trigger:  TriggerSpec{Type: "exact_match", Value: "x"},
			Checks: []CheckSpec{
				{Target: "current", Check: "is_isolated", Value: true},
			},
			Action: "merge_next",
		},
	}
	e := New(specs, testPreds())
	// "x" is both first and last, so is_isolated holds and merge_next has no
	// next token to fold into; the engine must still terminate.
	got := e.Apply([]string{"x"})
	want := []string{"x"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Apply = %v, want %v", got, want)
	}
}

func TestEngineMergePrevAtFirstIndexAdvancesInsteadOfSpinning(t *testing.T) {
	specs := []RuleSpec{
		{
			Name:     "merge-into-prev",
			Priority: 10,
			Trigger:  TriggerSpec{Type: "exact_match", Value: "x"},
			Action:   "merge_prev",
		},
	}
	e := New(specs, testPreds())
	// "x" is at i==0, so merge_prev has no previous token to fold into; the
	// engine must still terminate and leave the token in place.
	got := e.Apply([]string{"x", "y"})
	want := []string{"x", "y"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Apply = %v, want %v", got, want)
	}
}

func TestEngineEmptyRuleListIsIdentity(t *testing.T) {
	e := New(nil, testPreds())
	got := e.Apply([]string{"a", "b", "c"})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Apply = %v, want %v", got, want)
	}
}
