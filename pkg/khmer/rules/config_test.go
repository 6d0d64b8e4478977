package rules

import "testing"

func TestLoadYAMLParsesRuleList(t *testing.T) {
	data := []byte(`
rules:
  - name: merge-sign-into-prev
    priority: 100
    trigger:
      type: regex
      value: "[ំ-៓]"
    checks:
      - target: prev
        exists: true
    action: merge_prev
  - name: merge-isolated-register-into-next
    priority: 90
    trigger:
      type: regex
      value: "[៉៊]"
    action: merge_next
`)
	specs, err := LoadYAML(data)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("len(specs) = %d, want 2", len(specs))
	}
	if specs[0].Name != "merge-sign-into-prev" || specs[0].Priority != 100 {
		t.Errorf("specs[0] = %+v, unexpected", specs[0])
	}
	if specs[0].Trigger.Type != "regex" {
		t.Errorf("specs[0].Trigger.Type = %q, want regex", specs[0].Trigger.Type)
	}
	if len(specs[0].Checks) != 1 || specs[0].Checks[0].Target != "prev" {
		t.Errorf("specs[0].Checks = %+v, unexpected", specs[0].Checks)
	}
	if specs[1].Action != "merge_next" {
		t.Errorf("specs[1].Action = %q, want merge_next", specs[1].Action)
	}
}

func TestLoadYAMLRejectsMalformed(t *testing.T) {
	if _, err := LoadYAML([]byte("rules: [this is not a rule list")); err == nil {
		t.Errorf("expected error for malformed YAML")
	}
}

func TestLoadYAMLEmptyIsValid(t *testing.T) {
	specs, err := LoadYAML([]byte(""))
	if err != nil {
		t.Fatalf("LoadYAML(empty): %v", err)
	}
	if len(specs) != 0 {
		t.Errorf("len(specs) = %d, want 0", len(specs))
	}
}
