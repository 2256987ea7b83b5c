package model

import (
	"encoding/json"
	"testing"
)

func TestSeverityRoundTrip(t *testing.T) {
	for _, s := range []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical} {
		if got := ParseSeverity(s.String()); got != s {
			t.Errorf("ParseSeverity(%q) = %v, want %v", s.String(), got, s)
		}
	}
}

func TestParseSeverityUnknownDefaultsLow(t *testing.T) {
	if got := ParseSeverity("catastrophic"); got != SeverityLow {
		t.Errorf("expected low for unknown severity, got %v", got)
	}
}

func TestFindingJSON(t *testing.T) {
	raw := `{"id":"sec-1","type":"vulnerability","severity":"HIGH","title":"Hardcoded API Key","file":"src/auth.ts","line":42,"confidence":0.9}`

	var f Finding
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		t.Fatal(err)
	}

	if f.Severity != SeverityHigh {
		t.Errorf("severity = %v, want high", f.Severity)
	}
	if f.Type != TypeVulnerability {
		t.Errorf("type = %v, want vulnerability", f.Type)
	}
	if f.Line == nil || *f.Line != 42 {
		t.Errorf("line = %v, want 42", f.Line)
	}
}

func TestFindingLineAbsent(t *testing.T) {
	var f Finding
	if err := json.Unmarshal([]byte(`{"title":"t","file":"f","severity":"low","type":"issue"}`), &f); err != nil {
		t.Fatal(err)
	}
	if f.Line != nil {
		t.Errorf("expected nil line for file-level finding, got %d", *f.Line)
	}
}

func TestSameLine(t *testing.T) {
	a := Finding{File: "x.go", Line: IntPtr(10)}
	b := Finding{File: "x.go", Line: IntPtr(10)}
	c := Finding{File: "x.go"}
	d := Finding{File: "x.go"}

	if !a.SameLine(b) {
		t.Error("same numeric lines should match")
	}
	if a.SameLine(c) {
		t.Error("present vs absent line should not match")
	}
	if !c.SameLine(d) {
		t.Error("two absent lines should match")
	}
}

func TestNormalTitle(t *testing.T) {
	f := Finding{Title: "  Hardcoded   API  Key "}
	if got := f.NormalTitle(); got != "hardcoded api key" {
		t.Errorf("NormalTitle = %q", got)
	}
}
