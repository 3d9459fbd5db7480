package semver

import "testing"

func TestConstraintAllows(t *testing.T) {
	c := MustParseConstraint(">= 28")

	if !c.Allows(MustParseLevel("28")) {
		t.Fatalf("expected 28 to satisfy >= 28")
	}
	if !c.Allows(MustParseLevel("30.1")) {
		t.Fatalf("expected 30.1 to satisfy >= 28")
	}
	if c.Allows(MustParseLevel("27")) {
		t.Fatalf("expected 27 to NOT satisfy >= 28")
	}
}

func TestConstraintAllows_UnknownLevelPasses(t *testing.T) {
	c := MustParseConstraint("< 23")
	if !c.Allows(Level{}) {
		t.Fatalf("expected unknown level to pass every constraint")
	}
	if (Constraint{}).Allows(MustParseLevel("21")) != true {
		t.Fatalf("expected empty constraint to pass")
	}
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("")
	if err != nil {
		t.Fatalf("ParseLevel(\"\"): %v", err)
	}
	if l.Known() {
		t.Fatalf("expected empty level to be unknown")
	}
	if _, err := ParseLevel("not-a-level"); err == nil {
		t.Fatalf("expected error for malformed level")
	}
	if l.String() != "unknown" {
		t.Fatalf("expected unknown level to render as unknown, got %q", l.String())
	}
}
