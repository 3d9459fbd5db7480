package resolution

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/bayleafwalker/capture-core/internal/capability"
	"github.com/bayleafwalker/capture-core/internal/semver"
)

var (
	on    = capability.Enum("AUTO")
	off   = capability.Enum("OFF")
	yes   = capability.Bool(true)
	no    = capability.Bool(false)
	modeP = capability.ParameterID("mode")
	lockP = capability.ParameterID("lock")
)

func modeLockSteps() []Step {
	return []Step{
		Rule{ID: modeP, Select: Prefer(Priority(on, on, off))},
		Rule{
			ID:     lockP,
			Needs:  []Dependency{{On: modeP, Requires: []capability.Value{on}}},
			Select: Prefer(Priority(no, yes)),
		},
	}
}

func TestPipeline_ModeLockCluster(t *testing.T) {
	p := MustPipeline(modeLockSteps())

	auto := capability.NewBuilder().
		Set(modeP, capability.Enums("OFF", "AUTO")).
		Set(lockP, capability.Discrete(yes, no)).
		Build()
	m := p.Run(auto)
	lock, _ := m.Get(lockP)
	if lock.Status != StatusResolved || !lock.Value.Equal(yes) {
		t.Fatalf("expected lock Resolved(true), got %s %v", lock.Status, lock.Value)
	}

	manual := capability.NewBuilder().
		Set(modeP, capability.Enums("OFF")).
		Set(lockP, capability.Discrete(yes, no)).
		Build()
	m = p.Run(manual)
	if mode, _ := m.Get(modeP); !mode.Value.Equal(off) {
		t.Fatalf("expected mode OFF, got %v", mode.Value)
	}
	lock, _ = m.Get(lockP)
	if lock.Status != StatusDisabled {
		t.Fatalf("expected lock DISABLED, got %s (%s)", lock.Status, lock.Rationale)
	}
}

func TestPipeline_DependencyGateOnUnresolvedUpstream(t *testing.T) {
	p := MustPipeline(modeLockSteps())

	// mode is not exposed, lock is.
	c := capability.NewBuilder().Set(lockP, capability.Discrete(yes, no)).Build()
	m := p.Run(c)

	if mode, _ := m.Get(modeP); mode.Status != StatusNotSupported {
		t.Fatalf("expected mode NOT SUPPORTED, got %s", mode.Status)
	}
	if lock, _ := m.Get(lockP); lock.Status != StatusDisabled {
		t.Fatalf("expected lock DISABLED, got %s", lock.Status)
	}
}

func TestPipeline_BlockingDependency(t *testing.T) {
	duration := capability.ParameterID("duration")
	p := MustPipeline([]Step{
		Rule{ID: modeP, Select: Prefer(Priority(on, off))},
		Rule{
			ID:     duration,
			Needs:  []Dependency{{On: modeP, Blocks: []capability.Value{on}}},
			Select: Extreme(Minimum),
		},
	})

	cases := []struct {
		name  string
		modes capability.Descriptor
		want  Status
	}{
		{"mode unsupported", capability.NotAvailable(), StatusDisabled},
		{"mode AUTO", capability.Enums("AUTO"), StatusDisabled},
		{"mode anomalous", capability.Discrete(), StatusDisabled},
		{"mode OFF", capability.Enums("OFF", "AUTO"), StatusResolved},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := capability.NewBuilder().Set(duration, capability.Between(33, 1000))
			if tc.modes.Available() {
				b = b.Set(modeP, tc.modes)
			}
			got, _ := p.Run(b.Build()).Get(duration)
			if got.Status != tc.want {
				t.Fatalf("expected duration %s, got %s (%s)", tc.want, got.Status, got.Rationale)
			}
			if tc.want == StatusResolved && !got.Value.Equal(capability.Int(33)) {
				t.Fatalf("expected duration 33, got %v", got.Value)
			}
		})
	}
}

func TestPipeline_UnavailableShortCircuitsEveryRule(t *testing.T) {
	p := MustPipeline([]Step{
		Rule{ID: "constant", Select: Constant(off, "always off")},
		Rule{ID: "informational", Select: Informational("output only")},
		Rule{ID: "gated", Since: semver.MustParseConstraint(">= 28"), Select: Constant(off, "always off")},
	})

	m := p.Run(capability.Empty())
	if m.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", m.Len())
	}
	for _, e := range m.Entries() {
		if e.Status != StatusNotSupported {
			t.Fatalf("%s: expected NOT SUPPORTED, got %s", e.Parameter, e.Status)
		}
	}
}

func TestPipeline_PlatformGate(t *testing.T) {
	p := MustPipeline([]Step{Rule{ID: "zsl", Since: semver.MustParseConstraint(">= 26"), Select: Constant(no, "off")}})

	old := capability.NewBuilder().Platform(semver.MustParseLevel("24")).Set("zsl", capability.Present(true)).Build()
	if got, _ := p.Run(old).Get("zsl"); got.Status != StatusNotSupported || !strings.Contains(got.Rationale, ">= 26") {
		t.Fatalf("expected NOT SUPPORTED mentioning the constraint, got %s %q", got.Status, got.Rationale)
	}

	current := capability.NewBuilder().Platform(semver.MustParseLevel("28")).Set("zsl", capability.Present(true)).Build()
	if got, _ := p.Run(current).Get("zsl"); got.Status != StatusResolved {
		t.Fatalf("expected RESOLVED on 28, got %s", got.Status)
	}
}

func TestPipeline_Deterministic(t *testing.T) {
	p := MustPipeline(modeLockSteps())
	c := capability.NewBuilder().
		Set(modeP, capability.Enums("AUTO", "OFF")).
		Set(lockP, capability.Present(true)).
		Build()

	first := p.Run(c).Entries()
	for i := 0; i < 10; i++ {
		if again := p.Run(c).Entries(); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, first, again)
		}
	}
}

func TestPipeline_ConcurrentRuns(t *testing.T) {
	p := MustPipeline(modeLockSteps())
	catalogs := []*capability.Catalog{
		capability.NewBuilder().Set(modeP, capability.Enums("AUTO")).Set(lockP, capability.Discrete(yes)).Build(),
		capability.NewBuilder().Set(modeP, capability.Enums("OFF")).Build(),
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(c *capability.Catalog) {
			defer wg.Done()
			if m := p.Run(c); m.Len() != 2 {
				t.Errorf("expected 2 entries, got %d", m.Len())
			}
		}(catalogs[i%len(catalogs)])
	}
	wg.Wait()
}

func TestNewPipeline_ConfigurationErrors(t *testing.T) {
	steps := modeLockSteps()
	cases := map[string][]Step{
		"reversed":  {steps[1], steps[0]},
		"duplicate": {steps[0], steps[0]},
		"missing":   {steps[1]},
		"nil":       {steps[0], nil},
	}
	for name, s := range cases {
		if _, err := NewPipeline(s); !errors.Is(err, ErrInvalidPipeline) {
			t.Errorf("%s: expected ErrInvalidPipeline, got %v", name, err)
		}
	}

	stray := Override{QuirkName: "stray", Target: "elsewhere"}
	if _, err := NewPipeline(steps, stray); !errors.Is(err, ErrInvalidQuirk) {
		t.Fatalf("expected ErrInvalidQuirk, got %v", err)
	}
}

func TestPipeline_QuirkStage(t *testing.T) {
	demote := Override{
		QuirkName: "unlock",
		Target:    lockP,
		Apply: func(cur Setting, _ *SettingsMap, _ *capability.Catalog) (Setting, bool) {
			if !cur.IsResolved() || !cur.Value.Equal(yes) {
				return cur, false
			}
			return Resolved(lockP, no, "lock unreliable"), true
		},
	}
	p := MustPipeline(modeLockSteps(), demote)

	c := capability.NewBuilder().
		Set(modeP, capability.Enums("AUTO")).
		Set(lockP, capability.Discrete(yes, no)).
		Build()
	m := p.Run(c)

	lock, _ := m.Get(lockP)
	if !lock.Value.Equal(no) || lock.Quirk != "unlock" || !strings.HasPrefix(lock.Rationale, "quirk unlock:") {
		t.Fatalf("expected quirk override, got %+v", lock)
	}
	if m.Len() != 2 || m.Entries()[1].Parameter != lockP {
		t.Fatalf("expected quirk to replace in place, got %+v", m.Entries())
	}
	if got := p.Quirks(); !reflect.DeepEqual(got, []string{"unlock"}) {
		t.Fatalf("Quirks() = %v", got)
	}
}

type panickyStep struct{}

func (panickyStep) ParameterID() capability.ParameterID { return "panicky" }
func (panickyStep) DependsOn() []capability.ParameterID { return nil }
func (panickyStep) Resolve(*SettingsMap, *capability.Catalog) Setting {
	var d capability.Descriptor
	_ = d.Values[3]
	return Setting{}
}

func TestPipeline_StepFailureIsAnomalous(t *testing.T) {
	p := MustPipeline([]Step{panickyStep{}, Rule{ID: "after", Select: Constant(off, "off")}})

	m := p.Run(capability.NewBuilder().Set("after", capability.Present(true)).Build())
	if got, _ := m.Get("panicky"); got.Status != StatusAnomalous {
		t.Fatalf("expected ANOMALOUS, got %s", got.Status)
	}
	if got, _ := m.Get("after"); got.Status != StatusResolved {
		t.Fatalf("expected the run to continue, got %s", got.Status)
	}
}

func TestSettingsMap_UnresolvedKeys(t *testing.T) {
	m := MustPipeline(modeLockSteps()).Run(capability.Empty())

	got := m.UnresolvedKeys([]capability.ParameterID{modeP, "extra", lockP, "extra"})
	if !reflect.DeepEqual(got, []capability.ParameterID{"extra"}) {
		t.Fatalf("UnresolvedKeys = %v", got)
	}
	if m.Count(StatusNotSupported) != 2 {
		t.Fatalf("expected 2 NOT SUPPORTED entries, got %d", m.Count(StatusNotSupported))
	}
}
