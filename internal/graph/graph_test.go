package graph

import (
	"errors"
	"testing"
)

func TestValidateOrder_AcceptsDependenciesDeclaredFirst(t *testing.T) {
	g, err := New([]Node{
		{Key: "mode"},
		{Key: "lock", DependsOn: []string{"mode"}},
		{Key: "regions", DependsOn: []string{"mode", "lock"}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := g.ValidateOrder(); err != nil {
		t.Fatalf("ValidateOrder: %v", err)
	}
	if !g.Has("regions") || g.Has("focus") {
		t.Fatalf("unexpected node set")
	}
}

func TestValidateOrder_Violations(t *testing.T) {
	cases := []struct {
		name  string
		nodes []Node
		want  error
	}{
		{"forward", []Node{{Key: "lock", DependsOn: []string{"mode"}}, {Key: "mode"}}, ErrOrderViolation},
		{"unknown", []Node{{Key: "lock", DependsOn: []string{"mode"}}}, ErrUnknownDependency},
		{"self", []Node{{Key: "lock", DependsOn: []string{"lock"}}}, ErrSelfDependency},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := New(tc.nodes)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if err := g.ValidateOrder(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestNew_RejectsDuplicates(t *testing.T) {
	if _, err := New([]Node{{Key: "mode"}, {Key: "mode"}}); !errors.Is(err, ErrDuplicateNode) {
		t.Fatalf("expected ErrDuplicateNode, got %v", err)
	}
}
