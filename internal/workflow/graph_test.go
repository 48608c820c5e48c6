package workflow

import (
	"testing"
)

func names(stage []Task) []string {
	out := make([]string, len(stage))
	for i, t := range stage {
		out[i] = t.Name
	}
	return out
}

func TestGraphLevelsIndependentTasksTogether(t *testing.T) {
	g, err := NewGraph(
		Task{Name: "a", Field: "a"},
		Task{Name: "b", Field: "b"},
		Task{Name: "c", Field: "c", DependsOn: []string{"a", "b"}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stages := g.Stages()
	if len(stages) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(stages))
	}
	if len(stages[0]) != 2 {
		t.Fatalf("stage 0 should hold a and b: %v", names(stages[0]))
	}
	if len(stages[1]) != 1 || stages[1][0].Name != "c" {
		t.Fatalf("stage 1 should hold c: %v", names(stages[1]))
	}
}

func TestGraphDeepChain(t *testing.T) {
	g, err := NewGraph(
		Task{Name: "analyst", Field: "analysis"},
		Task{Name: "writer", Field: "draft", DependsOn: []string{"analyst"}},
		Task{Name: "editor", Field: "letter", DependsOn: []string{"writer"}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Stages()) != 3 {
		t.Fatalf("expected 3 stages, got %d", len(g.Stages()))
	}
}

func TestGraphRejectsCycle(t *testing.T) {
	_, err := NewGraph(
		Task{Name: "a", Field: "a", DependsOn: []string{"b"}},
		Task{Name: "b", Field: "b", DependsOn: []string{"a"}},
	)
	if err == nil {
		t.Fatal("expected cycle error")
	}
}

func TestGraphRejectsUnknownDependency(t *testing.T) {
	_, err := NewGraph(Task{Name: "a", Field: "a", DependsOn: []string{"ghost"}})
	if err == nil {
		t.Fatal("expected unknown dependency error")
	}
}

func TestGraphRejectsDuplicateNames(t *testing.T) {
	_, err := NewGraph(
		Task{Name: "a", Field: "x"},
		Task{Name: "a", Field: "y"},
	)
	if err == nil {
		t.Fatal("expected duplicate name error")
	}
}

func TestGraphRejectsEmpty(t *testing.T) {
	if _, err := NewGraph(); err == nil {
		t.Fatal("expected error for empty graph")
	}
}
